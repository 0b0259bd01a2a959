package service

import (
	"sync"

	"github.com/ilinovom/voice-hug-bot/internal/model"
)

// SessionStore keeps each user's menu choices in memory only.
type SessionStore struct {
	mu   sync.RWMutex
	data map[int64]model.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{data: map[int64]model.Session{}}
}

// Get returns the session and whether one exists.
func (s *SessionStore) Get(userID int64) (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.data[userID]
	return sess, ok
}

func (s *SessionStore) SetLanguage(userID int64, lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.data[userID]
	sess.Language = lang
	s.data[userID] = sess
}

func (s *SessionStore) SetVoice(userID int64, voiceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.data[userID]
	sess.VoiceID = voiceID
	s.data[userID] = sess
}
