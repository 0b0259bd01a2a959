package repository

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/ilinovom/voice-hug-bot/internal/model"
)

// ErrNotFound is returned when no account exists for the requested user.
var ErrNotFound = errors.New("account not found")

// AccountRepository abstracts persistence of user accounts.
type AccountRepository interface {
	// Insert stores the account unless one already exists for the user and
	// reports whether a row was created.
	Insert(ctx context.Context, acc *model.Account) (bool, error)
	Get(ctx context.Context, userID int64) (*model.Account, error)
	// ResetDay zeroes the daily counter and moves the last message date.
	ResetDay(ctx context.Context, userID int64, day time.Time) error
	IncrementUsage(ctx context.Context, userID int64) error
	SetSubscription(ctx context.Context, userID int64, tier model.Tier) error
	Stats(ctx context.Context) (model.Stats, error)
	Close() error
}

// FileAccountRepository stores accounts in a JSON file.
type FileAccountRepository struct {
	path string
	mu   sync.Mutex
	data map[int64]*model.Account
}

// NewFileAccountRepository loads accounts from the given JSON file or creates it if missing.
func NewFileAccountRepository(path string) (*FileAccountRepository, error) {
	r := &FileAccountRepository{path: path, data: map[int64]*model.Account{}}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// load reads the JSON file into memory.
func (r *FileAccountRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	file, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(&r.data)
}

// saveLocked writes the in-memory data back to disk.
func (r *FileAccountRepository) saveLocked() error {
	file, err := os.Create(r.path)
	if err != nil {
		return err
	}
	defer file.Close()
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(r.data)
}

func (r *FileAccountRepository) Insert(ctx context.Context, acc *model.Account) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[acc.UserID]; ok {
		return false, nil
	}
	c := *acc
	r.data[acc.UserID] = &c
	return true, r.saveLocked()
}

func (r *FileAccountRepository) Get(ctx context.Context, userID int64) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.data[userID]; ok {
		c := *a
		return &c, nil
	}
	return nil, ErrNotFound
}

func (r *FileAccountRepository) ResetDay(ctx context.Context, userID int64, day time.Time) error {
	return r.update(userID, func(a *model.Account) {
		a.MessagesToday = 0
		a.LastMessageDate = model.Day(day)
	})
}

func (r *FileAccountRepository) IncrementUsage(ctx context.Context, userID int64) error {
	return r.update(userID, func(a *model.Account) {
		a.MessagesToday++
	})
}

func (r *FileAccountRepository) SetSubscription(ctx context.Context, userID int64, tier model.Tier) error {
	return r.update(userID, func(a *model.Account) {
		a.Tier = tier
	})
}

func (r *FileAccountRepository) Stats(ctx context.Context) (model.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := model.Stats{Total: len(r.data)}
	for _, a := range r.data {
		if a.Tier.IsPremium() {
			s.Premium++
		}
	}
	return s, nil
}

func (r *FileAccountRepository) Close() error { return nil }

func (r *FileAccountRepository) update(userID int64, fn func(a *model.Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[userID]
	if !ok {
		return ErrNotFound
	}
	fn(a)
	return r.saveLocked()
}
