package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ilinovom/voice-hug-bot/internal/model"
	"github.com/ilinovom/voice-hug-bot/internal/repository"
)

// DefaultDailyLimit is the number of free messages per calendar day.
const DefaultDailyLimit = 3

// UsageLedger enforces the daily quota and the subscription tier on top of an
// AccountRepository. Calls are serialized per process; CanSend and RecordUsage
// are separate steps, so two concurrent turns of one user may both pass the
// check.
type UsageLedger struct {
	mu   sync.Mutex
	repo repository.AccountRepository
	now  func() time.Time
}

// LedgerOption customizes a UsageLedger.
type LedgerOption func(*UsageLedger)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *UsageLedger) { l.now = now }
}

func NewUsageLedger(repo repository.AccountRepository, opts ...LedgerOption) *UsageLedger {
	l := &UsageLedger{repo: repo, now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *UsageLedger) today() time.Time {
	return model.Day(l.now())
}

// EnsureAccount creates the account on first contact. Existing accounts are
// left untouched.
func (l *UsageLedger) EnsureAccount(ctx context.Context, userID int64, username, firstName, language string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	today := l.today()
	_, err := l.repo.Insert(ctx, &model.Account{
		UserID:          userID,
		Username:        username,
		FirstName:       firstName,
		Language:        language,
		Tier:            model.TierFree,
		LastMessageDate: today,
		JoinDate:        today,
	})
	return err
}

// CanSend reports whether the user may send one more message today. Users
// without an account are refused: they never went through /start.
func (l *UsageLedger) CanSend(ctx context.Context, userID int64, dailyLimit int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, err := l.repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	today := l.today()
	if !model.SameDay(acc.LastMessageDate, today) {
		if err := l.repo.ResetDay(ctx, userID, today); err != nil {
			return false, err
		}
		return true, nil
	}
	if acc.Tier.IsPremium() {
		return true, nil
	}
	return acc.MessagesToday < dailyLimit, nil
}

// RecordUsage counts one delivered message.
func (l *UsageLedger) RecordUsage(ctx context.Context, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.IncrementUsage(ctx, userID)
}

// SetSubscription changes the tier without touching the counters.
func (l *UsageLedger) SetSubscription(ctx context.Context, userID int64, tier model.Tier) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.SetSubscription(ctx, userID, tier)
}

// Stats returns the total and premium account counts.
func (l *UsageLedger) Stats(ctx context.Context) (model.Stats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Stats(ctx)
}

// Account returns a snapshot of the stored account.
func (l *UsageLedger) Account(ctx context.Context, userID int64) (*model.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.repo.Get(ctx, userID)
}

// IsPremium reads the current tier. Missing accounts are free.
func (l *UsageLedger) IsPremium(ctx context.Context, userID int64) (bool, error) {
	acc, err := l.Account(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return acc.Tier.IsPremium(), nil
}
