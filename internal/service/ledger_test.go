package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilinovom/voice-hug-bot/internal/model"
	"github.com/ilinovom/voice-hug-bot/internal/repository"
)

// testClock is a settable clock shared by a ledger and its test.
type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) NextDay() { c.t = c.t.AddDate(0, 0, 1) }

func newTestLedger(t *testing.T) (*UsageLedger, *testClock) {
	t.Helper()
	repo, err := repository.NewFileAccountRepository(filepath.Join(t.TempDir(), "accounts.json"))
	require.NoError(t, err)
	clock := &testClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	return NewUsageLedger(repo, WithClock(clock.Now)), clock
}

func TestLedger_NewAccountCanSend(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.EnsureAccount(ctx, 1, "alice", "Alice", "en"))
	ok, err := l.CanSend(ctx, 1, DefaultDailyLimit)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLedger_UnknownUserIsRefused(t *testing.T) {
	l, _ := newTestLedger(t)
	ok, err := l.CanSend(context.Background(), 42, DefaultDailyLimit)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedger_EnsureAccountKeepsExisting(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.EnsureAccount(ctx, 1, "alice", "Alice", "en"))
	require.NoError(t, l.RecordUsage(ctx, 1))
	require.NoError(t, l.EnsureAccount(ctx, 1, "other", "Other", "ru"))

	acc, err := l.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, 1, acc.MessagesToday)
}

func TestLedger_FreeLimit(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, l.EnsureAccount(ctx, 1, "alice", "Alice", "en"))

	for i := 0; i < DefaultDailyLimit; i++ {
		ok, err := l.CanSend(ctx, 1, DefaultDailyLimit)
		require.NoError(t, err)
		require.True(t, ok, "message %d", i+1)
		require.NoError(t, l.RecordUsage(ctx, 1))
	}

	ok, err := l.CanSend(ctx, 1, DefaultDailyLimit)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLedger_PremiumIsUnlimited(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, l.EnsureAccount(ctx, 1, "alice", "Alice", "en"))
	require.NoError(t, l.SetSubscription(ctx, 1, model.TierPremium))

	for i := 0; i < 10; i++ {
		require.NoError(t, l.RecordUsage(ctx, 1))
	}
	ok, err := l.CanSend(ctx, 1, DefaultDailyLimit)
	require.NoError(t, err)
	assert.True(t, ok)

	premium, err := l.IsPremium(ctx, 1)
	require.NoError(t, err)
	assert.True(t, premium)
}

func TestLedger_DayRollover(t *testing.T) {
	l, clock := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, l.EnsureAccount(ctx, 1, "alice", "Alice", "en"))
	for i := 0; i < DefaultDailyLimit; i++ {
		require.NoError(t, l.RecordUsage(ctx, 1))
	}

	clock.NextDay()
	ok, err := l.CanSend(ctx, 1, DefaultDailyLimit)
	require.NoError(t, err)
	assert.True(t, ok)

	acc, err := l.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, acc.MessagesToday)
	assert.True(t, model.SameDay(clock.Now(), acc.LastMessageDate))
}

func TestLedger_SetSubscriptionKeepsCounters(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	require.NoError(t, l.EnsureAccount(ctx, 1, "alice", "Alice", "en"))
	require.NoError(t, l.RecordUsage(ctx, 1))

	require.NoError(t, l.SetSubscription(ctx, 1, model.TierPremium))
	require.NoError(t, l.SetSubscription(ctx, 1, model.TierFree))

	acc, err := l.Account(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, acc.MessagesToday)
	assert.Equal(t, model.TierFree, acc.Tier)
}

func TestLedger_SetSubscriptionUnknownUser(t *testing.T) {
	l, _ := newTestLedger(t)
	err := l.SetSubscription(context.Background(), 99, model.TierPremium)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLedger_Stats(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, l.EnsureAccount(ctx, id, "", "", "en"))
	}
	require.NoError(t, l.SetSubscription(ctx, 2, model.TierPremium))

	stats, err := l.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Total: 3, Premium: 1}, stats)
}
