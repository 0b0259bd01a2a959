package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilinovom/voice-hug-bot/internal/model"
)

func newAccount(id int64, day time.Time) *model.Account {
	return &model.Account{
		UserID:          id,
		Username:        "user",
		FirstName:       "First",
		Language:        "en",
		LastMessageDate: model.Day(day),
		JoinDate:        model.Day(day),
	}
}

// testAccountRepository runs the behaviour every backend has to share.
func testAccountRepository(t *testing.T, repo AccountRepository) {
	t.Helper()
	ctx := context.Background()
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	created, err := repo.Insert(ctx, newAccount(1, day))
	require.NoError(t, err)
	assert.True(t, created)

	again := newAccount(1, day.AddDate(0, 0, 1))
	again.Username = "changed"
	created, err = repo.Insert(ctx, again)
	require.NoError(t, err)
	assert.False(t, created, "second insert must be a no-op")

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "user", got.Username)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, model.TierFree, got.Tier)
	assert.Equal(t, 0, got.MessagesToday)
	assert.True(t, model.SameDay(day, got.LastMessageDate))
	assert.True(t, model.SameDay(day, got.JoinDate))

	require.NoError(t, repo.IncrementUsage(ctx, 1))
	require.NoError(t, repo.IncrementUsage(ctx, 1))
	got, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MessagesToday)

	next := day.AddDate(0, 0, 1)
	require.NoError(t, repo.ResetDay(ctx, 1, next))
	got, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MessagesToday)
	assert.True(t, model.SameDay(next, got.LastMessageDate))

	_, err = repo.Insert(ctx, newAccount(2, day))
	require.NoError(t, err)
	require.NoError(t, repo.SetSubscription(ctx, 2, model.TierPremium))
	got, err = repo.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, model.TierPremium, got.Tier)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Total: 2, Premium: 1}, stats)

	require.NoError(t, repo.SetSubscription(ctx, 2, model.TierFree))
	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Premium)

	_, err = repo.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SetSubscription(ctx, 42, model.TierPremium), ErrNotFound)
	assert.ErrorIs(t, repo.IncrementUsage(ctx, 42), ErrNotFound)
}

func TestFileAccountRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	repo, err := NewFileAccountRepository(path)
	require.NoError(t, err)
	testAccountRepository(t, repo)

	reopened, err := NewFileAccountRepository(path)
	require.NoError(t, err)
	got, err := reopened.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "user", got.Username)
}

func TestSQLiteAccountRepository(t *testing.T) {
	repo, err := NewSQLiteAccountRepository(":memory:")
	require.NoError(t, err)
	defer repo.Close()
	testAccountRepository(t, repo)
}

func TestRedisAccountRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	repo, err := NewRedisAccountRepository(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer repo.Close()
	testAccountRepository(t, repo)
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "mysql://localhost/db")
	assert.Error(t, err)
}

func TestOpenSQLite(t *testing.T) {
	repo, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	defer repo.Close()
	_, ok := repo.(*SQLAccountRepository)
	assert.True(t, ok)
}
