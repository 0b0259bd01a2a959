package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ilinovom/voice-hug-bot/internal/model"
)

// SQLAccountRepository stores accounts in Postgres (pgx) or SQLite. Queries are
// written so both dialects accept them: numbered placeholders in order of
// appearance and ON CONFLICT DO NOTHING.
type SQLAccountRepository struct {
	db *sql.DB
}

// NewPostgresAccountRepository opens a pgx-backed repository.
func NewPostgresAccountRepository(connStr string) (*SQLAccountRepository, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	return newSQLAccountRepository(db)
}

// NewSQLiteAccountRepository opens a SQLite-backed repository. The pool is
// limited to a single connection so ":memory:" databases are shared and writes
// are serialized.
func NewSQLiteAccountRepository(path string) (*SQLAccountRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return newSQLAccountRepository(db)
}

func newSQLAccountRepository(db *sql.DB) (*SQLAccountRepository, error) {
	r := &SQLAccountRepository{db: db}
	if err := r.init(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLAccountRepository) init() error {
	_, err := r.db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            user_id BIGINT PRIMARY KEY,
            username TEXT,
            first_name TEXT,
            language TEXT DEFAULT 'en',
            subscription_level INTEGER DEFAULT 0,
            messages_today INTEGER DEFAULT 0,
            last_message_date DATE,
            join_date DATE
        )`)
	return err
}

func (r *SQLAccountRepository) Insert(ctx context.Context, acc *model.Account) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO users (user_id, username, first_name, language, subscription_level, messages_today, last_message_date, join_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (user_id) DO NOTHING
    `, acc.UserID, acc.Username, acc.FirstName, acc.Language, int(acc.Tier), acc.MessagesToday, model.Day(acc.LastMessageDate), model.Day(acc.JoinDate))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *SQLAccountRepository) Get(ctx context.Context, userID int64) (*model.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, username, first_name, language, subscription_level, messages_today, last_message_date, join_date FROM users WHERE user_id=$1`, userID)
	var (
		a                   model.Account
		username, firstName sql.NullString
		language            sql.NullString
		tier                int
		lastDate, joinDate  sql.NullTime
	)
	if err := row.Scan(&a.UserID, &username, &firstName, &language, &tier, &a.MessagesToday, &lastDate, &joinDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a.Username = username.String
	a.FirstName = firstName.String
	a.Language = language.String
	a.Tier = model.Tier(tier)
	if lastDate.Valid {
		a.LastMessageDate = model.Day(lastDate.Time)
	}
	if joinDate.Valid {
		a.JoinDate = model.Day(joinDate.Time)
	}
	return &a, nil
}

func (r *SQLAccountRepository) ResetDay(ctx context.Context, userID int64, day time.Time) error {
	return r.exec(ctx, `UPDATE users SET messages_today = 0, last_message_date = $1 WHERE user_id = $2`, model.Day(day), userID)
}

func (r *SQLAccountRepository) IncrementUsage(ctx context.Context, userID int64) error {
	return r.exec(ctx, `UPDATE users SET messages_today = messages_today + 1 WHERE user_id = $1`, userID)
}

func (r *SQLAccountRepository) SetSubscription(ctx context.Context, userID int64, tier model.Tier) error {
	return r.exec(ctx, `UPDATE users SET subscription_level = $1 WHERE user_id = $2`, int(tier), userID)
}

func (r *SQLAccountRepository) Stats(ctx context.Context) (model.Stats, error) {
	var total, premium int64
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(CASE WHEN subscription_level > 0 THEN 1 ELSE 0 END), 0) FROM users`)
	if err := row.Scan(&total, &premium); err != nil {
		return model.Stats{}, fmt.Errorf("count users: %w", err)
	}
	return model.Stats{Total: int(total), Premium: int(premium)}, nil
}

func (r *SQLAccountRepository) Close() error {
	return r.db.Close()
}

// exec runs an UPDATE and maps "no rows touched" to ErrNotFound.
func (r *SQLAccountRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
