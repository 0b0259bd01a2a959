package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ilinovom/voice-hug-bot/internal/model"
)

const (
	redisAccountsKey = "accounts"
	redisPremiumKey  = "accounts:premium"
	redisDateLayout  = "2006-01-02"
)

// RedisAccountRepository keeps one hash per account plus two sets used for
// the admin counters.
type RedisAccountRepository struct {
	client *redis.Client
}

// NewRedisAccountRepository connects using a redis:// URL.
func NewRedisAccountRepository(ctx context.Context, url string) (*RedisAccountRepository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisAccountRepository{client: client}, nil
}

func accountKey(userID int64) string {
	return fmt.Sprintf("account:%d", userID)
}

func (r *RedisAccountRepository) Insert(ctx context.Context, acc *model.Account) (bool, error) {
	key := accountKey(acc.UserID)
	created, err := r.client.HSetNX(ctx, key, "user_id", acc.UserID).Result()
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key,
			"username", acc.Username,
			"first_name", acc.FirstName,
			"language", acc.Language,
			"subscription_level", int(acc.Tier),
			"messages_today", acc.MessagesToday,
			"last_message_date", acc.LastMessageDate.Format(redisDateLayout),
			"join_date", acc.JoinDate.Format(redisDateLayout),
		)
		p.SAdd(ctx, redisAccountsKey, acc.UserID)
		if acc.Tier.IsPremium() {
			p.SAdd(ctx, redisPremiumKey, acc.UserID)
		}
		return nil
	})
	return err == nil, err
}

func (r *RedisAccountRepository) Get(ctx context.Context, userID int64) (*model.Account, error) {
	fields, err := r.client.HGetAll(ctx, accountKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	a := &model.Account{
		UserID:    userID,
		Username:  fields["username"],
		FirstName: fields["first_name"],
		Language:  fields["language"],
	}
	tier, _ := strconv.Atoi(fields["subscription_level"])
	a.Tier = model.Tier(tier)
	a.MessagesToday, _ = strconv.Atoi(fields["messages_today"])
	if d, err := time.Parse(redisDateLayout, fields["last_message_date"]); err == nil {
		a.LastMessageDate = d
	}
	if d, err := time.Parse(redisDateLayout, fields["join_date"]); err == nil {
		a.JoinDate = d
	}
	return a, nil
}

func (r *RedisAccountRepository) ResetDay(ctx context.Context, userID int64, day time.Time) error {
	if err := r.mustExist(ctx, userID); err != nil {
		return err
	}
	return r.client.HSet(ctx, accountKey(userID),
		"messages_today", 0,
		"last_message_date", day.Format(redisDateLayout),
	).Err()
}

func (r *RedisAccountRepository) IncrementUsage(ctx context.Context, userID int64) error {
	if err := r.mustExist(ctx, userID); err != nil {
		return err
	}
	return r.client.HIncrBy(ctx, accountKey(userID), "messages_today", 1).Err()
}

func (r *RedisAccountRepository) SetSubscription(ctx context.Context, userID int64, tier model.Tier) error {
	if err := r.mustExist(ctx, userID); err != nil {
		return err
	}
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, accountKey(userID), "subscription_level", int(tier))
		if tier.IsPremium() {
			p.SAdd(ctx, redisPremiumKey, userID)
		} else {
			p.SRem(ctx, redisPremiumKey, userID)
		}
		return nil
	})
	return err
}

func (r *RedisAccountRepository) Stats(ctx context.Context) (model.Stats, error) {
	total, err := r.client.SCard(ctx, redisAccountsKey).Result()
	if err != nil {
		return model.Stats{}, err
	}
	premium, err := r.client.SCard(ctx, redisPremiumKey).Result()
	if err != nil {
		return model.Stats{}, err
	}
	return model.Stats{Total: int(total), Premium: int(premium)}, nil
}

func (r *RedisAccountRepository) Close() error {
	return r.client.Close()
}

func (r *RedisAccountRepository) mustExist(ctx context.Context, userID int64) error {
	n, err := r.client.Exists(ctx, accountKey(userID)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
