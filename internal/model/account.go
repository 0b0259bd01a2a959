package model

import "time"

// Tier is the subscription level stored in the subscription_level column.
type Tier int

const (
	TierFree    Tier = 0
	TierPremium Tier = 1
)

// IsPremium reports whether the tier unlocks unlimited messages and all voices.
func (t Tier) IsPremium() bool {
	return t >= TierPremium
}

func (t Tier) String() string {
	if t.IsPremium() {
		return "premium"
	}
	return "free"
}

// Account is the persisted per-user record used for quota accounting.
type Account struct {
	UserID          int64     `json:"user_id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	Language        string    `json:"language"`
	Tier            Tier      `json:"subscription_level"`
	MessagesToday   int       `json:"messages_today"`
	LastMessageDate time.Time `json:"last_message_date"`
	JoinDate        time.Time `json:"join_date"`
}

// Stats holds aggregate account counts for the admin panel.
type Stats struct {
	Total   int
	Premium int
}

// Day truncates t to its calendar date in t's location and returns it as a
// UTC midnight value so it round-trips through DATE columns unchanged.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay compares calendar dates only.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
