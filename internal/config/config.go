package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration loaded from the environment.
type Config struct {
	TelegramToken string

	OpenAIToken   string
	OpenAIBaseURL string
	OpenAIModel   string
	AppReferer    string
	AppTitle      string

	ElevenLabsAPIKey       string
	ElevenLabsBaseURL      string
	ElevenLabsModel        string
	ElevenLabsOutputFormat string
	FallbackVoiceID        string

	DBConnString string
	AdminIDs     map[int64]bool

	DailyLimit         int
	VoicesPerPage      int
	FreeVoices         int
	MessageCooldown    time.Duration
	MaxConcurrentTurns int

	MetricsAddr  string
	LogLevel     string
	LogFormat    string
	MessagesFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("OPENAI_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("OPENAI_MODEL", "xiaomi/mimo-v2-flash:free")
	v.SetDefault("APP_REFERER", "https://github.com/ilinovom/voice-hug-bot")
	v.SetDefault("APP_TITLE", "Voice Hug Bot")
	v.SetDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io")
	v.SetDefault("ELEVENLABS_MODEL", "eleven_multilingual_v2")
	v.SetDefault("ELEVENLABS_OUTPUT_FORMAT", "mp3_44100_128")
	v.SetDefault("FALLBACK_VOICE_ID", "21m00Tcm4TlvDq8ikWAM")
	v.SetDefault("DATABASE_URL", "sqlite://bot.db")
	v.SetDefault("DAILY_LIMIT", 3)
	v.SetDefault("VOICES_PER_PAGE", 5)
	v.SetDefault("FREE_VOICES", 3)
	v.SetDefault("MESSAGE_COOLDOWN", "0")
	v.SetDefault("MAX_CONCURRENT_TURNS", 16)
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// FromEnv loads configuration from environment variables, reading a .env file
// first when one exists. TELEGRAM_TOKEN, OPENROUTER_API_KEY (or OPENAI_TOKEN)
// and ELEVENLABS_API_KEY are required. DATABASE_URL selects the storage
// backend and defaults to a local SQLite file.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	c := &Config{
		TelegramToken:          v.GetString("TELEGRAM_TOKEN"),
		OpenAIToken:            v.GetString("OPENROUTER_API_KEY"),
		OpenAIBaseURL:          v.GetString("OPENAI_BASE_URL"),
		OpenAIModel:            v.GetString("OPENAI_MODEL"),
		AppReferer:             v.GetString("APP_REFERER"),
		AppTitle:               v.GetString("APP_TITLE"),
		ElevenLabsAPIKey:       v.GetString("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL:      v.GetString("ELEVENLABS_BASE_URL"),
		ElevenLabsModel:        v.GetString("ELEVENLABS_MODEL"),
		ElevenLabsOutputFormat: v.GetString("ELEVENLABS_OUTPUT_FORMAT"),
		FallbackVoiceID:        v.GetString("FALLBACK_VOICE_ID"),
		DBConnString:           v.GetString("DATABASE_URL"),
		DailyLimit:             v.GetInt("DAILY_LIMIT"),
		VoicesPerPage:          v.GetInt("VOICES_PER_PAGE"),
		FreeVoices:             v.GetInt("FREE_VOICES"),
		MaxConcurrentTurns:     v.GetInt("MAX_CONCURRENT_TURNS"),
		MetricsAddr:            v.GetString("METRICS_ADDR"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		LogFormat:              v.GetString("LOG_FORMAT"),
		MessagesFile:           v.GetString("MESSAGES_FILE"),
	}
	if c.OpenAIToken == "" {
		c.OpenAIToken = v.GetString("OPENAI_TOKEN")
	}

	if c.TelegramToken == "" {
		return nil, errors.New("TELEGRAM_TOKEN is not set")
	}
	if c.OpenAIToken == "" {
		return nil, errors.New("OPENROUTER_API_KEY is not set")
	}
	if c.ElevenLabsAPIKey == "" {
		return nil, errors.New("ELEVENLABS_API_KEY is not set")
	}

	ids, err := parseAdminIDs(v.GetString("ADMIN_IDS"))
	if err != nil {
		return nil, err
	}
	c.AdminIDs = ids

	cooldown, err := parseDuration(v.GetString("MESSAGE_COOLDOWN"))
	if err != nil {
		return nil, fmt.Errorf("MESSAGE_COOLDOWN: %w", err)
	}
	c.MessageCooldown = cooldown

	if c.DailyLimit <= 0 {
		return nil, errors.New("DAILY_LIMIT must be positive")
	}
	if c.VoicesPerPage <= 0 {
		return nil, errors.New("VOICES_PER_PAGE must be positive")
	}
	if c.FreeVoices < 0 {
		return nil, errors.New("FREE_VOICES must not be negative")
	}
	if c.MaxConcurrentTurns <= 0 {
		c.MaxConcurrentTurns = 1
	}
	return c, nil
}

// IsAdmin reports whether the user id is on the admin allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	return c.AdminIDs[userID]
}

// parseAdminIDs reads a comma or space separated list of Telegram user ids.
func parseAdminIDs(s string) (map[int64]bool, error) {
	ids := map[int64]bool{}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	for _, f := range fields {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS: invalid id %q", f)
		}
		ids[id] = true
	}
	return ids, nil
}

// parseDuration accepts Go durations ("30s") and plain seconds ("30").
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}
