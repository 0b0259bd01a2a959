package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ilinovom/voice-hug-bot/internal/i18n"
	"github.com/ilinovom/voice-hug-bot/internal/metrics"
	"github.com/ilinovom/voice-hug-bot/internal/model"
)

// DefaultFallbackVoiceID is used when neither the session nor the catalog
// provides a voice.
const DefaultFallbackVoiceID = "21m00Tcm4TlvDq8ikWAM"

// AIClient describes the part of the language model client used by the orchestrator.
type AIClient interface {
	ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SpeechSynthesizer turns text into an audio stream.
type SpeechSynthesizer interface {
	TextToSpeech(ctx context.Context, text, voiceID string) (io.ReadCloser, error)
}

// OrchestratorConfig holds the tunables of a conversation turn.
type OrchestratorConfig struct {
	DailyLimit      int
	FallbackVoiceID string
}

// Reply is the result of a successful turn.
type Reply struct {
	Audio   []byte
	Caption string
	Text    string
	VoiceID string
}

// Orchestrator runs a conversation turn: quota check, text generation, speech
// synthesis and usage accounting. It also owns the in-memory sessions.
type Orchestrator struct {
	ledger   *UsageLedger
	catalog  *VoiceCatalog
	sessions *SessionStore
	ai       AIClient
	tts      SpeechSynthesizer
	texts    *i18n.Bundle
	cfg      OrchestratorConfig
	log      zerolog.Logger
}

func NewOrchestrator(ledger *UsageLedger, catalog *VoiceCatalog, ai AIClient, tts SpeechSynthesizer, texts *i18n.Bundle, cfg OrchestratorConfig, log zerolog.Logger) *Orchestrator {
	if cfg.DailyLimit <= 0 {
		cfg.DailyLimit = DefaultDailyLimit
	}
	if cfg.FallbackVoiceID == "" {
		cfg.FallbackVoiceID = DefaultFallbackVoiceID
	}
	if texts == nil {
		texts = i18n.NewBundle()
	}
	return &Orchestrator{
		ledger:   ledger,
		catalog:  catalog,
		sessions: NewSessionStore(),
		ai:       ai,
		tts:      tts,
		texts:    texts,
		cfg:      cfg,
		log:      log,
	}
}

func (o *Orchestrator) Ledger() *UsageLedger   { return o.ledger }
func (o *Orchestrator) Catalog() *VoiceCatalog { return o.catalog }
func (o *Orchestrator) Texts() *i18n.Bundle    { return o.texts }
func (o *Orchestrator) DailyLimit() int        { return o.cfg.DailyLimit }

// Language resolves the locale for a user: the one picked in the menu, else
// the client hint, else the default.
func (o *Orchestrator) Language(userID int64, hint string) string {
	if sess, ok := o.sessions.Get(userID); ok && sess.Language != "" {
		return sess.Language
	}
	return i18n.Match(hint)
}

// SelectLanguage stores the chosen locale; unsupported values fall back to the default.
func (o *Orchestrator) SelectLanguage(userID int64, lang string) string {
	if !i18n.Supported(lang) {
		lang = i18n.Default
	}
	o.sessions.SetLanguage(userID, lang)
	return lang
}

// SelectVoice checks that the user may use the voice and stores it in the
// session. The tier is read from the ledger at call time.
func (o *Orchestrator) SelectVoice(ctx context.Context, userID int64, voiceID string) (model.VoiceOption, error) {
	if !o.catalog.Ready() {
		return model.VoiceOption{}, ErrCatalogUnavailable
	}
	v, ok := o.catalog.Lookup(voiceID)
	if !ok {
		return model.VoiceOption{}, ErrUnknownVoice
	}
	if !o.catalog.IsFreeEligible(v) {
		premium, err := o.ledger.IsPremium(ctx, userID)
		if err != nil {
			return model.VoiceOption{}, fmt.Errorf("read tier: %w", err)
		}
		if !premium {
			return model.VoiceOption{}, ErrUnauthorizedVoice
		}
	}
	o.sessions.SetVoice(userID, v.ID)
	return v, nil
}

// Converse runs a turn with the language and voice from the user's session.
func (o *Orchestrator) Converse(ctx context.Context, userID int64, text, localeHint string) (*Reply, error) {
	lang := o.Language(userID, localeHint)
	sess, _ := o.sessions.Get(userID)
	return o.HandleUserMessage(ctx, userID, text, lang, sess.VoiceID)
}

// HandleUserMessage runs one conversation turn. Usage is recorded only when
// audio was produced.
func (o *Orchestrator) HandleUserMessage(ctx context.Context, userID int64, text, lang, selectedVoiceID string) (*Reply, error) {
	log := o.log.With().Int64("user_id", userID).Str("turn_id", uuid.NewString()).Logger()

	allowed, err := o.ledger.CanSend(ctx, userID, o.cfg.DailyLimit)
	if err != nil {
		metrics.RecordTurn(metrics.OutcomeLedgerError)
		log.Error().Err(err).Msg("quota check failed")
		return nil, fmt.Errorf("check quota: %w", err)
	}
	if !allowed {
		metrics.RecordTurn(metrics.OutcomeQuotaExceeded)
		log.Info().Msg("daily limit reached")
		return nil, ErrQuotaExceeded
	}
	premium, err := o.ledger.IsPremium(ctx, userID)
	if err != nil {
		metrics.RecordTurn(metrics.OutcomeLedgerError)
		log.Error().Err(err).Msg("read tier failed")
		return nil, fmt.Errorf("read tier: %w", err)
	}

	voiceID := o.resolveVoice(selectedVoiceID)
	texts := o.texts.For(lang)

	reply, err := o.generate(ctx, texts.SystemPrompt, fmt.Sprintf(texts.UserPrompt, text))
	if err != nil {
		metrics.RecordTurn(metrics.OutcomeGenerateError)
		log.Error().Err(err).Msg("generate stage failed")
		return nil, err
	}
	if !premium {
		reply += "\n\n" + texts.UpsellPhrase
	}

	audio, err := o.synthesize(ctx, reply, voiceID)
	if err != nil {
		metrics.RecordTurn(metrics.OutcomeSynthError)
		log.Error().Err(err).Str("voice_id", voiceID).Msg("synthesize stage failed")
		return nil, err
	}

	if err := o.ledger.RecordUsage(ctx, userID); err != nil {
		log.Error().Err(err).Msg("record usage failed")
	}
	metrics.RecordTurn(metrics.OutcomeDelivered)
	log.Info().Str("voice_id", voiceID).Bool("premium", premium).Int("audio_bytes", len(audio)).Msg("turn delivered")

	return &Reply{
		Audio:   audio,
		Caption: texts.VoiceCaption,
		Text:    reply,
		VoiceID: voiceID,
	}, nil
}

func (o *Orchestrator) resolveVoice(selected string) string {
	if selected != "" {
		return selected
	}
	if v, ok := o.catalog.First(); ok {
		return v.ID
	}
	return o.cfg.FallbackVoiceID
}

// generate is the first pipeline stage.
func (o *Orchestrator) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	defer func() { metrics.ObserveStage("generate", time.Since(start).Seconds()) }()

	text, err := o.ai.ChatCompletion(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstreamGeneration, err)
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUpstreamGeneration)
	}
	return text, nil
}

// synthesize is the second pipeline stage. The provider streams audio; chunks
// are joined in order because Telegram needs the whole file up front.
func (o *Orchestrator) synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	start := time.Now()
	defer func() { metrics.ObserveStage("synthesize", time.Since(start).Seconds()) }()

	stream, err := o.tts.TextToSpeech(ctx, text, voiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamSynthesis, err)
	}
	defer stream.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, stream); err != nil {
		return nil, fmt.Errorf("%w: read audio: %w", ErrUpstreamSynthesis, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamSynthesis, errors.New("empty audio"))
	}
	return buf.Bytes(), nil
}
