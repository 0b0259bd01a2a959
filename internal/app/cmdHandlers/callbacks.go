package cmdHandlers

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/ilinovom/voice-hug-bot/internal/service"
	"github.com/ilinovom/voice-hug-bot/pkg/telegram"
)

// HandleCallback reacts to inline button presses. Every query is answered so
// the client stops its spinner.
func (c *CmdHandler) HandleCallback(ctx context.Context, q *telegram.CallbackQuery) {
	log := c.log.With().Int64("user_id", q.From.ID).Str("data", q.Data).Logger()
	action, err := ParseAction(q.Data)
	if err != nil {
		log.Warn().Err(err).Msg("callback")
		c.answer(ctx, q, "", false)
		return
	}

	switch action.Kind {
	case service.ActionLanguage:
		c.handleLanguageAction(ctx, q, action.Lang)
	case service.ActionPage:
		c.handlePageAction(ctx, q, action.Page)
	case service.ActionSelect:
		c.handleSelectAction(ctx, q, action.VoiceID)
	case service.ActionPreview:
		c.handlePreviewAction(ctx, q, action.VoiceID)
	default:
		c.answer(ctx, q, "", false)
	}
}

func (c *CmdHandler) answer(ctx context.Context, q *telegram.CallbackQuery, text string, alert bool) {
	if err := c.tgClient.AnswerCallbackQuery(ctx, q.ID, text, alert); err != nil {
		c.log.Warn().Err(err).Str("query_id", q.ID).Msg("answer callback")
	}
}

func (c *CmdHandler) voiceMenu(ctx context.Context, userID int64, page int) *telegram.InlineKeyboardMarkup {
	premium, err := c.orch.Ledger().IsPremium(ctx, userID)
	if err != nil {
		c.log.Error().Err(err).Int64("user_id", userID).Msg("read tier")
	}
	return voiceKeyboard(c.orch.Catalog().Menu(page, premium))
}

func (c *CmdHandler) editText(ctx context.Context, q *telegram.CallbackQuery, text string, kb *telegram.InlineKeyboardMarkup) {
	if q.Message == nil {
		c.sendMessage(ctx, q.From.ID, text, kb)
		return
	}
	err := c.tgClient.EditMessageText(ctx, q.Message.Chat.ID, q.Message.MessageID, text, kb)
	if err != nil && !telegram.IsNotModified(err) {
		c.log.Error().Err(err).Int64("chat_id", q.Message.Chat.ID).Msg("telegram edit message")
	}
}

func (c *CmdHandler) handleLanguageAction(ctx context.Context, q *telegram.CallbackQuery, lang string) {
	c.answer(ctx, q, "", false)
	lang = c.orch.SelectLanguage(q.From.ID, lang)
	t := c.orch.Texts().For(lang)
	if !c.orch.Catalog().Ready() {
		c.editText(ctx, q, t.Loading, nil)
		return
	}
	c.editText(ctx, q, t.ChooseVoice, c.voiceMenu(ctx, q.From.ID, 0))
}

func (c *CmdHandler) handlePageAction(ctx context.Context, q *telegram.CallbackQuery, page int) {
	if !c.orch.Catalog().Ready() {
		c.answer(ctx, q, c.texts(&q.From).Loading, false)
		return
	}
	c.answer(ctx, q, "", false)
	if q.Message == nil {
		return
	}
	err := c.tgClient.EditMessageReplyMarkup(ctx, q.Message.Chat.ID, q.Message.MessageID, c.voiceMenu(ctx, q.From.ID, page))
	if err != nil && !telegram.IsNotModified(err) {
		c.log.Error().Err(err).Int64("chat_id", q.Message.Chat.ID).Msg("telegram edit markup")
	}
}

func (c *CmdHandler) handleSelectAction(ctx context.Context, q *telegram.CallbackQuery, voiceID string) {
	t := c.texts(&q.From)
	v, err := c.orch.SelectVoice(ctx, q.From.ID, voiceID)
	switch {
	case errors.Is(err, service.ErrUnauthorizedVoice):
		c.answer(ctx, q, t.PremiumLocked, true)
		return
	case errors.Is(err, service.ErrUnknownVoice):
		c.answer(ctx, q, t.UnknownVoice, true)
		return
	case errors.Is(err, service.ErrCatalogUnavailable):
		c.answer(ctx, q, t.Loading, false)
		return
	case err != nil:
		c.log.Error().Err(err).Int64("user_id", q.From.ID).Msg("select voice")
		c.answer(ctx, q, t.ErrorProcessing, true)
		return
	}
	c.answer(ctx, q, "", false)
	c.log.Info().Int64("user_id", q.From.ID).Str("voice_id", v.ID).Msg("voice selected")
	c.editText(ctx, q, fmt.Sprintf(t.VoiceSet, html.EscapeString(v.Name)), nil)
}

// handlePreviewAction plays the provider's sample of a voice. Previews are
// available for every voice regardless of tier.
func (c *CmdHandler) handlePreviewAction(ctx context.Context, q *telegram.CallbackQuery, voiceID string) {
	t := c.texts(&q.From)
	chatID := q.From.ID
	if q.Message != nil {
		chatID = q.Message.Chat.ID
	}
	v, ok := c.orch.Catalog().Lookup(voiceID)
	if !ok {
		c.answer(ctx, q, t.UnknownVoice, false)
		return
	}
	c.answer(ctx, q, t.PreviewSent, false)
	if v.PreviewURL == "" {
		c.sendMessage(ctx, chatID, t.NoPreview, nil)
		return
	}
	caption := fmt.Sprintf(t.PreviewCaption, html.EscapeString(v.Name))
	if err := c.tgClient.SendAudioURL(ctx, chatID, v.PreviewURL, caption); err != nil {
		c.log.Error().Err(err).Str("voice_id", v.ID).Msg("send preview")
		c.sendMessage(ctx, chatID, t.NoPreview, nil)
	}
}
