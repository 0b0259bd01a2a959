package cmdHandlers

import (
	"context"

	"github.com/ilinovom/voice-hug-bot/internal/i18n"
	"github.com/ilinovom/voice-hug-bot/pkg/telegram"
)

// handleStartCommand registers the user and opens the language menu. While the
// voice catalog is empty only the loading notice is shown.
func (c *CmdHandler) handleStartCommand(ctx context.Context, m *telegram.Message) {
	u := m.From
	c.log.Info().Int64("user_id", u.ID).Str("username", u.Username).Msg("/start")

	if err := c.orch.Ledger().EnsureAccount(ctx, u.ID, u.Username, u.FirstName, i18n.Match(u.LanguageCode)); err != nil {
		c.log.Error().Err(err).Int64("user_id", u.ID).Msg("ensure account")
		c.sendMessage(ctx, m.Chat.ID, c.texts(u).ErrorProcessing, nil)
		return
	}
	t := c.texts(u)
	if !c.orch.Catalog().Ready() {
		c.sendMessage(ctx, m.Chat.ID, t.Loading, nil)
		return
	}
	c.sendMessage(ctx, m.Chat.ID, t.ChooseLanguage, languageKeyboard())
}
