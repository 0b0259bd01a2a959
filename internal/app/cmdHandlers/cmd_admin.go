package cmdHandlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/ilinovom/voice-hug-bot/internal/metrics"
	"github.com/ilinovom/voice-hug-bot/internal/model"
	"github.com/ilinovom/voice-hug-bot/internal/repository"
	"github.com/ilinovom/voice-hug-bot/pkg/telegram"
)

const (
	adminPanelText = "🕵️ <b>Admin Panel</b>\n\n" +
		"👥 Total Users: %d\n" +
		"💎 Premium Users: %d\n\n" +
		"Commands:\n" +
		"<code>/add_premium &lt;user_id&gt;</code> - Give premium\n" +
		"<code>/remove_premium &lt;user_id&gt;</code> - Remove premium"
	premiumAddedText   = "✅ Premium granted to user %d"
	premiumRemovedText = "❌ Premium removed from user %d"
	notifyFailedText   = "⚠️ User updated in DB, but could not send notification."
	userNotFoundText   = "User %d not found. They have to /start the bot first."
	adminErrorText     = "Error: %v"
)

// isAdmin checks the allow-list. Other users get no answer at all.
func (c *CmdHandler) isAdmin(m *telegram.Message) bool {
	return c.cfg != nil && c.cfg.IsAdmin(m.From.ID)
}

func (c *CmdHandler) handleAdminCommand(ctx context.Context, m *telegram.Message) {
	if !c.isAdmin(m) {
		return
	}
	stats, err := c.orch.Ledger().Stats(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("admin stats")
		c.sendMessage(ctx, m.Chat.ID, fmt.Sprintf(adminErrorText, err), nil)
		return
	}
	metrics.RecordAdminAction("stats")
	c.sendMessage(ctx, m.Chat.ID, fmt.Sprintf(adminPanelText, stats.Total, stats.Premium), nil)
}

// handleSetPremiumCommand grants or revokes premium. A granted user is
// notified; if that fails only the admin hears about it.
func (c *CmdHandler) handleSetPremiumCommand(ctx context.Context, m *telegram.Message, args []string, grant bool) {
	if !c.isAdmin(m) {
		return
	}
	cmd, tier, action := RemovePremiumCmd, model.TierFree, "remove_premium"
	if grant {
		cmd, tier, action = AddPremiumCmd, model.TierPremium, "add_premium"
	}

	var target int64
	var err error
	if len(args) > 0 {
		target, err = strconv.ParseInt(args[0], 10, 64)
	}
	if len(args) == 0 || err != nil {
		c.sendMessage(ctx, m.Chat.ID, "Usage: "+cmd+" &lt;user_id&gt;", nil)
		return
	}

	if err := c.orch.Ledger().SetSubscription(ctx, target, tier); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.sendMessage(ctx, m.Chat.ID, fmt.Sprintf(userNotFoundText, target), nil)
			return
		}
		c.log.Error().Err(err).Int64("target_id", target).Msg(action)
		c.sendMessage(ctx, m.Chat.ID, fmt.Sprintf(adminErrorText, err), nil)
		return
	}
	metrics.RecordAdminAction(action)
	c.log.Info().Int64("admin_id", m.From.ID).Int64("target_id", target).Str("tier", tier.String()).Msg("subscription changed")

	if !grant {
		c.sendMessage(ctx, m.Chat.ID, fmt.Sprintf(premiumRemovedText, target), nil)
		return
	}
	c.sendMessage(ctx, m.Chat.ID, fmt.Sprintf(premiumAddedText, target), nil)

	lang := ""
	if acc, err := c.orch.Ledger().Account(ctx, target); err == nil {
		lang = acc.Language
	}
	notice := c.orch.Texts().For(c.orch.Language(target, lang)).PremiumGranted
	if err := c.tgClient.SendMessage(ctx, target, notice, nil); err != nil {
		c.log.Warn().Err(err).Int64("target_id", target).Msg("premium notification")
		c.sendMessage(ctx, m.Chat.ID, notifyFailedText, nil)
	}
}
