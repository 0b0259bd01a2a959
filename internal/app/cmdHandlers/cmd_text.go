package cmdHandlers

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/ilinovom/voice-hug-bot/internal/service"
	"github.com/ilinovom/voice-hug-bot/pkg/telegram"
)

// handleTextMessage turns a free-text message into a voice reply.
func (c *CmdHandler) handleTextMessage(ctx context.Context, m *telegram.Message, text string) {
	u := m.From
	t := c.texts(u)

	if wait := c.cooldown.Wait(u.ID); wait > 0 {
		c.sendMessage(ctx, m.Chat.ID, fmt.Sprintf(t.WaitMsg, int(math.Ceil(wait.Seconds()))), nil)
		return
	}

	if err := c.tgClient.SendChatAction(ctx, m.Chat.ID, telegram.ActionRecordVoice); err != nil {
		c.log.Debug().Err(err).Msg("chat action")
	}

	reply, err := c.orch.Converse(ctx, u.ID, text, u.LanguageCode)
	switch {
	case errors.Is(err, service.ErrQuotaExceeded):
		c.sendMessage(ctx, m.Chat.ID, fmt.Sprintf(t.LimitReached, c.orch.DailyLimit()), nil)
		return
	case err != nil:
		c.sendMessage(ctx, m.Chat.ID, t.ErrorProcessing, nil)
		return
	}

	if err := c.tgClient.SendVoice(ctx, m.Chat.ID, reply.Audio, "hug.mp3", reply.Caption); err != nil {
		c.log.Error().Err(err).Int64("user_id", u.ID).Msg("send voice")
		c.sendMessage(ctx, m.Chat.ID, t.ErrorProcessing, nil)
	}
}
