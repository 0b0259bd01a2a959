package cmdHandlers

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ilinovom/voice-hug-bot/internal/config"
	"github.com/ilinovom/voice-hug-bot/internal/i18n"
	"github.com/ilinovom/voice-hug-bot/internal/service"
	"github.com/ilinovom/voice-hug-bot/pkg/telegram"
)

const (
	StartCmd         = "/start"
	AdminCmd         = "/admin"
	AddPremiumCmd    = "/add_premium"
	RemovePremiumCmd = "/remove_premium"
)

// Messenger is the part of the Telegram client used by the handlers.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) error
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, markup *telegram.InlineKeyboardMarkup) error
	EditMessageReplyMarkup(ctx context.Context, chatID int64, messageID int, markup *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, queryID, text string, alert bool) error
	SendVoice(ctx context.Context, chatID int64, audio []byte, filename, caption string) error
	SendAudioURL(ctx context.Context, chatID int64, audioURL, caption string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
	SetCommands(ctx context.Context, commands []telegram.BotCommand) error
}

type CmdHandler struct {
	cfg      *config.Config
	tgClient Messenger
	orch     *service.Orchestrator
	cooldown *service.Cooldown
	log      zerolog.Logger
}

func NewCmdHandler(cfg *config.Config, orch *service.Orchestrator, cooldown *service.Cooldown, tgClient Messenger, log zerolog.Logger) *CmdHandler {
	return &CmdHandler{
		cfg:      cfg,
		tgClient: tgClient,
		orch:     orch,
		cooldown: cooldown,
		log:      log,
	}
}

// HandleUpdate dispatches one update. It is safe to call from several
// goroutines.
func (c *CmdHandler) HandleUpdate(ctx context.Context, u telegram.Update) {
	switch {
	case u.CallbackQuery != nil:
		c.HandleCallback(ctx, u.CallbackQuery)
	case u.Message != nil:
		c.HandleMessages(ctx, u.Message)
	}
}

func (c *CmdHandler) HandleMessages(ctx context.Context, m *telegram.Message) {
	if m.From == nil {
		return
	}
	text := strings.TrimSpace(m.Text)
	if text == "" {
		return
	}
	cmd, args := splitCommand(text)
	switch cmd {
	case StartCmd:
		c.handleStartCommand(ctx, m)
	case AdminCmd:
		c.handleAdminCommand(ctx, m)
	case AddPremiumCmd:
		c.handleSetPremiumCommand(ctx, m, args, true)
	case RemovePremiumCmd:
		c.handleSetPremiumCommand(ctx, m, args, false)
	case "":
		c.handleTextMessage(ctx, m, text)
	default:
		// unknown commands are ignored
	}
}

// texts returns the strings for the user's current language.
func (c *CmdHandler) texts(u *telegram.User) i18n.Texts {
	return c.orch.Texts().For(c.orch.Language(u.ID, u.LanguageCode))
}

// sendMessage is a small wrapper around the Telegram client that logs failures.
func (c *CmdHandler) sendMessage(ctx context.Context, chatID int64, text string, kb *telegram.InlineKeyboardMarkup) error {
	err := c.tgClient.SendMessage(ctx, chatID, text, kb)
	if err != nil {
		c.log.Error().Err(err).Int64("chat_id", chatID).Msg("telegram send message")
	}
	return err
}

// SetCommands registers the list of bot commands with Telegram so that users
// see available commands in the UI.
func (c *CmdHandler) SetCommands(ctx context.Context) {
	cmds := []telegram.BotCommand{
		{Command: strings.TrimPrefix(StartCmd, "/"), Description: "Choose language and voice"},
	}
	if err := c.tgClient.SetCommands(ctx, cmds); err != nil {
		c.log.Warn().Err(err).Msg("set commands")
	}
}

// splitCommand returns the command without a @botname suffix and its
// arguments. Plain text yields an empty command.
func splitCommand(text string) (string, []string) {
	if !strings.HasPrefix(text, "/") {
		return "", nil
	}
	fields := strings.Fields(text)
	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), fields[1:]
}
