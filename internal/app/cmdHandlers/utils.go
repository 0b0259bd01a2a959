package cmdHandlers

import (
	"github.com/ilinovom/voice-hug-bot/internal/i18n"
	"github.com/ilinovom/voice-hug-bot/internal/service"
	"github.com/ilinovom/voice-hug-bot/pkg/telegram"
)

const lockIcon = "💎 "

// languageKeyboard offers the supported locales.
func languageKeyboard() *telegram.InlineKeyboardMarkup {
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: [][]telegram.InlineKeyboardButton{{
		{Text: "🇺🇸 English", CallbackData: EncodeAction(service.Action{Kind: service.ActionLanguage, Lang: i18n.English})},
		{Text: "🇷🇺 Русский", CallbackData: EncodeAction(service.Action{Kind: service.ActionLanguage, Lang: i18n.Russian})},
	}}}
}

// voiceKeyboard renders a menu page: one row per voice with a select and a
// preview button, then the navigation row.
func voiceKeyboard(menu service.VoiceMenu) *telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(menu.Rows)+1)
	for _, r := range menu.Rows {
		label := r.Voice.Name
		if r.Locked {
			label = lockIcon + label
		}
		rows = append(rows, []telegram.InlineKeyboardButton{
			{Text: label, CallbackData: EncodeAction(r.Select)},
			{Text: "📢", CallbackData: EncodeAction(r.Preview)},
		})
	}
	if len(menu.Nav) > 0 {
		nav := make([]telegram.InlineKeyboardButton, 0, len(menu.Nav))
		for _, n := range menu.Nav {
			nav = append(nav, telegram.InlineKeyboardButton{Text: n.Label, CallbackData: EncodeAction(n.Action)})
		}
		rows = append(rows, nav)
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}
