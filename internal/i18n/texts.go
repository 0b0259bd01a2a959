// Package i18n holds the localized strings of the bot. Every lookup is total:
// unknown locales fall back to English.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
)

const (
	English = "en"
	Russian = "ru"

	Default = English
)

// Texts is the set of user-facing strings for one locale. Strings use
// Telegram HTML formatting.
type Texts struct {
	Loading         string `json:"loading"`
	ChooseLanguage  string `json:"choose_language"`
	ChooseVoice     string `json:"choose_voice"`
	VoiceSet        string `json:"voice_set"`
	PreviewSent     string `json:"preview_sent"`
	PreviewCaption  string `json:"preview_caption"`
	NoPreview       string `json:"no_preview"`
	UnknownVoice    string `json:"unknown_voice"`
	WaitMsg         string `json:"wait_msg"`
	ErrorProcessing string `json:"error_processing"`
	VoiceCaption    string `json:"voice_caption"`
	LimitReached    string `json:"limit_reached"`
	PremiumLocked   string `json:"premium_locked"`
	PremiumGranted  string `json:"premium_granted"`
	UpsellPhrase    string `json:"upsell_phrase"`
	SystemPrompt    string `json:"system_prompt"`
	// UserPrompt is a format string with a single %s for the user's message.
	UserPrompt string `json:"user_prompt"`
}

var defaults = map[string]Texts{
	English: {
		Loading:         "⏳ Still loading voices... Please try again in a few seconds.",
		ChooseLanguage:  "Select Language / Выберите Язык:",
		ChooseVoice:     "Please choose a voice style you would like to hear (Click 📢 to preview):",
		VoiceSet:        "✅ Voice set to: <b>%s</b>.\nNow, tell me what's on your mind?",
		PreviewSent:     "Sending preview...",
		PreviewCaption:  "Preview: %s",
		NoPreview:       "❌ No preview available for this voice.",
		UnknownVoice:    "❌ This voice is no longer available.",
		WaitMsg:         "⏳ Please wait %d seconds before the next message.",
		ErrorProcessing: "😔 I'm having trouble processing your request right now. Please try again later.",
		VoiceCaption:    "Here is a message for you ❤️",
		LimitReached:    "🔒 <b>Daily Limit Reached</b>\n\nYou have used your %d free hugs for today.\nWait until tomorrow or upgrade to <b>Premium</b> for unlimited support!",
		PremiumLocked:   "💎 This voice is Premium. Upgrade to unlock!",
		PremiumGranted:  "🎉 You have been upgraded to PREMIUM! Enjoy unlimited access and all voices.",
		UpsellPhrase:    "... I am always here. If you want more hugs - upgrade to premium ♡",
		SystemPrompt:    "You are a warm, supportive friend. Speak softly, kindly. Do not mention you are an AI.",
		UserPrompt: "Generate a warm, empathetic, affectionate response in English, " +
			"like a close friend comforting someone who's sad about: '%s'. " +
			"Keep it 1-2 minutes long for spoken text (approx 150-200 words), positive and uplifting.",
	},
	Russian: {
		Loading:         "⏳ Голоса загружаются... Попробуйте через пару секунд.",
		ChooseLanguage:  "Select Language / Выберите Язык:",
		ChooseVoice:     "Пожалуйста, выбери голос (Нажми 📢 для прослушивания):\n💎 - только для Премиум",
		VoiceSet:        "✅ Голос выбран: <b>%s</b>.\nТеперь расскажи, что у тебя на душе? Просто напиши мне.",
		PreviewSent:     "Отправляю пример...",
		PreviewCaption:  "Пример: %s",
		NoPreview:       "❌ Нет примера для этого голоса.",
		UnknownVoice:    "❌ Этот голос больше недоступен.",
		WaitMsg:         "⏳ Пожалуйста, подожди %d секунд перед следующим сообщением.",
		ErrorProcessing: "😔 У меня возникли проблемы с обработкой запроса. Попробуй позже.",
		VoiceCaption:    "Это сообщение для тебя ❤️",
		LimitReached:    "🔒 <b>Лимит исчерпан</b>\n\nТы использовал(а) все %d бесплатных утешения на сегодня.\nПриходи завтра или перейди в <b>Премиум</b> для безлимитных обнимашек! ♡",
		PremiumLocked:   "💎 Этот голос доступен только в Премиум. Обнови подписку!",
		PremiumGranted:  "🎉 Тебе подключили ПРЕМИУМ! Безлимитные сообщения и все голоса.",
		UpsellPhrase:    "... я всегда здесь. Если хочешь больше обнимашек — переходи в премиум ♡",
		SystemPrompt: "Ты поддерживающая подруга/друг, которая обнимает и утешает голосом в стиле ASMR. " +
			"Никогда не говори, что ты ИИ, бот или программа. Говори только ласково, нежно, тепло и сладко. " +
			"Текст будет озвучиваться, поэтому не пиши вступлений вроде «вот текст». Не описывай действия.",
		UserPrompt: "Сгенерируй теплое, эмпатичное, ласковое ответное сообщение на русском языке, " +
			"как близкий друг утешает того, кому грустно из-за: '%s'. " +
			"Длина текста 1-2 минуты для озвучки (примерно 150-200 слов), позитивно и поддерживающе.",
	},
}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Russian})

// Bundle resolves texts per locale.
type Bundle struct {
	texts map[string]Texts
}

// NewBundle returns a bundle with the built-in strings.
func NewBundle() *Bundle {
	b := &Bundle{texts: make(map[string]Texts, len(defaults))}
	for k, v := range defaults {
		b.texts[k] = v
	}
	return b
}

// LoadBundle returns the built-in strings with overrides from a JSON file of
// the form {"en": {"voice_caption": "..."}, "ru": {...}}. Missing keys keep
// their default value. An empty path returns the defaults.
func LoadBundle(path string) (*Bundle, error) {
	b := NewBundle()
	if path == "" {
		return b, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode messages file: %w", err)
	}
	for loc, msg := range raw {
		if !Supported(loc) {
			return nil, fmt.Errorf("messages file: unsupported locale %q", loc)
		}
		t := b.texts[loc]
		if err := json.Unmarshal(msg, &t); err != nil {
			return nil, fmt.Errorf("messages file %q: %w", loc, err)
		}
		b.texts[loc] = t
	}
	return b, nil
}

// For returns the texts for lang, falling back to the default locale.
func (b *Bundle) For(lang string) Texts {
	if t, ok := b.texts[strings.ToLower(lang)]; ok {
		return t
	}
	return b.texts[Default]
}

// Supported reports whether lang has its own strings.
func Supported(lang string) bool {
	_, ok := defaults[strings.ToLower(lang)]
	return ok
}

// Match maps a client language hint such as "ru-RU" or "en-GB" to one of the
// supported locales.
func Match(hint string) string {
	if hint == "" {
		return Default
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	if idx == 1 {
		return Russian
	}
	return English
}
