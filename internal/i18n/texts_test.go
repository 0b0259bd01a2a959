package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundleFallsBackToDefault(t *testing.T) {
	b := NewBundle()
	assert.Equal(t, b.For(English), b.For("de"))
	assert.Equal(t, b.For(English), b.For(""))
	assert.NotEqual(t, b.For(English).UpsellPhrase, b.For(Russian).UpsellPhrase)
	assert.Equal(t, b.For(Russian), b.For("RU"))
}

func TestEveryLocaleIsComplete(t *testing.T) {
	for loc, texts := range defaults {
		assert.NotEmpty(t, texts.SystemPrompt, loc)
		assert.Contains(t, texts.UserPrompt, "%s", loc)
		assert.NotEmpty(t, texts.UpsellPhrase, loc)
		assert.Contains(t, texts.LimitReached, "%d", loc)
		assert.Contains(t, texts.VoiceSet, "%s", loc)
	}
}

func TestMatch(t *testing.T) {
	cases := map[string]string{
		"":      English,
		"en":    English,
		"en-US": English,
		"ru":    Russian,
		"ru-RU": Russian,
		"de":    English,
		"???":   English,
	}
	for hint, want := range cases {
		assert.Equal(t, want, Match(hint), hint)
	}
}

func TestLoadBundleOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"en": {"voice_caption": "For you"}}`), 0o600))

	b, err := LoadBundle(path)
	require.NoError(t, err)
	assert.Equal(t, "For you", b.For(English).VoiceCaption)
	assert.Equal(t, defaults[English].UpsellPhrase, b.For(English).UpsellPhrase)
	assert.Equal(t, defaults[Russian], b.For(Russian))
}

func TestLoadBundleRejectsUnknownLocale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fr": {"voice_caption": "Pour toi"}}`), 0o600))

	_, err := LoadBundle(path)
	assert.Error(t, err)
}
