package cmdHandlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilinovom/voice-hug-bot/internal/service"
)

func TestActionRoundTrip(t *testing.T) {
	actions := []service.Action{
		{Kind: service.ActionLanguage, Lang: "ru"},
		{Kind: service.ActionPage, Page: 3},
		{Kind: service.ActionSelect, VoiceID: "21m00Tcm4TlvDq8ikWAM"},
		{Kind: service.ActionPreview, VoiceID: "21m00Tcm4TlvDq8ikWAM"},
		{Kind: service.ActionNoop},
	}
	for _, a := range actions {
		data := EncodeAction(a)
		assert.LessOrEqual(t, len(data), maxCallbackData)
		got, err := ParseAction(data)
		require.NoError(t, err, data)
		assert.Equal(t, a, got)
	}
}

func TestParseActionRejects(t *testing.T) {
	for _, data := range []string{"", "page:-1", "page:x", "voice:", "lang:", "select_v1_True", "voice:" + strings.Repeat("a", 64)} {
		_, err := ParseAction(data)
		assert.Error(t, err, data)
	}
}

func TestSplitCommand(t *testing.T) {
	cmd, args := splitCommand("/add_premium@VoiceHugBot 42")
	assert.Equal(t, AddPremiumCmd, cmd)
	assert.Equal(t, []string{"42"}, args)

	cmd, _ = splitCommand("hello /start")
	assert.Empty(t, cmd)
}
