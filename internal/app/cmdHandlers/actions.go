package cmdHandlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ilinovom/voice-hug-bot/internal/service"
)

// maxCallbackData is the Telegram limit for callback_data.
const maxCallbackData = 64

var errBadAction = errors.New("malformed callback data")

// EncodeAction renders an action as "kind:arg".
func EncodeAction(a service.Action) string {
	switch a.Kind {
	case service.ActionLanguage:
		return string(a.Kind) + ":" + a.Lang
	case service.ActionPage:
		return string(a.Kind) + ":" + strconv.Itoa(a.Page)
	case service.ActionSelect, service.ActionPreview:
		return string(a.Kind) + ":" + a.VoiceID
	default:
		return string(service.ActionNoop)
	}
}

// ParseAction is the inverse of EncodeAction.
func ParseAction(data string) (service.Action, error) {
	if data == "" || len(data) > maxCallbackData {
		return service.Action{}, errBadAction
	}
	kind, arg, _ := strings.Cut(data, ":")
	switch service.ActionKind(kind) {
	case service.ActionNoop:
		return service.Action{Kind: service.ActionNoop}, nil
	case service.ActionLanguage:
		if arg == "" {
			return service.Action{}, errBadAction
		}
		return service.Action{Kind: service.ActionLanguage, Lang: arg}, nil
	case service.ActionPage:
		page, err := strconv.Atoi(arg)
		if err != nil || page < 0 {
			return service.Action{}, fmt.Errorf("%w: page %q", errBadAction, arg)
		}
		return service.Action{Kind: service.ActionPage, Page: page}, nil
	case service.ActionSelect, service.ActionPreview:
		if arg == "" {
			return service.Action{}, errBadAction
		}
		return service.Action{Kind: service.ActionKind(kind), VoiceID: arg}, nil
	}
	return service.Action{}, fmt.Errorf("%w: %q", errBadAction, data)
}
