package app

import (
	"context"

	"github.com/ilinovom/voice-hug-bot/internal/model"
	"github.com/ilinovom/voice-hug-bot/pkg/elevenlabs"
)

// voiceLister adapts the ElevenLabs voice list to catalog entries.
type voiceLister struct {
	client *elevenlabs.Client
}

func (l voiceLister) ListVoices(ctx context.Context) ([]model.VoiceOption, error) {
	voices, err := l.client.ListVoices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.VoiceOption, 0, len(voices))
	for _, v := range voices {
		if v.VoiceID == "" {
			continue
		}
		out = append(out, model.VoiceOption{ID: v.VoiceID, Name: v.Name, PreviewURL: v.PreviewURL})
	}
	return out, nil
}
