package model

// VoiceOption is one entry of the text-to-speech provider's voice catalog.
type VoiceOption struct {
	ID         string `json:"voice_id"`
	Name       string `json:"name"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// Session is the in-memory choice a user made through the menus. It is never
// persisted and does not survive a restart.
type Session struct {
	Language string
	VoiceID  string
}
