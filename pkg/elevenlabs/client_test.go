package elevenlabs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListVoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/voices", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("xi-api-key"))
		_, _ = io.WriteString(w, `{"voices":[
			{"voice_id":"a","name":"Rachel","preview_url":"https://cdn/a.mp3"},
			{"voice_id":"b","name":"Adam"}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "key", BaseURL: srv.URL})
	voices, err := c.ListVoices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Voice{
		{VoiceID: "a", Name: "Rachel", PreviewURL: "https://cdn/a.mp3"},
		{VoiceID: "b", Name: "Adam"},
	}, voices)
}

func TestListVoicesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(Config{APIKey: "bad", BaseURL: srv.URL}).ListVoices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTextToSpeechStreams(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/text-to-speech/voice-1/stream", r.URL.Path)
		assert.Equal(t, DefaultOutputFormat, r.URL.Query().Get("output_format"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		flusher := w.(http.Flusher)
		for _, chunk := range []string{"chunk1", "chunk2", "chunk3"} {
			_, _ = io.WriteString(w, chunk)
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "key", BaseURL: srv.URL})
	stream, err := c.TextToSpeech(context.Background(), "hello there", "voice-1")
	require.NoError(t, err)
	defer stream.Close()

	audio, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "chunk1chunk2chunk3", string(audio))
	assert.Equal(t, "hello there", body["text"])
	assert.Equal(t, DefaultModel, body["model_id"])
}

func TestTextToSpeechError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota_exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	_, err := NewClient(Config{APIKey: "key", BaseURL: srv.URL}).TextToSpeech(context.Background(), "x", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota_exceeded")
}
