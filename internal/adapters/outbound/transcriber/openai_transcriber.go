package transcriber

import (
	"bytes"
	"context"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"

	"github.com/sashabaranov/go-openai"
)

var audioFileNames = map[string]string{
	"audio/mpeg": "audio.mp3",
	"audio/mp4":  "audio.m4a",
	"audio/wav":  "audio.wav",
	"audio/webm": "audio.webm",
}

// OpenAITranscriber transcribes audio through the Whisper API. An empty
// transcript for silent audio is a successful result.
type OpenAITranscriber struct {
	client *openai.Client
	model  string
}

func NewOpenAITranscriber(apiKey string) *OpenAITranscriber {
	return &OpenAITranscriber{
		client: openai.NewClient(apiKey),
		model:  openai.Whisper1,
	}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	fileName := audioFileNames[mimeType]
	if fileName == "" {
		fileName = "audio.mp3"
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: fileName,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", &domain.TranscriptionError{Err: err}
	}

	return resp.Text, nil
}
