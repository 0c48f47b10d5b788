// Package speech turns answer text into audio. Synthesis failures are always
// soft: the caller drops the audio and keeps the answer.
package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

// ErrDisabled is returned by a synthesizer that is configured off.
var ErrDisabled = errors.New("speech synthesis disabled")

// Synthesizer produces spoken audio for a text in a given language.
type Synthesizer interface {
	// Synthesize returns encoded audio (MP3) for the text. langCode is the
	// ISO 639-1 code of the text's language.
	Synthesize(ctx context.Context, text, langCode string) ([]byte, error)
}

// OpenAISynthesizer implements Synthesizer over the OpenAI speech API. The
// voices are multilingual, so langCode is informational only; it is kept in
// the contract because other backends select a voice by language.
type OpenAISynthesizer struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
	logger *slog.Logger
}

// NewOpenAISynthesizer creates a synthesizer. baseURL may be empty for the
// default endpoint.
func NewOpenAISynthesizer(apiKey, baseURL string) *OpenAISynthesizer {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(config),
		model:  openai.TTSModel1,
		voice:  openai.VoiceAlloy,
		logger: slog.Default(),
	}
}

// Synthesize returns MP3 audio for the text.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text, langCode string) ([]byte, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	defer func() {
		_ = resp.Close()
	}()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio stream: %w", err)
	}
	s.logger.DebugContext(ctx, "synthesized speech", "lang", langCode, "bytes", len(audio))
	return audio, nil
}

// Disabled is a Synthesizer that always returns ErrDisabled.
type Disabled struct{}

// Synthesize always fails with ErrDisabled.
func (Disabled) Synthesize(context.Context, string, string) ([]byte, error) {
	return nil, ErrDisabled
}
