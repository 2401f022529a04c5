// Package tts synthesizes narration audio.
package tts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DefaultVoice is used when a video does not name one.
const DefaultVoice = "alloy"

// OpenAISpeaker writes mp3 speech through the OpenAI speech endpoint.
type OpenAISpeaker struct {
	client openai.Client
	Model  string
}

// NewOpenAISpeaker creates a speaker. An empty baseURL uses the OpenAI API.
func NewOpenAISpeaker(apiKey, baseURL, model string) *OpenAISpeaker {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAISpeaker{
		client: openai.NewClient(opts...),
		Model:  model,
	}
}

// Speak synthesizes text with voice and writes the mp3 to path.
func (s *OpenAISpeaker) Speak(ctx context.Context, text, voice, path string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("empty text")
	}
	if voice == "" {
		voice = DefaultVoice
	}

	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.Model),
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return fmt.Errorf("OpenAI speech error: %w", err)
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating audio directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
