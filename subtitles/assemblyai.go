package subtitles

import (
	"context"
	"fmt"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

// Transcriber turns an audio file into an SRT document.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, languageCode string) (string, error)
}

// AssemblyAI transcribes audio with AssemblyAI and exports its SRT.
type AssemblyAI struct {
	client *aai.Client
}

func NewAssemblyAI(apiKey string) *AssemblyAI {
	return &AssemblyAI{client: aai.NewClient(apiKey)}
}

// Transcribe uploads the audio, waits for the transcript and returns it
// as SRT.
func (a *AssemblyAI) Transcribe(ctx context.Context, audioPath, languageCode string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("opening audio: %w", err)
	}
	defer f.Close()

	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(languageCode),
	}

	transcript, err := a.client.Transcripts.TranscribeFromReader(ctx, f, params)
	if err != nil {
		return "", fmt.Errorf("AssemblyAI transcription error: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("AssemblyAI transcription failed: %s", msg)
	}
	if transcript.ID == nil {
		return "", fmt.Errorf("AssemblyAI returned a transcript without an ID")
	}

	srt, err := a.client.Transcripts.GetSubtitles(ctx, *transcript.ID, aai.SubtitleFormat("srt"), nil)
	if err != nil {
		return "", fmt.Errorf("AssemblyAI subtitle export error: %w", err)
	}
	return string(srt), nil
}
