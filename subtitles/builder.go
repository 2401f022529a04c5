package subtitles

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Builder writes the subtitle file for a narration. With a Transcriber it
// uses the remote strategy; without one it times sentences locally.
type Builder struct {
	Transcriber Transcriber
	Dir         string
	MaxChars    int
}

// NewBuilder wires the remote strategy only when an AssemblyAI key is set.
func NewBuilder(assemblyAIKey, dir string, maxChars int) *Builder {
	b := &Builder{Dir: dir, MaxChars: maxChars}
	if assemblyAIKey != "" {
		b.Transcriber = NewAssemblyAI(assemblyAIKey)
	}
	return b
}

// Generate writes <Dir>/<uuid>.srt for the narration and equalizes its line
// lengths. sentences and durations are only used by the local strategy.
func (b *Builder) Generate(ctx context.Context, audioPath string, sentences []string, durations []float64, voice string) (string, error) {
	var (
		content string
		err     error
	)

	if b.Transcriber != nil {
		log.Println("[+] Creating subtitles using AssemblyAI")
		content, err = b.Transcriber.Transcribe(ctx, audioPath, LanguageCode(voice))
		if err != nil {
			return "", err
		}
	} else {
		log.Println("[+] Creating subtitles locally")
		cues, err := BuildLocal(sentences, durations)
		if err != nil {
			return "", err
		}
		content = Format(cues)
	}

	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating subtitles directory: %w", err)
	}
	path := filepath.Join(b.Dir, uuid.NewString()+".srt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing subtitles: %w", err)
	}

	if err := EqualizeFile(path, b.MaxChars); err != nil {
		return "", err
	}

	log.Println("[+] Subtitles generated.")
	return path, nil
}
