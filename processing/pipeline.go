package processing

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vigneshnagarajan93/MoneyPrinter/llm"
	"github.com/vigneshnagarajan93/MoneyPrinter/media"
	"github.com/vigneshnagarajan93/MoneyPrinter/models"
)

// Number of search terms used to look for footage, and how the stock
// provider is queried for each.
const (
	footageTerms       = 5
	footagePerPage     = 15
	footageMinDuration = 10
)

// FootageSource finds and downloads stock clips.
type FootageSource interface {
	Search(ctx context.Context, query string, perPage int, minDuration float64) ([]string, error)
	Save(ctx context.Context, url, dir string) (string, error)
}

// Speaker synthesizes one sentence of narration to path.
type Speaker interface {
	Speak(ctx context.Context, text, voice, path string) error
}

// Renderer is the media toolkit the render stages run on.
type Renderer interface {
	Probe(ctx context.Context, path string) (float64, error)
	ConcatAudio(ctx context.Context, paths []string, out string) error
	CombineVideos(ctx context.Context, paths []string, maxDuration, maxClip float64, threads int) (string, error)
	GenerateVideo(ctx context.Context, opts media.ComposeOptions) (string, error)
}

// SubtitleWriter writes the subtitle track for a narration.
type SubtitleWriter interface {
	Generate(ctx context.Context, audioPath string, sentences []string, durations []float64, voice string) (string, error)
}

// Pipeline runs the generation stages on a video. Each stage reads the
// artifacts of the previous one from the video and stores its own there.
type Pipeline struct {
	LLM       llm.Generator
	Footage   FootageSource
	Speaker   Speaker
	Renderer  Renderer
	Subtitles SubtitleWriter

	TempDir         string
	DefaultModel    string
	Threads         int
	MaxClipDuration float64
}

func (p *Pipeline) model(model string) string {
	if model == "" {
		return p.DefaultModel
	}
	return model
}

// WriteScript generates the narration script.
func (p *Pipeline) WriteScript(ctx context.Context, v *models.Video) error {
	log.Printf("[+] Generating script for %q", v.Subject)
	script, err := p.GenerateScript(ctx, v.Subject, v.ParagraphNumber, v.AIModel, v.CustomPrompt)
	if err != nil {
		return err
	}
	v.Script = script
	return nil
}

// FindFootage derives search terms from the script and downloads one new
// stock clip per term.
func (p *Pipeline) FindFootage(ctx context.Context, v *models.Video) error {
	if v.Script == "" {
		return fmt.Errorf("video %d has no script", v.ID)
	}

	terms, err := p.SearchTerms(ctx, v.Subject, footageTerms, v.Script, v.AIModel)
	if err != nil {
		return err
	}
	v.SearchTerms = terms

	seen := make(map[string]bool)
	var clips []models.VideoClip
	for _, term := range terms {
		links, err := p.Footage.Search(ctx, term, footagePerPage, footageMinDuration)
		if err != nil {
			log.Printf("[-] Stock search for %q failed: %v", term, err)
			continue
		}
		for _, link := range links {
			if seen[link] {
				continue
			}
			seen[link] = true
			clips = append(clips, models.VideoClip{VideoID: v.ID, SearchTerm: term, SourceURL: link})
			break
		}
	}

	if len(clips) == 0 {
		return fmt.Errorf("no stock footage found for %d search terms", len(terms))
	}

	log.Printf("[+] Downloading %d videos...", len(clips))
	for i := range clips {
		path, err := p.Footage.Save(ctx, clips[i].SourceURL, p.TempDir)
		if err != nil {
			return err
		}
		clips[i].Position = i
		clips[i].Path = path
	}
	log.Println("[+] Videos downloaded!")

	v.Clips = clips
	return nil
}

// Narrate speaks the script sentence by sentence, joins the audio into one
// narration track and writes its subtitles.
func (p *Pipeline) Narrate(ctx context.Context, v *models.Video) error {
	sentences := SplitSentences(v.Script)
	if len(sentences) == 0 {
		return fmt.Errorf("video %d has no script to narrate", v.ID)
	}

	paths := make([]string, 0, len(sentences))
	durations := make([]float64, 0, len(sentences))
	for _, sentence := range sentences {
		path := filepath.Join(p.TempDir, uuid.NewString()+".mp3")
		if err := p.Speaker.Speak(ctx, sentence, v.Voice, path); err != nil {
			return err
		}
		d, err := p.Renderer.Probe(ctx, path)
		if err != nil {
			return err
		}
		paths = append(paths, path)
		durations = append(durations, d)
	}

	narration := filepath.Join(p.TempDir, uuid.NewString()+".mp3")
	if err := p.Renderer.ConcatAudio(ctx, paths, narration); err != nil {
		return err
	}
	v.NarrationPath = narration

	subtitlesPath, err := p.Subtitles.Generate(ctx, narration, sentences, durations, v.Language)
	if err != nil {
		return fmt.Errorf("generating subtitles: %w", err)
	}
	v.SubtitlesPath = subtitlesPath
	return nil
}

// Render cuts the clips to the narration length and composes the final
// video at outputPath. An empty outputPath renders to <temp>/output.mp4.
func (p *Pipeline) Render(ctx context.Context, v *models.Video, outputPath string) error {
	duration, err := p.Renderer.Probe(ctx, v.NarrationPath)
	if err != nil {
		return err
	}

	combined, err := p.Renderer.CombineVideos(ctx, v.ClipPaths(), duration, p.MaxClipDuration, p.Threads)
	if err != nil {
		return err
	}
	v.CombinedPath = combined

	out, err := p.Renderer.GenerateVideo(ctx, media.ComposeOptions{
		CombinedPath:      combined,
		AudioPath:         v.NarrationPath,
		SubtitlesPath:     v.SubtitlesPath,
		Threads:           p.Threads,
		SubtitlesPosition: v.SubtitlesPosition,
		TextColor:         v.TextColor,
		OutputPath:        outputPath,
	})
	if err != nil {
		return err
	}
	v.OutputPath = out
	return nil
}

// Describe generates the title, description and keywords.
func (p *Pipeline) Describe(ctx context.Context, v *models.Video) error {
	meta, err := p.GenerateMetadata(ctx, v.Subject, v.Script, v.AIModel)
	if err != nil {
		return err
	}
	v.Title = meta.Title
	v.Description = meta.Description
	v.Keywords = meta.Keywords
	return nil
}

// Run executes every stage in order.
func (p *Pipeline) Run(ctx context.Context, v *models.Video, outputPath string) error {
	stages := []struct {
		name string
		run  func() error
	}{
		{"script", func() error { return p.WriteScript(ctx, v) }},
		{"footage", func() error { return p.FindFootage(ctx, v) }},
		{"narration", func() error { return p.Narrate(ctx, v) }},
		{"render", func() error { return p.Render(ctx, v, outputPath) }},
		{"metadata", func() error { return p.Describe(ctx, v) }},
	}

	for _, s := range stages {
		if err := s.run(); err != nil {
			return fmt.Errorf("%s stage: %w", s.name, err)
		}
	}
	log.Printf("[+] Video ready at %s", v.OutputPath)
	return nil
}
