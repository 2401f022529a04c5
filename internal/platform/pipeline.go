package platform

import (
	"context"
	"log"

	"github.com/vigneshnagarajan93/MoneyPrinter/llm"
	"github.com/vigneshnagarajan93/MoneyPrinter/media"
	"github.com/vigneshnagarajan93/MoneyPrinter/processing"
	"github.com/vigneshnagarajan93/MoneyPrinter/stock"
	"github.com/vigneshnagarajan93/MoneyPrinter/subtitles"
	"github.com/vigneshnagarajan93/MoneyPrinter/tts"
)

// NewPipeline wires the generation pipeline to the configured providers.
func NewPipeline(ctx context.Context, cfg Config) (*processing.Pipeline, error) {
	if cfg.PexelsAPIKey == "" {
		log.Println("PEXELS_API_KEY is not set, footage searches will fail")
	}

	generator, err := llm.NewClient(ctx, llm.Config{
		OpenRouterAPIKey:  cfg.OpenRouterAPIKey,
		OpenRouterBaseURL: cfg.OpenRouterBaseURL,
		GoogleAPIKey:      cfg.GoogleAPIKey,
	})
	if err != nil {
		return nil, err
	}

	return &processing.Pipeline{
		LLM:       generator,
		Footage:   stock.NewClient(cfg.PexelsAPIKey),
		Speaker:   tts.NewOpenAISpeaker(cfg.OpenAIAPIKey, "", cfg.TTSModel),
		Renderer:  media.NewEditor(cfg.TempDir, cfg.FontsDir, cfg.FontName),
		Subtitles: subtitles.NewBuilder(cfg.AssemblyAIAPIKey, cfg.SubtitlesDir, cfg.SubtitleMaxChars),

		TempDir:         cfg.TempDir,
		DefaultModel:    cfg.DefaultModel,
		Threads:         cfg.Threads,
		MaxClipDuration: cfg.MaxClipDuration,
	}, nil
}
