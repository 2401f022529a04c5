package processing

import (
	"fmt"
	"os"
	"strings"

	"github.com/vigneshnagarajan93/MoneyPrinter/models"
	"gopkg.in/yaml.v3"
)

// Defaults applied to fields a request leaves empty.
const (
	DefaultParagraphs        = 1
	DefaultLanguage          = "en"
	DefaultSubtitlesPosition = "center,bottom"
	DefaultTextColor         = "#FFFF00"
)

// Request holds the parameters of one video, as posted to the API or read
// from a YAML job file.
type Request struct {
	Subject           string `json:"subject" yaml:"subject" binding:"required"`
	ParagraphNumber   int    `json:"paragraph_number" yaml:"paragraph_number"`
	AIModel           string `json:"ai_model" yaml:"ai_model"`
	Voice             string `json:"voice" yaml:"voice"`
	Language          string `json:"language" yaml:"language"`
	SubtitlesPosition string `json:"subtitles_position" yaml:"subtitles_position"`
	TextColor         string `json:"text_color" yaml:"text_color"`
	CustomPrompt      string `json:"custom_prompt" yaml:"custom_prompt"`
}

// LoadRequest reads a YAML job file.
func LoadRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("reading request file: %w", err)
	}
	var r Request
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Request{}, fmt.Errorf("parsing request file: %w", err)
	}
	return r, nil
}

// Video returns a pending video for the request with defaults filled in.
func (r Request) Video(userID uint) models.Video {
	v := models.Video{
		UserID:            userID,
		Subject:           strings.TrimSpace(r.Subject),
		ParagraphNumber:   r.ParagraphNumber,
		AIModel:           r.AIModel,
		Voice:             r.Voice,
		Language:          r.Language,
		SubtitlesPosition: r.SubtitlesPosition,
		TextColor:         r.TextColor,
		CustomPrompt:      r.CustomPrompt,
		Status:            models.StatusPending,
	}
	if v.ParagraphNumber <= 0 {
		v.ParagraphNumber = DefaultParagraphs
	}
	if v.Language == "" {
		v.Language = DefaultLanguage
	}
	if v.SubtitlesPosition == "" {
		v.SubtitlesPosition = DefaultSubtitlesPosition
	}
	if v.TextColor == "" {
		v.TextColor = DefaultTextColor
	}
	return v
}
