package models

import (
	"sort"
	"strings"
	"time"
)

// Video statuses. Every stage moves a video from pending_<stage> to
// processing_<stage>, and either on to the next stage or to failed_<stage>.
const (
	StatusPending             = "pending"
	StatusProcessingScript    = "processing_script"
	StatusPendingFootage      = "pending_footage"
	StatusProcessingFootage   = "processing_footage"
	StatusPendingNarration    = "pending_narration"
	StatusProcessingNarration = "processing_narration"
	StatusPendingRender       = "pending_render"
	StatusRendering           = "rendering"
	StatusPendingMetadata     = "pending_metadata"
	StatusProcessingMetadata  = "processing_metadata"
	StatusComplete            = "complete"
)

type Video struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	UserID   uint  `gorm:"index" json:"user_id"`
	SeriesID *uint `gorm:"index" json:"series_id,omitempty"`

	// Request
	Subject           string `gorm:"not null" json:"subject"`
	ParagraphNumber   int    `gorm:"default:1" json:"paragraph_number"`
	AIModel           string `json:"ai_model"`
	Voice             string `json:"voice"`
	Language          string `gorm:"default:'en'" json:"language"`
	SubtitlesPosition string `json:"subtitles_position"`
	TextColor         string `json:"text_color"`
	CustomPrompt      string `gorm:"type:text" json:"custom_prompt,omitempty"`

	// Artifacts
	Script        string   `gorm:"type:text" json:"script,omitempty"`
	SearchTerms   []string `gorm:"serializer:json" json:"search_terms,omitempty"`
	NarrationPath string   `json:"-"`
	SubtitlesPath string   `json:"-"`
	CombinedPath  string   `json:"-"`
	OutputPath    string   `json:"output_path,omitempty"`

	// Metadata
	Title       string   `gorm:"size:255" json:"title"`
	Description string   `gorm:"type:text" json:"description,omitempty"`
	Keywords    []string `gorm:"serializer:json" json:"keywords,omitempty"`

	Clips []VideoClip `gorm:"foreignKey:VideoID" json:"clips,omitempty"`

	Status    string    `gorm:"default:'pending'" json:"status"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Video) TableName() string {
	return "videos"
}

// IsDone reports whether the video reached a terminal status.
func (v Video) IsDone() bool {
	return v.Status == StatusComplete || IsFailed(v.Status)
}

// ClipPaths returns the local paths of the clips in combine order.
func (v Video) ClipPaths() []string {
	clips := make([]VideoClip, len(v.Clips))
	copy(clips, v.Clips)
	sort.SliceStable(clips, func(i, j int) bool { return clips[i].Position < clips[j].Position })

	paths := make([]string, 0, len(clips))
	for _, c := range clips {
		paths = append(paths, c.Path)
	}
	return paths
}

// IsFailed reports whether status is one of the failed_<stage> statuses.
func IsFailed(status string) bool {
	return strings.HasPrefix(status, "failed_") && len(status) > len("failed_")
}
