package models

import (
	"time"
)

// Series is a recurring topic. The scheduler turns it into PostsPerDay new
// videos per run, copying the generation defaults below onto each one.
type Series struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	PostsPerDay int    `gorm:"not null;default:1" json:"posts_per_day"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	AIModel           string `json:"ai_model"`
	Voice             string `json:"voice"`
	Language          string `gorm:"default:'en'" json:"language"`
	SubtitlesPosition string `json:"subtitles_position"`
	TextColor         string `json:"text_color"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Video count (computed field, not persisted)
	VideoCount int `gorm:"-" json:"video_count"`
}

func (Series) TableName() string {
	return "series"
}

// NewVideo builds a pending video for this series.
func (s *Series) NewVideo() Video {
	id := s.ID
	subject := s.Title
	if s.Description != "" {
		subject = s.Title + ": " + s.Description
	}
	return Video{
		UserID:            s.UserID,
		SeriesID:          &id,
		Subject:           subject,
		ParagraphNumber:   1,
		AIModel:           s.AIModel,
		Voice:             s.Voice,
		Language:          s.Language,
		SubtitlesPosition: s.SubtitlesPosition,
		TextColor:         s.TextColor,
		Status:            StatusPending,
	}
}
