package models

import "time"

// VideoClip is one downloaded stock clip, in the order it will be combined.
type VideoClip struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VideoID    uint      `gorm:"not null;index" json:"video_id"`
	Position   int       `gorm:"not null" json:"position"`
	SearchTerm string    `json:"search_term"`
	SourceURL  string    `gorm:"type:text" json:"source_url"`
	Path       string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (VideoClip) TableName() string {
	return "video_clips"
}
