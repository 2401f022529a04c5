package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFailed(t *testing.T) {
	assert.True(t, IsFailed("failed_script"))
	assert.True(t, IsFailed("failed_render"))
	assert.False(t, IsFailed("failed_"))
	assert.False(t, IsFailed(StatusComplete))
	assert.False(t, IsFailed(StatusPendingRender))
}

func TestVideoIsDone(t *testing.T) {
	v := Video{Status: StatusRendering}
	assert.False(t, v.IsDone())

	v.Status = StatusComplete
	assert.True(t, v.IsDone())

	v.Status = "failed_footage"
	assert.True(t, v.IsDone())
}

func TestSeriesNewVideo(t *testing.T) {
	s := Series{
		ID:          7,
		UserID:      3,
		Title:       "Space facts",
		Description: "one weird fact per day",
		Voice:       "alloy",
		Language:    "en",
		TextColor:   "#FFFF00",
	}

	v := s.NewVideo()

	assert.Equal(t, uint(3), v.UserID)
	if assert.NotNil(t, v.SeriesID) {
		assert.Equal(t, uint(7), *v.SeriesID)
	}
	assert.Equal(t, "Space facts: one weird fact per day", v.Subject)
	assert.Equal(t, 1, v.ParagraphNumber)
	assert.Equal(t, "alloy", v.Voice)
	assert.Equal(t, "#FFFF00", v.TextColor)
	assert.Equal(t, StatusPending, v.Status)
}

func TestVideoClipPathsFollowPosition(t *testing.T) {
	v := Video{Clips: []VideoClip{
		{Position: 2, Path: "c.mp4"},
		{Position: 0, Path: "a.mp4"},
		{Position: 1, Path: "b.mp4"},
	}}

	assert.Equal(t, []string{"a.mp4", "b.mp4", "c.mp4"}, v.ClipPaths())
	assert.Equal(t, "c.mp4", v.Clips[0].Path, "ClipPaths does not reorder the video's clips")
	assert.Empty(t, (&Video{}).ClipPaths())
	assert.Equal(t, []string{"x.mp4"}, Video{Clips: []VideoClip{{Path: "x.mp4"}}}.ClipPaths())
}
