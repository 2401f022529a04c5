package media

import (
	"math"

	"github.com/pkg/errors"
)

// Output geometry of every rendered short.
const (
	TargetWidth  = 1080
	TargetHeight = 1920
	TargetRatio  = 0.5625
	FPS          = 30
)

// ErrNoClips is returned when there is no usable footage to combine.
var ErrNoClips = errors.New("no clips to combine")

// Source is a downloaded clip and its probed metadata.
type Source struct {
	Path string
	Info
}

// Crop is a centered crop rectangle in source pixels.
type Crop struct {
	Width  int
	Height int
	X      int
	Y      int
}

// Segment is one clip of the combined video: the first Duration seconds of
// Path, cropped to 9:16.
type Segment struct {
	Path     string
	Duration float64
	Crop     Crop
}

// PlanClips decides which part of which source fills each slot of a video
// lasting target seconds. Sources are cycled in order. Every clip is cut to
// the time still missing when that is shorter than the clip, otherwise to
// an equal share of the target, and never runs past maxClip seconds.
// Planning stops as soon as the target is covered.
func PlanClips(sources []Source, target, maxClip float64) ([]Segment, error) {
	if len(sources) == 0 {
		return nil, ErrNoClips
	}
	usable := false
	for _, s := range sources {
		if playable(s) {
			usable = true
			break
		}
	}
	if !usable {
		return nil, ErrNoClips
	}
	if target <= 0 {
		return nil, errors.New("target duration must be positive")
	}

	share := target / float64(len(sources))

	var (
		segments []Segment
		total    float64
	)
	for total < target {
		for _, src := range sources {
			if total >= target {
				break
			}
			if !playable(src) {
				continue
			}

			d := src.Duration
			if remaining := target - total; remaining < d {
				d = remaining
			} else if share < d {
				d = share
			}
			if maxClip > 0 && d > maxClip {
				d = maxClip
			}

			segments = append(segments, Segment{
				Path:     src.Path,
				Duration: d,
				Crop:     CropFor(src.Width, src.Height),
			})
			total += d
		}
	}

	return segments, nil
}

func playable(s Source) bool {
	return s.Duration > 0 && s.Width > 0 && s.Height > 0
}

// CropFor returns the centered 9:16 crop of a width x height frame. Frames
// narrower than 9:16 keep their width, wider ones keep their height.
func CropFor(width, height int) Crop {
	w, h := float64(width), float64(height)
	ratio := math.Round(w/h*10000) / 10000

	var c Crop
	if ratio < TargetRatio {
		c.Width = width
		c.Height = int(math.Round(w / TargetRatio))
	} else {
		c.Width = int(math.Round(TargetRatio * h))
		c.Height = height
	}
	if c.Width > width {
		c.Width = width
	}
	if c.Height > height {
		c.Height = height
	}

	c.X = (width - c.Width) / 2
	c.Y = (height - c.Height) / 2
	return c
}
