// Package media assembles stock clips into a vertical video and burns the
// narration and subtitles into it, driving ffmpeg through ffmpeg-go.
package media

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Info is what the pipeline needs to know about a media file.
type Info struct {
	Duration float64
	Width    int
	Height   int
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe runs ffprobe on path.
func Probe(path string) (Info, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return Info{}, errors.Wrapf(err, "probing %s", path)
	}
	info, err := parseProbe(out)
	if err != nil {
		return Info{}, errors.Wrapf(err, "probing %s", path)
	}
	return info, nil
}

func parseProbe(data string) (Info, error) {
	var probe probeOutput
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return Info{}, errors.WithStack(err)
	}

	var info Info
	durations := []string{probe.Format.Duration}
	for _, s := range probe.Streams {
		if s.CodecType == "video" && info.Width == 0 {
			info.Width = s.Width
			info.Height = s.Height
		}
		durations = append(durations, s.Duration)
	}

	for _, d := range durations {
		if d == "" {
			continue
		}
		v, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return Info{}, errors.Wrapf(err, "invalid duration %q", d)
		}
		info.Duration = v
		break
	}

	if info.Duration == 0 && len(probe.Streams) == 0 {
		return Info{}, errors.New("no streams found")
	}
	return info, nil
}
