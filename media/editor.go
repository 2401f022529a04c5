package media

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DefaultThreads is used when a caller passes no thread count.
const DefaultThreads = 2

// Editor renders videos into TempDir. Fonts for the subtitles are loaded
// from FontsDir.
type Editor struct {
	TempDir  string
	FontsDir string
	FontName string
}

func NewEditor(tempDir, fontsDir, fontName string) *Editor {
	return &Editor{TempDir: tempDir, FontsDir: fontsDir, FontName: fontName}
}

// Probe returns the duration of a media file in seconds.
func (e *Editor) Probe(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	info, err := Probe(path)
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}

// CombineVideos cuts the clips at paths into a silent 1080x1920 video of
// maxDuration seconds and returns its path.
func (e *Editor) CombineVideos(ctx context.Context, paths []string, maxDuration, maxClip float64, threads int) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoClips
	}

	log.Println("[+] Combining videos...")
	log.Printf("[+] Each clip will be maximum %.2f seconds long.", maxDuration/float64(len(paths)))

	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		info, err := Probe(p)
		if err != nil {
			return "", err
		}
		sources = append(sources, Source{Path: p, Info: info})
	}

	segments, err := PlanClips(sources, maxDuration, maxClip)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.TempDir, 0o755); err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	out := filepath.Join(e.TempDir, uuid.NewString()+".mp4")

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := combineCommand(segments, out, threads).Run(); err != nil {
		return "", errors.Wrap(err, "combining videos")
	}

	return out, nil
}

func combineCommand(segments []Segment, out string, threads int) *ffmpeg.Stream {
	streams := make([]*ffmpeg.Stream, 0, len(segments))
	for _, s := range segments {
		streams = append(streams, ffmpeg.Input(s.Path, ffmpeg.KwArgs{"t": seconds(s.Duration)}).
			Video().
			Filter("fps", ffmpeg.Args{fmt.Sprint(FPS)}).
			Filter("crop", ffmpeg.Args{
				fmt.Sprint(s.Crop.Width), fmt.Sprint(s.Crop.Height),
				fmt.Sprint(s.Crop.X), fmt.Sprint(s.Crop.Y),
			}).
			Filter("scale", ffmpeg.Args{fmt.Sprint(TargetWidth), fmt.Sprint(TargetHeight)}).
			Filter("setsar", ffmpeg.Args{"1"}))
	}

	return ffmpeg.Concat(streams, ffmpeg.KwArgs{"v": 1, "a": 0}).
		Output(out, ffmpeg.KwArgs{
			"r":       FPS,
			"c:v":     "libx264",
			"pix_fmt": "yuv420p",
			"threads": threadCount(threads),
		}).
		OverWriteOutput().
		ErrorToStdOut()
}

// ConcatAudio joins the audio files at paths, in order, into out.
func (e *Editor) ConcatAudio(ctx context.Context, paths []string, out string) error {
	if len(paths) == 0 {
		return errors.New("no audio to concatenate")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating audio directory: %w", err)
	}
	if err := concatAudioCommand(paths, out).Run(); err != nil {
		return errors.Wrap(err, "concatenating audio")
	}
	return nil
}

func concatAudioCommand(paths []string, out string) *ffmpeg.Stream {
	streams := make([]*ffmpeg.Stream, 0, len(paths))
	for _, p := range paths {
		streams = append(streams, ffmpeg.Input(p).Audio())
	}
	return ffmpeg.Concat(streams, ffmpeg.KwArgs{"v": 0, "a": 1}).
		Output(out, ffmpeg.KwArgs{"c:a": "libmp3lame"}).
		OverWriteOutput().
		ErrorToStdOut()
}

// ComposeOptions describe the final render.
type ComposeOptions struct {
	CombinedPath      string
	AudioPath         string
	SubtitlesPath     string
	Threads           int
	SubtitlesPosition string
	TextColor         string
	// OutputPath defaults to <TempDir>/output.mp4.
	OutputPath string
}

// GenerateVideo burns the subtitles into the combined video, attaches the
// narration and returns the path of the result.
func (e *Editor) GenerateVideo(ctx context.Context, opts ComposeOptions) (string, error) {
	horizontal, vertical := ParseSubtitlesPosition(opts.SubtitlesPosition)
	log.Printf("[+] Subtitles position: %s,%s", horizontal, vertical)

	assPath := strings.TrimSuffix(opts.SubtitlesPath, filepath.Ext(opts.SubtitlesPath)) + ".ass"
	style := SubtitleStyle{
		FontName:   e.FontName,
		TextColor:  opts.TextColor,
		Horizontal: horizontal,
		Vertical:   vertical,
	}
	if err := WriteASS(opts.SubtitlesPath, assPath, style); err != nil {
		return "", err
	}

	out := opts.OutputPath
	if out == "" {
		out = filepath.Join(e.TempDir, "output.mp4")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := e.composeCommand(opts, assPath, out).Run(); err != nil {
		return "", errors.Wrap(err, "rendering video")
	}

	log.Printf("[+] Video rendered to %s", out)
	return out, nil
}

func (e *Editor) composeCommand(opts ComposeOptions, assPath, out string) *ffmpeg.Stream {
	video := ffmpeg.Input(opts.CombinedPath).
		Video().
		Filter("ass", ffmpeg.Args{assPath}, ffmpeg.KwArgs{"fontsdir": e.FontsDir})
	audio := ffmpeg.Input(opts.AudioPath).Audio()

	return ffmpeg.Output([]*ffmpeg.Stream{video, audio}, out, ffmpeg.KwArgs{
		"c:v":     "libx264",
		"c:a":     "aac",
		"pix_fmt": "yuv420p",
		"threads": threadCount(opts.Threads),
	}).
		OverWriteOutput().
		ErrorToStdOut()
}

func threadCount(threads int) int {
	if threads <= 0 {
		return DefaultThreads
	}
	return threads
}

func seconds(s float64) string {
	return fmt.Sprintf("%.3f", s)
}
