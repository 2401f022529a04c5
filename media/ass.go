package media

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vigneshnagarajan93/MoneyPrinter/subtitles"
	"golang.org/x/image/colornames"
)

// Subtitle style of every render.
const (
	FontSize    = 100
	StrokeWidth = 5
)

// SubtitleStyle is the look of the burned-in subtitles.
type SubtitleStyle struct {
	FontName   string
	TextColor  string
	Horizontal string
	Vertical   string
}

// ParseSubtitlesPosition splits a "horizontal,vertical" position. Anything
// else falls back to center,bottom.
func ParseSubtitlesPosition(position string) (string, string) {
	parts := strings.Split(position, ",")
	if len(parts) != 2 {
		log.Printf("[!] Invalid subtitles_position format %q. Defaulting to center,bottom", position)
		return "center", "bottom"
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

// alignment maps a position onto the ASS numpad layout: 1-3 bottom, 4-6
// middle, 7-9 top, left to right.
func alignment(horizontal, vertical string) int {
	col := 2
	switch strings.ToLower(horizontal) {
	case "left":
		col = 1
	case "right":
		col = 3
	}

	row := 0
	switch strings.ToLower(vertical) {
	case "top":
		row = 6
	case "center", "middle":
		row = 3
	}
	return row + col
}

// assColor converts a CSS color name or #RRGGBB/#RGB into an ASS
// &HAABBGGRR color.
func assColor(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	if c, ok := colornames.Map[name]; ok {
		return fmt.Sprintf("&H00%02X%02X%02X", c.B, c.G, c.R), nil
	}

	hex := strings.TrimPrefix(name, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", fmt.Errorf("unknown color %q", name)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", fmt.Errorf("unknown color %q", name)
	}
	r, g, b := (v>>16)&0xFF, (v>>8)&0xFF, v&0xFF
	return fmt.Sprintf("&H00%02X%02X%02X", b, g, r), nil
}

func assTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := d.Round(10*time.Millisecond).Milliseconds() / 10
	return fmt.Sprintf("%d:%02d:%02d.%02d", cs/360000, (cs/6000)%60, (cs/100)%60, cs%100)
}

// RenderASS builds an ASS script for the cues on a TargetWidth x
// TargetHeight canvas.
func RenderASS(cues []subtitles.Cue, style SubtitleStyle) string {
	color, err := assColor(style.TextColor)
	if err != nil {
		log.Printf("[!] %v. Defaulting to white", err)
		color = "&H00FFFFFF"
	}

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\nPlayResY: %d\n", TargetWidth, TargetHeight)
	b.WriteString("WrapStyle: 0\n\n")

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,%s,&H00000000,&H00000000,-1,0,0,0,100,100,0,0,1,%d,0,%d,40,40,80,1\n\n",
		style.FontName, FontSize, color, color, StrokeWidth, alignment(style.Horizontal, style.Vertical))

	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, c := range cues {
		text := strings.ReplaceAll(c.Text, "\n", `\N`)
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", assTimestamp(c.Start), assTimestamp(c.End), text)
	}

	return b.String()
}

// WriteASS converts the SRT file at srtPath into an ASS file at assPath.
func WriteASS(srtPath, assPath string, style SubtitleStyle) error {
	data, err := os.ReadFile(srtPath)
	if err != nil {
		return fmt.Errorf("reading subtitles: %w", err)
	}
	cues, err := subtitles.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parsing subtitles: %w", err)
	}

	if err := os.WriteFile(assPath, []byte(RenderASS(cues, style)), 0o644); err != nil {
		return fmt.Errorf("writing ass subtitles: %w", err)
	}
	return nil
}
