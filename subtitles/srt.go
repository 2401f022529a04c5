// Package subtitles builds SRT subtitle tracks for narration audio, either
// from a transcription service or from per-sentence clip durations.
package subtitles

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Cue is one timed subtitle entry.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Seconds converts fractional seconds to a Duration rounded to the
// millisecond, the resolution of an SRT timestamp.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s*1000)) * time.Millisecond
}

// FormatTimestamp renders d as HH:MM:SS,mmm.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Round(time.Millisecond).Milliseconds()
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	seconds := (ms % 60_000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// Format renders cues as an SRT document. Cues are renumbered from 1.
func Format(cues []Cue) string {
	var b strings.Builder
	for i, c := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", i+1, FormatTimestamp(c.Start), FormatTimestamp(c.End), c.Text)
	}
	return b.String()
}

// Parse reads an SRT document. Blank-line separated blocks are expected to
// carry an index line, a timing line and one or more text lines; a missing
// index line is tolerated.
func Parse(data string) ([]Cue, error) {
	data = strings.TrimPrefix(data, "\ufeff")
	data = strings.ReplaceAll(data, "\r\n", "\n")

	var (
		cues  []Cue
		block []string
	)

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		cue, err := parseBlock(block)
		block = block[:0]
		if err != nil {
			return err
		}
		cues = append(cues, cue)
		return nil
	}

	scanner := bufio.NewScanner(strings.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading srt: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return cues, nil
}

func parseBlock(lines []string) (Cue, error) {
	var cue Cue
	timing := 0
	if !strings.Contains(lines[0], "-->") {
		idx, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return Cue{}, fmt.Errorf("invalid cue index %q", lines[0])
		}
		cue.Index = idx
		timing = 1
	}
	if timing >= len(lines) {
		return Cue{}, fmt.Errorf("cue %d has no timing line", cue.Index)
	}

	parts := strings.SplitN(lines[timing], "-->", 2)
	if len(parts) != 2 {
		return Cue{}, fmt.Errorf("invalid timing line %q", lines[timing])
	}
	start, err := ParseTimestamp(parts[0])
	if err != nil {
		return Cue{}, err
	}
	// Position hints may follow the end timestamp.
	endField := strings.Fields(parts[1])
	if len(endField) == 0 {
		return Cue{}, fmt.Errorf("invalid timing line %q", lines[timing])
	}
	end, err := ParseTimestamp(endField[0])
	if err != nil {
		return Cue{}, err
	}

	cue.Start = start
	cue.End = end
	cue.Text = strings.Join(lines[timing+1:], "\n")
	return cue, nil
}

// ParseTimestamp parses HH:MM:SS,mmm (a dot separator is accepted too).
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.Replace(s, ".", ",", 1))
	var h, m, sec, ms int
	if _, err := fmt.Sscanf(s, "%d:%d:%d,%d", &h, &m, &sec, &ms); err != nil {
		return 0, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
