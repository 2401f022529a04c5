package subtitles

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Equalize splits every cue whose text is longer than maxChars into
// consecutive cues of at most maxChars characters (a single word longer
// than maxChars stays whole). Words are packed greedily and the original
// time span is divided in proportion to each chunk's length.
func Equalize(cues []Cue, maxChars int) []Cue {
	out := make([]Cue, 0, len(cues))
	for _, c := range cues {
		out = append(out, splitCue(c, maxChars)...)
	}
	for i := range out {
		out[i].Index = i + 1
	}
	return out
}

func splitCue(c Cue, maxChars int) []Cue {
	if maxChars <= 0 || len([]rune(c.Text)) <= maxChars {
		return []Cue{c}
	}

	chunks := packWords(strings.Fields(c.Text), maxChars)
	if len(chunks) <= 1 {
		return []Cue{c}
	}

	total := 0
	for _, chunk := range chunks {
		total += len([]rune(chunk))
	}

	span := c.End - c.Start
	split := make([]Cue, 0, len(chunks))
	start := c.Start
	for i, chunk := range chunks {
		end := start + time.Duration(float64(span)*float64(len([]rune(chunk)))/float64(total))
		end = end.Round(time.Millisecond)
		if i == len(chunks)-1 {
			end = c.End
		}
		split = append(split, Cue{Start: start, End: end, Text: chunk})
		start = end
	}
	return split
}

func packWords(words []string, maxChars int) []string {
	var (
		chunks  []string
		current []string
		length  int
	)
	for _, w := range words {
		wl := len([]rune(w))
		if len(current) > 0 && length+1+wl > maxChars {
			chunks = append(chunks, strings.Join(current, " "))
			current, length = nil, 0
		}
		if len(current) > 0 {
			length++
		}
		current = append(current, w)
		length += wl
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// EqualizeFile rewrites the SRT file at path in place with Equalize.
func EqualizeFile(path string, maxChars int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading subtitles: %w", err)
	}
	cues, err := Parse(string(data))
	if err != nil {
		return fmt.Errorf("parsing subtitles: %w", err)
	}
	if err := os.WriteFile(path, []byte(Format(Equalize(cues, maxChars))), 0o644); err != nil {
		return fmt.Errorf("writing subtitles: %w", err)
	}
	return nil
}
