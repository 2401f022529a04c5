package subtitles

import (
	"fmt"
)

// BuildLocal times each sentence by the duration of its narration clip.
// Cue i starts where the clips before it end and lasts as long as clip i.
// Sentences and durations are paired by position.
func BuildLocal(sentences []string, durations []float64) ([]Cue, error) {
	if len(sentences) != len(durations) {
		return nil, fmt.Errorf("got %d sentences but %d audio clips", len(sentences), len(durations))
	}

	cues := make([]Cue, 0, len(sentences))
	var elapsed float64
	for i, sentence := range sentences {
		if durations[i] < 0 {
			return nil, fmt.Errorf("audio clip %d has negative duration %v", i, durations[i])
		}
		start := elapsed
		elapsed += durations[i]
		cues = append(cues, Cue{
			Index: i + 1,
			Start: Seconds(start),
			End:   Seconds(elapsed),
			Text:  sentence,
		})
	}
	return cues, nil
}
