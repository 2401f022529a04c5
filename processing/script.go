// Package processing turns a video request into the artifacts of a finished
// short: script, search terms, stock clips, narration, subtitles, render and
// upload metadata.
package processing

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
)

const scriptSystemPrompt = "You are a helpful assistant who generates engaging and informative scripts for short-form videos."

var scriptLabel = regexp.MustCompile(`(?i)^["']?script["']?\s*:\s*`)

// Everything from the first of these on is list or JSON residue, not
// narration.
var scriptEndMarkers = []string{"\n\n", "\n- ", "[", "```", "Search terms", "search_term", "video_name"}

// CleanScript strips a leading "script:" label and cuts the text at the
// earliest end marker.
func CleanScript(raw string) string {
	cleaned := strings.TrimSpace(scriptLabel.ReplaceAllString(strings.TrimSpace(raw), ""))

	end := len(cleaned)
	for _, marker := range scriptEndMarkers {
		if idx := strings.Index(cleaned, marker); idx != -1 && idx < end {
			end = idx
		}
	}

	return strings.TrimSpace(cleaned[:end])
}

// GenerateScript asks the model for a narration script and cleans it.
func (p *Pipeline) GenerateScript(ctx context.Context, subject string, paragraphs int, model, customPrompt string) (string, error) {
	if paragraphs <= 0 {
		paragraphs = 1
	}

	prompt := customPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = fmt.Sprintf("Explain in %d paragraph(s) why %s is trending and why Gen Z finds it interesting.", paragraphs, subject)
	}

	response, err := p.LLM.Generate(ctx, p.model(model), scriptSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("generating script: %w", err)
	}

	script := CleanScript(response)
	if script == "" {
		return "", fmt.Errorf("generating script: nothing left after cleaning the response")
	}

	log.Printf("[+] Script generated (%d characters)", len(script))
	return script, nil
}

// SplitSentences splits a script into the sentences that are narrated one
// by one. Empty sentences are dropped.
func SplitSentences(script string) []string {
	var sentences []string
	for _, s := range strings.Split(script, ". ") {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
