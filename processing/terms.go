package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
)

var termArray = regexp.MustCompile(`\["(?:[^"\\]|\\.)*"(?:,\s*"[^"\\]*")*\]`)

// ParseSearchTerms decodes a model response into search terms. A response
// that is not a JSON array of strings is searched for the first quoted
// string array inside its outermost brackets. When nothing can be
// recovered the result is empty, never an error.
func ParseSearchTerms(response string) []string {
	if terms, ok := decodeTerms(response); ok {
		return terms
	}

	log.Println("[*] Model returned an unformatted response. Attempting to clean...")

	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start == -1 || end < start {
		log.Println("[-] Could not parse response.")
		return []string{}
	}

	match := termArray.FindString(response[start : end+1])
	if match == "" {
		log.Println("[-] Could not parse response.")
		return []string{}
	}

	terms, ok := decodeTerms(match)
	if !ok {
		log.Println("[-] Could not parse response.")
		return []string{}
	}
	return terms
}

// decodeTerms is the strict stage: a JSON array whose elements are all
// strings. A null element fails it like any other non-string.
func decodeTerms(s string) ([]string, bool) {
	var raw []*string
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &raw); err != nil {
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	terms := make([]string, 0, len(raw))
	for _, term := range raw {
		if term == nil {
			return nil, false
		}
		terms = append(terms, *term)
	}
	return terms, true
}

// SearchTerms asks the model for amount stock-footage search terms for the
// subject, using the script as context.
func (p *Pipeline) SearchTerms(ctx context.Context, subject string, amount int, script, model string) ([]string, error) {
	prompt := fmt.Sprintf(`Generate %d search terms for stock videos,
depending on the subject of a video.
Subject: %s

The search terms are to be returned as
a JSON-Array of strings.

Each search term should consist of 1-3 words,
always add the main subject of the video.

YOU MUST ONLY RETURN THE JSON-ARRAY OF STRINGS.
YOU MUST NOT RETURN ANYTHING ELSE.
YOU MUST NOT RETURN THE SCRIPT.

The search terms must be related to the subject of the video.
Here is an example of a JSON-Array of strings:
["search term 1", "search term 2", "search term 3"]

For context, here is the full text:
%s`, amount, subject, script)

	response, err := p.LLM.Generate(ctx, p.model(model), "", prompt)
	if err != nil {
		return nil, fmt.Errorf("generating search terms: %w", err)
	}

	terms := ParseSearchTerms(response)
	log.Printf("[+] Generated %d search terms: %s", len(terms), strings.Join(terms, ", "))
	return terms, nil
}
