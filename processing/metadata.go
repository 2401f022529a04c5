package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// MetadataResponse is the structured answer for a video's upload metadata.
type MetadataResponse struct {
	Title       string `json:"title" jsonschema_description:"A catchy and SEO-friendly title for the YouTube shorts video"`
	Description string `json:"description" jsonschema_description:"A brief and engaging description of the video"`
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var metadataResponseSchema = GenerateSchema[MetadataResponse]()

// Metadata is what gets published alongside a rendered video.
type Metadata struct {
	Title       string
	Description string
	Keywords    []string
}

// GenerateMetadata writes the title and description for a video in one
// structured completion and derives six keywords with the search-term
// extractor.
func (p *Pipeline) GenerateMetadata(ctx context.Context, subject, script, model string) (Metadata, error) {
	prompt := fmt.Sprintf(`Generate a catchy and SEO-friendly title for a YouTube shorts video about %s,
and write a brief and engaging description for it.

The video is based on the following script:
%s

Respond in JSON format with this structure:
{
  "title": "your generated title here",
  "description": "your generated description here"
}`, subject, script)

	resp, err := getStructuredResponse[MetadataResponse](ctx, p, model, prompt, "video_metadata", metadataResponseSchema)
	if err != nil {
		return Metadata{}, fmt.Errorf("generating metadata: %w", err)
	}

	title := strings.TrimSpace(resp.Title)
	if title == "" {
		return Metadata{}, fmt.Errorf("generating metadata: model returned an empty title")
	}

	keywords, err := p.SearchTerms(ctx, subject, 6, script, model)
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{
		Title:       title,
		Description: strings.TrimSpace(resp.Description),
		Keywords:    keywords,
	}, nil
}

// getStructuredResponse runs a schema-constrained completion and decodes it
// into T.
func getStructuredResponse[T any](ctx context.Context, p *Pipeline, model, prompt, name string, schema interface{}) (*T, error) {
	raw, err := p.LLM.GenerateJSON(ctx, p.model(model), prompt, name, schema)
	if err != nil {
		return nil, err
	}

	var structured T
	if err := json.Unmarshal([]byte(raw), &structured); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w\nRaw content: %s", err, raw)
	}
	return &structured, nil
}
