// Package llm sends prompts to a language model and returns the completion
// text. Requests go to OpenRouter's OpenAI-compatible endpoint unless the
// model is a Gemini model and a Google API key is configured.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when a model answers with no content.
var ErrEmptyResponse = errors.New("language model returned an empty response")

// Generator is the capability the pipeline needs from a language model.
type Generator interface {
	Generate(ctx context.Context, model, system, prompt string) (string, error)
	GenerateJSON(ctx context.Context, model, prompt, name string, schema any) (string, error)
}

// Config selects the backends a Client talks to.
type Config struct {
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	GoogleAPIKey      string
}

// Client implements Generator.
type Client struct {
	openai openai.Client
	gemini *genai.Client
}

// NewClient builds the OpenRouter client and, when a Google key is set, the
// Gemini client. Retries are disabled: a failed request fails the stage.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	c := &Client{
		openai: openai.NewClient(
			option.WithAPIKey(cfg.OpenRouterAPIKey),
			option.WithBaseURL(cfg.OpenRouterBaseURL),
			option.WithMaxRetries(0),
		),
	}

	if cfg.GoogleAPIKey != "" {
		gc, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GoogleAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("creating gemini client: %w", err)
		}
		c.gemini = gc
	}

	return c, nil
}

func (c *Client) useGemini(model string) bool {
	return c.gemini != nil && strings.HasPrefix(model, "gemini")
}

// Generate returns the completion for prompt under the given system prompt.
func (c *Client) Generate(ctx context.Context, model, system, prompt string) (string, error) {
	if c.useGemini(model) {
		return c.generateGemini(ctx, model, system, prompt, "")
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	completion, err := c.openai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(model),
	})
	if err != nil {
		return "", fmt.Errorf("OpenRouter API error: %w", err)
	}
	return firstChoice(completion)
}

// GenerateJSON asks for a completion constrained to schema and returns the
// raw JSON text.
func (c *Client) GenerateJSON(ctx context.Context, model, prompt, name string, schema any) (string, error) {
	if c.useGemini(model) {
		return c.generateGemini(ctx, model, "", prompt, "application/json")
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   name,
		Schema: schema,
		Strict: openai.Bool(true),
	}

	completion, err := c.openai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenRouter API error: %w", err)
	}
	return firstChoice(completion)
}

func firstChoice(completion *openai.ChatCompletion) (string, error) {
	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		log.Printf("[-] Empty completion. Finish reason: %s", completion.Choices[0].FinishReason)
		return "", ErrEmptyResponse
	}
	return content, nil
}

func (c *Client) generateGemini(ctx context.Context, model, system, prompt, mimeType string) (string, error) {
	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if mimeType != "" {
		config.ResponseMIMEType = mimeType
	}

	response, err := c.gemini.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := response.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
