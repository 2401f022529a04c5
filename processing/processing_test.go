package processing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vigneshnagarajan93/MoneyPrinter/media"
	"github.com/vigneshnagarajan93/MoneyPrinter/models"
)

const testModel = "openai/gpt-4o-mini"

func TestCleanScript(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"plain", "AI is everywhere.", "AI is everywhere."},
		{"label", "Script: AI is everywhere.", "AI is everywhere."},
		{"quoted label", `"script":   AI is everywhere.`, "AI is everywhere."},
		{"upper case label", "SCRIPT : AI is everywhere.", "AI is everywhere."},
		{"paragraph break", "First paragraph.\n\nSecond paragraph.", "First paragraph."},
		{"bullet list", "Intro line.\n- one\n- two", "Intro line."},
		{"json residue", `AI rocks. ["ai", "tech"]`, "AI rocks."},
		{"code fence", "AI rocks.\n```json\n{}\n```", "AI rocks."},
		{"search terms marker", "AI rocks. Search terms: ai", "AI rocks."},
		{"earliest marker wins", "One video_name two search_term three", "One"},
		{"surrounding whitespace", "  \n AI rocks.  \n", "AI rocks."},
		{"label is not stripped mid-text", "The script: is long", "The script: is long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanScript(tt.in)
			assert.Equal(t, tt.expected, got)
			for _, marker := range scriptEndMarkers {
				assert.NotContains(t, got, marker)
			}
		})
	}
}

func TestParseSearchTerms(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected []string
	}{
		{"strict", `["ai", "tech", "robots"]`, []string{"ai", "tech", "robots"}},
		{"strict with whitespace", "\n [\"ai\"] \n", []string{"ai"}},
		{"empty array", `[]`, []string{}},
		{"prose around array", `Here are terms: ["ai", "tech", "2024"]`, []string{"ai", "tech", "2024"}},
		{"code fence", "```json\n[\"ai news\", \"gen z\"]\n```", []string{"ai news", "gen z"}},
		{"garbage", "I cannot help with that.", []string{}},
		{"null", "null", []string{}},
		{"numbers", "[1, 2, 3]", []string{}},
		{"mixed elements", `["ai", 1]`, []string{}},
		{"null element", `["a", null]`, []string{}},
		{"null element in prose", `Terms: ["a", null]`, []string{}},
		{"object", `{"terms": "ai"}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSearchTerms(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t, []string{"AI is big", "Gen Z loves it", "The end."},
		SplitSentences("AI is big. Gen Z loves it. The end."))
	assert.Equal(t, []string{"One", "Two"}, SplitSentences("One.  Two"))
	assert.Empty(t, SplitSentences(""))
	assert.Empty(t, SplitSentences(" . "))
}

func TestGenerateScript(t *testing.T) {
	gen := &mockLLM{}
	gen.On("Generate", mock.Anything, testModel, scriptSystemPrompt,
		"Explain in 2 paragraph(s) why AI is trending and why Gen Z finds it interesting.").
		Return("Script: AI is big.\n\nSearch terms: [\"ai\"]", nil)

	p := &Pipeline{LLM: gen, DefaultModel: testModel}
	script, err := p.GenerateScript(context.Background(), "AI", 2, "", "")

	require.NoError(t, err)
	assert.Equal(t, "AI is big.", script)
	gen.AssertExpectations(t)
}

func TestGenerateScriptCustomPrompt(t *testing.T) {
	gen := &mockLLM{}
	gen.On("Generate", mock.Anything, "anthropic/claude-3-haiku", scriptSystemPrompt, "Tell me about cats.").
		Return("Cats rule.", nil)

	p := &Pipeline{LLM: gen, DefaultModel: testModel}
	script, err := p.GenerateScript(context.Background(), "AI", 0, "anthropic/claude-3-haiku", "Tell me about cats.")

	require.NoError(t, err)
	assert.Equal(t, "Cats rule.", script)
	gen.AssertExpectations(t)
}

func TestGenerateScriptErrors(t *testing.T) {
	gen := &mockLLM{}
	gen.On("Generate", mock.Anything, testModel, scriptSystemPrompt, mock.Anything).
		Return("", errors.New("connection refused")).Once()
	gen.On("Generate", mock.Anything, testModel, scriptSystemPrompt, mock.Anything).
		Return("[\"only\", \"terms\"]", nil).Once()

	p := &Pipeline{LLM: gen, DefaultModel: testModel}

	_, err := p.GenerateScript(context.Background(), "AI", 1, "", "")
	assert.ErrorContains(t, err, "connection refused")

	_, err = p.GenerateScript(context.Background(), "AI", 1, "", "")
	assert.Error(t, err)
}

func TestSearchTerms(t *testing.T) {
	gen := &mockLLM{}
	gen.On("Generate", mock.Anything, testModel, "", mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Generate 5 search terms") &&
			strings.Contains(prompt, "Subject: AI") &&
			strings.Contains(prompt, "AI is big.")
	})).Return(`Sure! ["ai", "robots"]`, nil)

	p := &Pipeline{LLM: gen, DefaultModel: testModel}
	terms, err := p.SearchTerms(context.Background(), "AI", 5, "AI is big.", "")

	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "robots"}, terms)
	gen.AssertExpectations(t)
}

func TestSearchTermsTransportError(t *testing.T) {
	gen := &mockLLM{}
	gen.On("Generate", mock.Anything, testModel, "", mock.Anything).Return("", errors.New("timeout"))

	p := &Pipeline{LLM: gen, DefaultModel: testModel}
	_, err := p.SearchTerms(context.Background(), "AI", 5, "script", "")
	assert.ErrorContains(t, err, "timeout")
}

func TestGenerateMetadata(t *testing.T) {
	gen := &mockLLM{}
	gen.On("GenerateJSON", mock.Anything, testModel, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "YouTube shorts video about AI")
	}), "video_metadata", mock.Anything).
		Return(`{"title":"  Why AI Wins  ","description":"A short on AI."}`, nil)
	gen.On("Generate", mock.Anything, testModel, "", mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Generate 6 search terms")
	})).Return(`["ai", "future", "robots", "tech", "gen z", "trends"]`, nil)

	p := &Pipeline{LLM: gen, DefaultModel: testModel}
	meta, err := p.GenerateMetadata(context.Background(), "AI", "AI is big.", "")

	require.NoError(t, err)
	assert.Equal(t, "Why AI Wins", meta.Title)
	assert.Equal(t, "A short on AI.", meta.Description)
	assert.Len(t, meta.Keywords, 6)
	gen.AssertExpectations(t)
}

func TestGenerateMetadataErrors(t *testing.T) {
	tests := map[string]string{
		"empty title":  `{"title":"","description":"d"}`,
		"invalid json": `title: nope`,
	}
	for name, response := range tests {
		t.Run(name, func(t *testing.T) {
			gen := &mockLLM{}
			gen.On("GenerateJSON", mock.Anything, testModel, mock.Anything, "video_metadata", mock.Anything).
				Return(response, nil)

			p := &Pipeline{LLM: gen, DefaultModel: testModel}
			_, err := p.GenerateMetadata(context.Background(), "AI", "script", "")
			assert.Error(t, err)
			gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema[MetadataResponse]()
	require.NotNil(t, schema)
	assert.NotNil(t, metadataResponseSchema)
}

func TestFindFootage(t *testing.T) {
	gen := &mockLLM{}
	gen.On("Generate", mock.Anything, testModel, "", mock.Anything).
		Return(`["ai", "robots", "future"]`, nil)

	footage := &mockFootage{}
	footage.On("Search", mock.Anything, "ai", 15, 10.0).Return([]string{"u1", "u2"}, nil)
	footage.On("Search", mock.Anything, "robots", 15, 10.0).Return([]string{"u1", "u3"}, nil)
	footage.On("Search", mock.Anything, "future", 15, 10.0).Return(nil, errors.New("rate limited"))
	footage.On("Save", mock.Anything, "u1", "temp").Return("temp/1.mp4", nil)
	footage.On("Save", mock.Anything, "u3", "temp").Return("temp/3.mp4", nil)

	p := &Pipeline{LLM: gen, Footage: footage, TempDir: "temp", DefaultModel: testModel}
	v := &models.Video{ID: 9, Subject: "AI", Script: "AI is big."}

	require.NoError(t, p.FindFootage(context.Background(), v))

	assert.Equal(t, []string{"ai", "robots", "future"}, v.SearchTerms)
	require.Len(t, v.Clips, 2)
	assert.Equal(t, models.VideoClip{VideoID: 9, Position: 0, SearchTerm: "ai", SourceURL: "u1", Path: "temp/1.mp4"}, v.Clips[0])
	assert.Equal(t, models.VideoClip{VideoID: 9, Position: 1, SearchTerm: "robots", SourceURL: "u3", Path: "temp/3.mp4"}, v.Clips[1])
	assert.Equal(t, []string{"temp/1.mp4", "temp/3.mp4"}, v.ClipPaths())
	footage.AssertExpectations(t)
}

func TestFindFootageNothingFound(t *testing.T) {
	gen := &mockLLM{}
	gen.On("Generate", mock.Anything, testModel, "", mock.Anything).Return(`["ai"]`, nil)

	footage := &mockFootage{}
	footage.On("Search", mock.Anything, "ai", 15, 10.0).Return([]string{}, nil)

	p := &Pipeline{LLM: gen, Footage: footage, TempDir: "temp", DefaultModel: testModel}
	err := p.FindFootage(context.Background(), &models.Video{Subject: "AI", Script: "AI is big."})

	assert.Error(t, err)
	footage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestFindFootageRequiresScript(t *testing.T) {
	p := &Pipeline{}
	assert.Error(t, p.FindFootage(context.Background(), &models.Video{Subject: "AI"}))
}

func TestNarrate(t *testing.T) {
	speaker := &mockSpeaker{}
	speaker.On("Speak", mock.Anything, "AI is big", "nova", mock.AnythingOfType("string")).Return(nil)
	speaker.On("Speak", mock.Anything, "Gen Z loves it.", "nova", mock.AnythingOfType("string")).Return(nil)

	var spoken []string
	renderer := &mockRenderer{}
	renderer.On("Probe", mock.Anything, mock.AnythingOfType("string")).Return(1.5, nil).Once().
		Run(func(args mock.Arguments) { spoken = append(spoken, args.String(1)) })
	renderer.On("Probe", mock.Anything, mock.AnythingOfType("string")).Return(2.25, nil).Once().
		Run(func(args mock.Arguments) { spoken = append(spoken, args.String(1)) })
	renderer.On("ConcatAudio", mock.Anything, mock.Anything, mock.AnythingOfType("string")).Return(nil)

	subs := &mockSubtitles{}
	subs.On("Generate", mock.Anything, mock.AnythingOfType("string"),
		[]string{"AI is big", "Gen Z loves it."}, []float64{1.5, 2.25}, "jp").
		Return("subtitles/x.srt", nil)

	p := &Pipeline{Speaker: speaker, Renderer: renderer, Subtitles: subs, TempDir: "temp"}
	v := &models.Video{Script: "AI is big. Gen Z loves it.", Voice: "nova", Language: "jp"}

	require.NoError(t, p.Narrate(context.Background(), v))

	assert.Equal(t, "subtitles/x.srt", v.SubtitlesPath)
	assert.Equal(t, "temp", filepath.Dir(v.NarrationPath))
	require.Len(t, spoken, 2)
	renderer.AssertCalled(t, "ConcatAudio", mock.Anything, spoken, v.NarrationPath)
	speaker.AssertExpectations(t)
	subs.AssertExpectations(t)
}

func TestNarrateStopsOnSpeechError(t *testing.T) {
	speaker := &mockSpeaker{}
	speaker.On("Speak", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("quota"))

	renderer := &mockRenderer{}
	p := &Pipeline{Speaker: speaker, Renderer: renderer, TempDir: "temp"}

	err := p.Narrate(context.Background(), &models.Video{Script: "One. Two."})
	assert.ErrorContains(t, err, "quota")
	renderer.AssertNotCalled(t, "ConcatAudio", mock.Anything, mock.Anything, mock.Anything)
}

func TestRender(t *testing.T) {
	renderer := &mockRenderer{}
	renderer.On("Probe", mock.Anything, "narration.mp3").Return(12.5, nil)
	renderer.On("CombineVideos", mock.Anything, []string{"a.mp4", "b.mp4"}, 12.5, 5.0, 2).Return("combined.mp4", nil)
	renderer.On("GenerateVideo", mock.Anything, media.ComposeOptions{
		CombinedPath:      "combined.mp4",
		AudioPath:         "narration.mp3",
		SubtitlesPath:     "subs.srt",
		Threads:           2,
		SubtitlesPosition: "center,top",
		TextColor:         "white",
		OutputPath:        "temp/video_3.mp4",
	}).Return("temp/video_3.mp4", nil)

	p := &Pipeline{Renderer: renderer, Threads: 2, MaxClipDuration: 5}
	v := &models.Video{
		ID:                3,
		NarrationPath:     "narration.mp3",
		SubtitlesPath:     "subs.srt",
		SubtitlesPosition: "center,top",
		TextColor:         "white",
		Clips: []models.VideoClip{
			{Position: 1, Path: "b.mp4"},
			{Position: 0, Path: "a.mp4"},
		},
	}

	require.NoError(t, p.Render(context.Background(), v, "temp/video_3.mp4"))
	assert.Equal(t, "combined.mp4", v.CombinedPath)
	assert.Equal(t, "temp/video_3.mp4", v.OutputPath)
	renderer.AssertExpectations(t)
}

func TestRenderPropagatesNoClips(t *testing.T) {
	renderer := &mockRenderer{}
	renderer.On("Probe", mock.Anything, "n.mp3").Return(3.0, nil)
	renderer.On("CombineVideos", mock.Anything, []string{}, 3.0, 5.0, 0).Return("", media.ErrNoClips)

	p := &Pipeline{Renderer: renderer, MaxClipDuration: 5}
	err := p.Render(context.Background(), &models.Video{NarrationPath: "n.mp3"}, "")
	assert.True(t, errors.Is(err, media.ErrNoClips))
}

func TestDescribe(t *testing.T) {
	gen := &mockLLM{}
	gen.On("GenerateJSON", mock.Anything, testModel, mock.Anything, "video_metadata", mock.Anything).
		Return(`{"title":"T","description":"D"}`, nil)
	gen.On("Generate", mock.Anything, testModel, "", mock.Anything).Return(`["k1","k2"]`, nil)

	p := &Pipeline{LLM: gen, DefaultModel: testModel}
	v := &models.Video{Subject: "AI", Script: "AI is big."}
	require.NoError(t, p.Describe(context.Background(), v))

	assert.Equal(t, "T", v.Title)
	assert.Equal(t, "D", v.Description)
	assert.Equal(t, []string{"k1", "k2"}, v.Keywords)
}

func TestRunStopsAtFailingStage(t *testing.T) {
	gen := &mockLLM{}
	gen.On("Generate", mock.Anything, testModel, scriptSystemPrompt, mock.Anything).Return("AI is big.", nil)
	gen.On("Generate", mock.Anything, testModel, "", mock.Anything).Return(`["ai"]`, nil)

	footage := &mockFootage{}
	footage.On("Search", mock.Anything, "ai", 15, 10.0).Return([]string{}, nil)

	speaker := &mockSpeaker{}
	p := &Pipeline{LLM: gen, Footage: footage, Speaker: speaker, TempDir: "temp", DefaultModel: testModel}
	v := &models.Video{Subject: "AI", ParagraphNumber: 1}

	err := p.Run(context.Background(), v, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "footage stage")
	assert.Equal(t, "AI is big.", v.Script)
	speaker.AssertNotCalled(t, "Speak", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestVideoDefaults(t *testing.T) {
	v := Request{Subject: "  AI  "}.Video(4)

	assert.Equal(t, uint(4), v.UserID)
	assert.Equal(t, "AI", v.Subject)
	assert.Equal(t, DefaultParagraphs, v.ParagraphNumber)
	assert.Equal(t, DefaultLanguage, v.Language)
	assert.Equal(t, DefaultSubtitlesPosition, v.SubtitlesPosition)
	assert.Equal(t, DefaultTextColor, v.TextColor)
	assert.Equal(t, models.StatusPending, v.Status)

	v = Request{Subject: "AI", ParagraphNumber: 3, Language: "de", TextColor: "white"}.Video(0)
	assert.Equal(t, 3, v.ParagraphNumber)
	assert.Equal(t, "de", v.Language)
	assert.Equal(t, "white", v.TextColor)
}

func TestLoadRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
subject: Black holes
paragraph_number: 2
ai_model: gemini-2.5-flash
voice: onyx
subtitles_position: left,top
`), 0o644))

	r, err := LoadRequest(path)
	require.NoError(t, err)
	assert.Equal(t, Request{
		Subject:           "Black holes",
		ParagraphNumber:   2,
		AIModel:           "gemini-2.5-flash",
		Voice:             "onyx",
		SubtitlesPosition: "left,top",
	}, r)

	_, err = LoadRequest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
