package processing

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vigneshnagarajan93/MoneyPrinter/media"
)

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Generate(ctx context.Context, model, system, prompt string) (string, error) {
	args := m.Called(ctx, model, system, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockLLM) GenerateJSON(ctx context.Context, model, prompt, name string, schema any) (string, error) {
	args := m.Called(ctx, model, prompt, name, schema)
	return args.String(0), args.Error(1)
}

type mockFootage struct {
	mock.Mock
}

func (m *mockFootage) Search(ctx context.Context, query string, perPage int, minDuration float64) ([]string, error) {
	args := m.Called(ctx, query, perPage, minDuration)
	links, _ := args.Get(0).([]string)
	return links, args.Error(1)
}

func (m *mockFootage) Save(ctx context.Context, url, dir string) (string, error) {
	args := m.Called(ctx, url, dir)
	return args.String(0), args.Error(1)
}

type mockSpeaker struct {
	mock.Mock
}

func (m *mockSpeaker) Speak(ctx context.Context, text, voice, path string) error {
	return m.Called(ctx, text, voice, path).Error(0)
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Probe(ctx context.Context, path string) (float64, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockRenderer) ConcatAudio(ctx context.Context, paths []string, out string) error {
	return m.Called(ctx, paths, out).Error(0)
}

func (m *mockRenderer) CombineVideos(ctx context.Context, paths []string, maxDuration, maxClip float64, threads int) (string, error) {
	args := m.Called(ctx, paths, maxDuration, maxClip, threads)
	return args.String(0), args.Error(1)
}

func (m *mockRenderer) GenerateVideo(ctx context.Context, opts media.ComposeOptions) (string, error) {
	args := m.Called(ctx, opts)
	return args.String(0), args.Error(1)
}

type mockSubtitles struct {
	mock.Mock
}

func (m *mockSubtitles) Generate(ctx context.Context, audioPath string, sentences []string, durations []float64, voice string) (string, error) {
	args := m.Called(ctx, audioPath, sentences, durations, voice)
	return args.String(0), args.Error(1)
}
