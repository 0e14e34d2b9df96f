package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/edgard/climabot/internal/config"
	"github.com/edgard/climabot/internal/weather"
)

type fakeExtractor struct {
	city  string
	ok    bool
	err   error
	calls int
}

func (f *fakeExtractor) ExtractCity(_ context.Context, _ string) (string, bool, error) {
	f.calls++
	return f.city, f.ok, f.err
}

type fakeFetcher struct {
	reading *weather.Reading
	err     error
	calls   int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (*weather.Reading, error) {
	f.calls++
	return f.reading, f.err
}

type fakeSynthesizer struct {
	text     string
	err      error
	calls    int
	lastQ    string
	lastRead *weather.Reading
}

func (f *fakeSynthesizer) SynthesizeAnswer(_ context.Context, question string, reading *weather.Reading) (string, error) {
	f.calls++
	f.lastQ = question
	f.lastRead = reading
	return f.text, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var limaReading = &weather.Reading{
	City:         "Lima",
	TemperatureC: 22.0,
	FeelsLikeC:   21.0,
	HumidityPct:  60,
	Description:  "cielo claro",
	WindSpeedMS:  3.0,
}

func newTestPipeline(e *fakeExtractor, f *fakeFetcher, s *fakeSynthesizer) *Pipeline {
	return New(e, f, s, config.DefaultMessages, testLogger())
}

func TestAnswerFullRun(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{city: "Lima", ok: true}
	fetcher := &fakeFetcher{reading: limaReading}
	synthesizer := &fakeSynthesizer{text: "En Lima hace 22°C ☀️"}

	result, err := newTestPipeline(extractor, fetcher, synthesizer).Answer(context.Background(), "como esta el clima en Lima")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "En Lima hace 22°C ☀️" {
		t.Errorf("text: got %q", result.Text)
	}
	if result.Outcome != OutcomeAnswered {
		t.Errorf("outcome: got %q", result.Outcome)
	}
	if result.City != "Lima" {
		t.Errorf("city: got %q", result.City)
	}
	if synthesizer.lastQ != "como esta el clima en Lima" {
		t.Errorf("synthesizer got question %q", synthesizer.lastQ)
	}
	if synthesizer.lastRead != limaReading {
		t.Errorf("synthesizer got reading %+v", synthesizer.lastRead)
	}
}

func TestAnswerNoCityShortCircuits(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{ok: false}
	fetcher := &fakeFetcher{reading: limaReading}
	synthesizer := &fakeSynthesizer{text: "unused"}

	result, err := newTestPipeline(extractor, fetcher, synthesizer).Answer(context.Background(), "hola")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != config.DefaultMessages.NoCity {
		t.Errorf("text: got %q, want no-city guidance", result.Text)
	}
	if result.Outcome != OutcomeNoCity {
		t.Errorf("outcome: got %q", result.Outcome)
	}
	if fetcher.calls != 0 {
		t.Errorf("weather client called %d times, want 0", fetcher.calls)
	}
	if synthesizer.calls != 0 {
		t.Errorf("synthesizer called %d times, want 0", synthesizer.calls)
	}
}

func TestAnswerWeatherNotFoundNamesCity(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{city: "Ciudadinexistente", ok: true}
	fetcher := &fakeFetcher{err: weather.ErrNotFound}
	synthesizer := &fakeSynthesizer{text: "unused"}

	result, err := newTestPipeline(extractor, fetcher, synthesizer).Answer(context.Background(), "clima en Ciudadinexistente")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Text, "Ciudadinexistente") {
		t.Errorf("guidance does not name the city: %q", result.Text)
	}
	if result.Outcome != OutcomeNotFound {
		t.Errorf("outcome: got %q", result.Outcome)
	}
	if synthesizer.calls != 0 {
		t.Errorf("synthesizer called %d times, want 0", synthesizer.calls)
	}
}

func TestAnswerStageErrorsPropagate(t *testing.T) {
	t.Parallel()

	upstream := errors.New("upstream down")

	tests := []struct {
		name        string
		extractor   *fakeExtractor
		fetcher     *fakeFetcher
		synthesizer *fakeSynthesizer
	}{
		{
			name:        "extraction failure",
			extractor:   &fakeExtractor{err: upstream},
			fetcher:     &fakeFetcher{},
			synthesizer: &fakeSynthesizer{},
		},
		{
			name:        "weather transport failure",
			extractor:   &fakeExtractor{city: "Lima", ok: true},
			fetcher:     &fakeFetcher{err: fmt.Errorf("weather request failed: %w", upstream)},
			synthesizer: &fakeSynthesizer{},
		},
		{
			name:        "synthesis transport failure",
			extractor:   &fakeExtractor{city: "Lima", ok: true},
			fetcher:     &fakeFetcher{reading: limaReading},
			synthesizer: &fakeSynthesizer{err: upstream},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTestPipeline(tc.extractor, tc.fetcher, tc.synthesizer).Answer(context.Background(), "clima en Lima")
			if !errors.Is(err, upstream) {
				t.Fatalf("expected wrapped upstream error, got %v", err)
			}
		})
	}
}

func TestAnswerIsIdempotent(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(
		&fakeExtractor{city: "Lima", ok: true},
		&fakeFetcher{reading: limaReading},
		&fakeSynthesizer{text: "En Lima hace 22°C ☀️"},
	)

	first, err := p.Answer(context.Background(), "como esta el clima en Lima")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Answer(context.Background(), "como esta el clima en Lima")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("results differ between identical runs: %+v vs %+v", first, second)
	}
}
