// Package pipeline sequences the three query stages: city extraction, weather
// retrieval and answer synthesis.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edgard/climabot/internal/config"
	"github.com/edgard/climabot/internal/weather"
)

// Outcome classifies how a pipeline run terminated.
type Outcome string

const (
	OutcomeAnswered Outcome = "answered"  // full run, synthesized reply produced
	OutcomeNoCity   Outcome = "no_city"   // extractor found no city in the question
	OutcomeNotFound Outcome = "not_found" // provider had no data for the extracted city
	OutcomeError    Outcome = "error"     // set by the dispatcher on upstream failure
)

// Result is the terminal state of one pipeline run. Text is always the reply
// to send; the two guidance outcomes are normal terminations, not errors.
type Result struct {
	Text    string
	Outcome Outcome
	City    string
}

// CityExtractor pulls a city name out of a free-form weather question.
// ok=false means the question mentions no city.
type CityExtractor interface {
	ExtractCity(ctx context.Context, question string) (city string, ok bool, err error)
}

// WeatherFetcher retrieves a current-weather reading for a city, returning
// weather.ErrNotFound when the provider has no data for it.
type WeatherFetcher interface {
	Fetch(ctx context.Context, city string) (*weather.Reading, error)
}

// AnswerSynthesizer phrases a conversational answer from the question and the
// retrieved reading.
type AnswerSynthesizer interface {
	SynthesizeAnswer(ctx context.Context, question string, reading *weather.Reading) (string, error)
}

// Pipeline answers a single weather question per invocation. Invocations are
// independent and may run concurrently; there is no state shared between runs.
type Pipeline struct {
	extractor   CityExtractor
	fetcher     WeatherFetcher
	synthesizer AnswerSynthesizer
	messages    config.MessagesConfig
	log         *slog.Logger
}

// New creates a pipeline with the given collaborators.
func New(extractor CityExtractor, fetcher WeatherFetcher, synthesizer AnswerSynthesizer, messages config.MessagesConfig, log *slog.Logger) *Pipeline {
	return &Pipeline{
		extractor:   extractor,
		fetcher:     fetcher,
		synthesizer: synthesizer,
		messages:    messages,
		log:         log.With("component", "pipeline"),
	}
}

// Answer runs the full extract -> fetch -> synthesize sequence for one
// question. The stages are strictly sequential and fail fast: any upstream
// error propagates to the caller without user-facing formatting, retry or
// backoff. The two "not found" outcomes terminate the run normally with
// guidance text instead.
func (p *Pipeline) Answer(ctx context.Context, question string) (Result, error) {
	city, ok, err := p.extractor.ExtractCity(ctx, question)
	if err != nil {
		return Result{}, fmt.Errorf("extraction stage: %w", err)
	}
	if !ok {
		p.log.InfoContext(ctx, "Question mentions no city, answering with guidance")
		return Result{Text: p.messages.NoCity, Outcome: OutcomeNoCity}, nil
	}

	reading, err := p.fetcher.Fetch(ctx, city)
	if err != nil {
		if errors.Is(err, weather.ErrNotFound) {
			p.log.InfoContext(ctx, "No weather data for city, answering with guidance", "city", city)
			return Result{
				Text:    fmt.Sprintf(p.messages.WeatherNotFound, city),
				Outcome: OutcomeNotFound,
				City:    city,
			}, nil
		}
		return Result{City: city}, fmt.Errorf("weather stage: %w", err)
	}

	text, err := p.synthesizer.SynthesizeAnswer(ctx, question, reading)
	if err != nil {
		return Result{City: city}, fmt.Errorf("synthesis stage: %w", err)
	}

	return Result{Text: text, Outcome: OutcomeAnswered, City: city}, nil
}
