// Package groq implements the Groq chat-completion client used by both
// pipeline LLM stages: city extraction and answer synthesis. Groq speaks the
// OpenAI wire format, so the client is built on go-openai with a custom base URL.
package groq

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/edgard/climabot/internal/config"
	"github.com/edgard/climabot/internal/weather"
)

// Client wraps the Groq chat-completions API. It is safe for concurrent use
// by simultaneous pipeline runs.
type Client struct {
	api                *openai.Client
	log                *slog.Logger
	model              string
	extractTemperature float32
	extractMaxTokens   int
	replyTemperature   float32
	replyMaxTokens     int
	replyFallback      string
	timeout            time.Duration
}

// NewClient creates a Groq client from the provided configuration. The
// fallback string is returned by SynthesizeAnswer when the completion comes
// back well-formed but empty.
func NewClient(cfg config.GroqConfig, fallback string, log *slog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:                openai.NewClientWithConfig(apiCfg),
		log:                log.With("component", "groq_client"),
		model:              cfg.Model,
		extractTemperature: cfg.ExtractTemperature,
		extractMaxTokens:   cfg.ExtractMaxTokens,
		replyTemperature:   cfg.ReplyTemperature,
		replyMaxTokens:     cfg.ReplyMaxTokens,
		replyFallback:      fallback,
		timeout:            cfg.Timeout,
	}
}

// ExtractCity asks the model to pull a city name out of a free-form weather
// question. It returns ok=false when the question mentions no city. A transport
// failure or a malformed completion is returned as an error; no retries.
func (c *Client) ExtractCity(ctx context.Context, question string) (string, bool, error) {
	content, err := c.complete(ctx, fmt.Sprintf(extractCityPrompt, question), c.extractTemperature, c.extractMaxTokens)
	if err != nil {
		return "", false, fmt.Errorf("city extraction failed: %w", err)
	}

	city := strings.TrimSpace(content)
	if city == "" || city == noCitySentinel {
		c.log.DebugContext(ctx, "No city identified in question")
		return "", false, nil
	}

	c.log.DebugContext(ctx, "Extracted city from question", "city", city)
	return city, true, nil
}

// SynthesizeAnswer asks the model to phrase a conversational answer grounded
// on the retrieved weather reading. Transport failures propagate; a completion
// with no usable text degrades to the fixed fallback string instead, so a
// successfully fetched reading is never discarded over a phrasing glitch.
func (c *Client) SynthesizeAnswer(ctx context.Context, question string, reading *weather.Reading) (string, error) {
	prompt := fmt.Sprintf(synthesizePrompt, question, FormatReading(reading))

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: c.replyTemperature,
		MaxTokens:   c.replyMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("answer synthesis failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.log.WarnContext(ctx, "Empty synthesis completion, using fallback reply")
		return c.replyFallback, nil
	}

	return resp.Choices[0].Message.Content, nil
}

// complete runs one single-turn completion and returns the first choice's
// raw content.
func (c *Client) complete(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
