package discord

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/edgard/climabot/internal/config"
	"github.com/edgard/climabot/internal/database"
	"github.com/edgard/climabot/internal/pipeline"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []string
	typings int
}

func (f *fakeSender) ChannelMessageSend(_ string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, content)
	return &discordgo.Message{Content: content}, nil
}

func (f *fakeSender) ChannelTyping(_ string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typings++
	return nil
}

type fakeAnswerer struct {
	mu        sync.Mutex
	result    pipeline.Result
	err       error
	calls     int
	questions []string
}

func (f *fakeAnswerer) Answer(_ context.Context, question string) (pipeline.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.questions = append(f.questions, question)
	return f.result, f.err
}

type fakeStore struct {
	mu    sync.Mutex
	saved []*database.Query
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) SaveQuery(_ context.Context, q *database.Query) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, q)
	return nil
}

func (f *fakeStore) CountQueriesSince(context.Context, time.Time) (int, error) { return 0, nil }
func (f *fakeStore) PruneQueries(context.Context, time.Time) (int64, error)   { return 0, nil }
func (f *fakeStore) RunMaintenance(context.Context) error                     { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Discord: config.DiscordConfig{
			Trigger:        "!clima",
			ProcessTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{OperationTimeout: time.Second},
		Messages: config.DefaultMessages,
	}
}

func newTestDispatcher(answerer Answerer, store database.Store) *Dispatcher {
	return NewDispatcher(DispatcherDeps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:   testConfig(),
		Answerer: answerer,
		Store:    store,
	})
}

func TestQualifies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  InboundMessage
		want bool
	}{
		{
			name: "trigger message from user",
			msg:  InboundMessage{Content: "!clima como esta el clima en Lima"},
			want: true,
		},
		{
			name: "bare trigger",
			msg:  InboundMessage{Content: "!clima"},
			want: true,
		},
		{
			name: "bot author is never dispatched",
			msg:  InboundMessage{AuthorIsBot: true, Content: "!clima como esta el clima en Lima"},
			want: false,
		},
		{
			name: "missing trigger prefix",
			msg:  InboundMessage{Content: "hola clima"},
			want: false,
		},
		{
			name: "trigger not at start",
			msg:  InboundMessage{Content: "dime !clima en Lima"},
			want: false,
		},
	}

	d := newTestDispatcher(&fakeAnswerer{}, nil)
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := d.Qualifies(tc.msg); got != tc.want {
				t.Fatalf("Qualifies: got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDispatchSendsPipelineAnswer(t *testing.T) {
	t.Parallel()

	answerer := &fakeAnswerer{result: pipeline.Result{
		Text:    "En Lima hace 22°C ☀️",
		Outcome: pipeline.OutcomeAnswered,
		City:    "Lima",
	}}
	store := &fakeStore{}
	sender := &fakeSender{}

	d := newTestDispatcher(answerer, store)
	d.Dispatch(context.Background(), sender, InboundMessage{
		ChannelID: "chan-1",
		AuthorID:  "user-1",
		Content:   "!clima como esta el clima en Lima",
	})

	if len(answerer.questions) != 1 || answerer.questions[0] != "como esta el clima en Lima" {
		t.Fatalf("pipeline received questions %v, want stripped and trimmed question", answerer.questions)
	}
	if sender.typings != 1 {
		t.Errorf("typing indicator sent %d times, want 1", sender.typings)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "En Lima hace 22°C ☀️" {
		t.Fatalf("sent messages %v, want the pipeline answer", sender.sent)
	}

	if len(store.saved) != 1 {
		t.Fatalf("saved %d query records, want 1", len(store.saved))
	}
	record := store.saved[0]
	if record.Outcome != string(pipeline.OutcomeAnswered) || record.City != "Lima" || record.Question != "como esta el clima en Lima" {
		t.Fatalf("unexpected query record: %+v", record)
	}
}

func TestDispatchUpstreamFailureSendsApology(t *testing.T) {
	t.Parallel()

	answerer := &fakeAnswerer{err: errors.New("groq unreachable")}
	store := &fakeStore{}
	sender := &fakeSender{}

	d := newTestDispatcher(answerer, store)
	d.Dispatch(context.Background(), sender, InboundMessage{
		ChannelID: "chan-1",
		AuthorID:  "user-1",
		Content:   "!clima clima en Lima",
	})

	if len(sender.sent) != 1 || sender.sent[0] != config.DefaultMessages.GeneralError {
		t.Fatalf("sent messages %v, want the generic apology", sender.sent)
	}
	if len(store.saved) != 1 || store.saved[0].Outcome != string(pipeline.OutcomeError) {
		t.Fatalf("expected one error-outcome record, got %+v", store.saved)
	}
}

func TestDispatchGuidanceOutcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		result  pipeline.Result
	}{
		{
			name:    "no city guidance",
			content: "!clima hola",
			result:  pipeline.Result{Text: config.DefaultMessages.NoCity, Outcome: pipeline.OutcomeNoCity},
		},
		{
			name:    "weather not found guidance",
			content: "!clima clima en Ciudadinexistente",
			result: pipeline.Result{
				Text:    "❌ No pude encontrar información del clima para: Ciudadinexistente",
				Outcome: pipeline.OutcomeNotFound,
				City:    "Ciudadinexistente",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := &fakeStore{}
			sender := &fakeSender{}
			d := newTestDispatcher(&fakeAnswerer{result: tc.result}, store)

			d.Dispatch(context.Background(), sender, InboundMessage{ChannelID: "chan-1", Content: tc.content})

			if len(sender.sent) != 1 || sender.sent[0] != tc.result.Text {
				t.Fatalf("sent messages %v, want guidance text", sender.sent)
			}
			if len(store.saved) != 1 || store.saved[0].Outcome != string(tc.result.Outcome) {
				t.Fatalf("expected one %s record, got %+v", tc.result.Outcome, store.saved)
			}
		})
	}
}

func TestDispatchWithoutStore(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	d := newTestDispatcher(&fakeAnswerer{result: pipeline.Result{Text: "ok", Outcome: pipeline.OutcomeAnswered}}, nil)

	d.Dispatch(context.Background(), sender, InboundMessage{ChannelID: "chan-1", Content: "!clima clima en Lima"})

	if len(sender.sent) != 1 {
		t.Fatalf("sent messages %v, want exactly one", sender.sent)
	}
}
