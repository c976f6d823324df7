package logging_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"castle-defenders/server/logging"
	"castle-defenders/server/logging/sinks"
)

func closeRouter(t *testing.T, r *logging.Router) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.Close(ctx); err != nil {
		t.Fatalf("close router: %v", err)
	}
}

func TestRouterFansOutToAllSinks(t *testing.T) {
	first := sinks.NewMemorySink()
	second := sinks.NewMemorySink()
	router := logging.NewRouter(nil, logging.Config{BufferSize: 16}, []logging.NamedSink{
		{Name: "first", Sink: first},
		{Name: "second", Sink: second},
	})

	router.Publish(context.Background(), logging.Event{
		Type:     "enemy_killed",
		Tick:     3,
		Category: logging.CategoryCombat,
		Actor:    logging.EntityRef{ID: "tower-1", Kind: logging.EntityKindTower},
	})
	router.Publish(context.Background(), logging.Event{
		Type:     "gold_earned",
		Tick:     4,
		Category: logging.CategoryEconomy,
		Actor:    logging.EntityRef{ID: "p1", Kind: logging.EntityKindPlayer},
	})
	closeRouter(t, router)

	for name, sink := range map[string]*sinks.MemorySink{"first": first, "second": second} {
		events := sink.Events()
		if len(events) != 2 {
			t.Fatalf("sink %s received %d events, want 2", name, len(events))
		}
		if events[0].Type != "enemy_killed" || events[1].Type != "gold_earned" {
			t.Fatalf("sink %s received events out of order: %q, %q", name, events[0].Type, events[1].Type)
		}
	}
	if stats := router.Stats(); stats.EventsTotal != 2 || stats.DroppedTotal != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestRouterFiltersBelowMinimumSeverity(t *testing.T) {
	sink := sinks.NewMemorySink()
	router := logging.NewRouter(nil, logging.Config{
		BufferSize:      16,
		MinimumSeverity: logging.SeverityWarn,
	}, []logging.NamedSink{{Name: "memory", Sink: sink}})

	router.Publish(context.Background(), logging.Event{Type: "debug_noise", Severity: logging.SeverityDebug})
	router.Publish(context.Background(), logging.Event{Type: "tick_panic", Severity: logging.SeverityError})
	closeRouter(t, router)

	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event past the filter, got %d", len(events))
	}
	if events[0].Type != "tick_panic" {
		t.Fatalf("wrong event survived the filter: %q", events[0].Type)
	}
}

func TestRouterStampsMissingTime(t *testing.T) {
	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sink := sinks.NewMemorySink()
	router := logging.NewRouter(logging.ClockFunc(func() time.Time { return stamp }), logging.Config{BufferSize: 4}, []logging.NamedSink{
		{Name: "memory", Sink: sink},
	})

	router.Publish(context.Background(), logging.Event{Type: "wave_started"})
	closeRouter(t, router)

	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !events[0].Time.Equal(stamp) {
		t.Fatalf("event time = %v, want %v", events[0].Time, stamp)
	}
}

func TestRouterIgnoresEmptyTypeAndClosedPublish(t *testing.T) {
	sink := sinks.NewMemorySink()
	router := logging.NewRouter(nil, logging.Config{BufferSize: 4}, []logging.NamedSink{
		{Name: "memory", Sink: sink},
	})

	router.Publish(context.Background(), logging.Event{})
	closeRouter(t, router)
	router.Publish(context.Background(), logging.Event{Type: "after_close"})

	if events := sink.Events(); len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

// blockingSink parks the dispatch goroutine inside Write until released so a
// test can fill the queue behind it.
type blockingSink struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingSink) Write(logging.Event) error {
	s.once.Do(func() { close(s.started) })
	<-s.release
	return nil
}

func (s *blockingSink) Close(context.Context) error { return nil }

func TestRouterDropsWhenQueueIsFull(t *testing.T) {
	sink := &blockingSink{started: make(chan struct{}), release: make(chan struct{})}
	router := logging.NewRouter(nil, logging.Config{BufferSize: 1}, []logging.NamedSink{
		{Name: "blocking", Sink: sink},
	})

	router.Publish(context.Background(), logging.Event{Type: "in_flight"})
	select {
	case <-sink.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatch never picked up the first event")
	}
	router.Publish(context.Background(), logging.Event{Type: "queued"})
	router.Publish(context.Background(), logging.Event{Type: "dropped"})

	if stats := router.Stats(); stats.DroppedTotal != 1 {
		t.Fatalf("dropped = %d, want 1", stats.DroppedTotal)
	}
	close(sink.release)
	closeRouter(t, router)
}
