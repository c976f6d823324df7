package server

import (
	"encoding/json"
	"testing"
	"time"

	"castle-defenders/server/catalog"
	"castle-defenders/server/internal/game"
	"castle-defenders/server/profile"
)

// Runs a one-player match on a one-hit castle to the end and checks that the
// outcome lands in the profile store.
func TestFinishSessionPersistsResults(t *testing.T) {
	store, err := profile.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("profile store: %v", err)
	}
	if _, err := store.GetOrCreate("acct-1", "Alice"); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	cfg := game.DefaultConfig()
	cfg.BaseCastleHealth = 1
	manager := game.NewManager(cfg, catalog.Default(), nil)
	h := NewHub(manager, store, catalog.Default(), nil)

	session := manager.FindOrCreate()
	if _, reason := session.Join("conn-1", "Alice", 1, profile.NeutralStats()); reason != "" {
		t.Fatalf("join failed: %v", reason)
	}
	h.mu.Lock()
	h.clients["conn-1"] = &client{id: "conn-1", profileID: "acct-1", sub: &subscriber{}}
	h.mu.Unlock()

	if !session.StartWave("conn-1") {
		t.Fatalf("start wave rejected")
	}

	// Drive 50ms ticks until the first grunt walks the full path and
	// breaches the one-hit castle.
	now := time.Now().UnixMilli()
	var ended []*game.Session
	for i := 0; i < 3000 && len(ended) == 0; i++ {
		now += 50
		ended = manager.UpdateAll(now, 50)
	}
	if len(ended) != 1 {
		t.Fatalf("session never ended")
	}

	results, ok := ended[0].TakeResults()
	if !ok || len(results) != 1 {
		t.Fatalf("results missing: %v %v", results, ok)
	}

	h.finishSession(ended[0], results)

	if results[0].NewLevel != 1 || results[0].LevelsGained != 0 {
		t.Fatalf("unexpected level outcome: %+v", results[0])
	}

	prof, ok := store.View("acct-1")
	if !ok {
		t.Fatalf("profile vanished")
	}
	// Wave 1, no kills, solo: 50 + 20 experience.
	if prof.XP != 70 {
		t.Fatalf("profile xp %d, want 70", prof.XP)
	}
	if prof.TotalGamesPlayed != 1 || prof.HighestWave != 1 {
		t.Fatalf("lifetime stats: %+v", prof)
	}
}

// A breached castle must be visible to clients: the tick that ends the match
// still broadcasts a snapshot carrying the terminal state, ahead of the
// gameEnded event.
func TestEndedSessionBroadcastsFinalSnapshot(t *testing.T) {
	store, err := profile.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("profile store: %v", err)
	}
	cfg := game.DefaultConfig()
	cfg.BaseCastleHealth = 1
	manager := game.NewManager(cfg, catalog.Default(), nil)
	h := NewHub(manager, store, catalog.Default(), nil)

	conn := dialTestHub(t, h)
	loginAndJoin(t, conn, "acct-1", "Alice")
	sendJSON(t, conn, map[string]any{"type": "startWave"})
	if msg := readJSON(t, conn); msg["type"] != "waveStarted" {
		t.Fatalf("waveStarted: %v", msg)
	}

	type verdict struct {
		terminalSnapshotSeen bool
		err                  error
	}
	verdicts := make(chan verdict, 1)
	go func() {
		sawTerminal := false
		for {
			conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			_, payload, err := conn.ReadMessage()
			if err != nil {
				verdicts <- verdict{err: err}
				return
			}
			var msg struct {
				Type         string  `json:"type"`
				State        string  `json:"state"`
				CastleHealth float64 `json:"castleHealth"`
			}
			if err := json.Unmarshal(payload, &msg); err != nil {
				verdicts <- verdict{err: err}
				return
			}
			switch msg.Type {
			case "gameState":
				if msg.State == string(game.StateEnded) && msg.CastleHealth == 0 {
					sawTerminal = true
				}
			case "gameEnded":
				verdicts <- verdict{terminalSnapshotSeen: sawTerminal}
				return
			}
		}
	}()

	// Drive 50ms ticks until the first grunt breaches the one-hit castle
	// and the end-of-game flow runs.
	now := time.Now()
	deadline := time.After(10 * time.Second)
	for {
		now = now.Add(50 * time.Millisecond)
		h.step(now, 50)
		select {
		case got := <-verdicts:
			if got.err != nil {
				t.Fatalf("read: %v", got.err)
			}
			if !got.terminalSnapshotSeen {
				t.Fatalf("gameEnded arrived before a snapshot with the ended state")
			}
			return
		case <-deadline:
			t.Fatalf("match never ended")
		default:
		}
	}
}

func TestTakeResultsOnlyOnce(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.BaseCastleHealth = 1
	manager := game.NewManager(cfg, catalog.Default(), nil)

	session := manager.FindOrCreate()
	if _, reason := session.Join("conn-1", "Alice", 1, profile.NeutralStats()); reason != "" {
		t.Fatalf("join failed: %v", reason)
	}
	session.StartWave("conn-1")

	now := time.Now().UnixMilli()
	var ended []*game.Session
	for i := 0; i < 3000 && len(ended) == 0; i++ {
		now += 50
		ended = manager.UpdateAll(now, 50)
	}
	if len(ended) != 1 {
		t.Fatalf("session never ended")
	}

	if _, ok := ended[0].TakeResults(); !ok {
		t.Fatalf("first take failed")
	}
	if _, ok := ended[0].TakeResults(); ok {
		t.Fatalf("results delivered twice")
	}
}
