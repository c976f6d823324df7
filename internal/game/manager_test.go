package game

import (
	"testing"
	"time"

	"castle-defenders/server/catalog"
	"castle-defenders/server/profile"
)

func TestFindOrCreateReusesWaitingSession(t *testing.T) {
	m := NewManager(DefaultConfig(), catalog.Default(), nil)

	first := m.FindOrCreate()
	second := m.FindOrCreate()
	if first != second {
		t.Fatalf("matchmaking opened a second session while the first had capacity")
	}
}

func TestFindOrCreateSkipsFullAndPlaying(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RosterCap = 1
	m := NewManager(cfg, catalog.Default(), nil)

	first := m.FindOrCreate()
	joinTestPlayer(t, first, "p1", "Alice")

	second := m.FindOrCreate()
	if first == second {
		t.Fatalf("matchmaking reused a full session")
	}

	joinTestPlayer(t, second, "p2", "Bob")
	second.StartWave("p2")
	third := m.FindOrCreate()
	if third == first || third == second {
		t.Fatalf("matchmaking reused a full or playing session")
	}
}

func TestManagerLookupAndRemove(t *testing.T) {
	m := NewManager(DefaultConfig(), catalog.Default(), nil)
	s := m.FindOrCreate()

	got, ok := m.Get(s.ID())
	if !ok || got != s {
		t.Fatalf("lookup by id failed")
	}

	m.Remove(s.ID())
	if _, ok := m.Get(s.ID()); ok {
		t.Fatalf("removed session still registered")
	}
}

func TestUpdateAllReportsEndedAndCollectsEmpty(t *testing.T) {
	m := NewManager(DefaultConfig(), catalog.Default(), nil)
	s := m.FindOrCreate()
	joinTestPlayer(t, s, "p1", "Alice")
	s.StartWave("p1")

	s.castleHealth = 5
	s.spawnEnemy(catalog.EnemyGrunt)
	s.enemies[len(s.enemies)-1].pathIndex = len(s.path) - 1

	ended := m.UpdateAll(time.Now().UnixMilli(), 50)
	if len(ended) != 1 || ended[0] != s {
		t.Fatalf("ended sessions %v", ended)
	}
	// Still rostered, so it survives collection for result delivery.
	if _, ok := m.Get(s.ID()); !ok {
		t.Fatalf("ended session with players was collected")
	}

	s.Leave("p1")
	m.UpdateAll(time.Now().UnixMilli(), 50)
	if _, ok := m.Get(s.ID()); ok {
		t.Fatalf("empty ended session was not collected")
	}
}

func TestSessionsSeededIndependently(t *testing.T) {
	m := NewManager(DefaultConfig(), catalog.Default(), nil)
	first := m.FindOrCreate()
	joinTestPlayer(t, first, "p1", "Alice")
	first.StartWave("p1")
	second := m.FindOrCreate()
	if first == second {
		t.Fatalf("expected a fresh session")
	}
	if first.ID() == second.ID() {
		t.Fatalf("duplicate session ids")
	}
	if _, reason := second.Join("p1", "Alice", 20, profile.NeutralStats()); reason != "" {
		t.Fatalf("join failed: %v", reason)
	}
}
