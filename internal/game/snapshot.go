package game

import (
	"sort"
	"time"
)

// Snapshot is the full client-visible session state broadcast every tick
// while playing. Plots and Path are static per session; receivers may cache
// them from the first snapshot.
type Snapshot struct {
	ID              string       `json:"id"`
	Wave            int          `json:"wave"`
	CastleHealth    int          `json:"castleHealth"`
	MaxCastleHealth int          `json:"maxCastleHealth"`
	State           SessionState `json:"state"`
	WaveInProgress  bool         `json:"waveInProgress"`
	Players         []Player     `json:"players"`
	Towers          []Tower      `json:"towers"`
	Enemies         []Enemy      `json:"enemies"`
	Projectiles     []Projectile `json:"projectiles"`
	Troops          []Troop      `json:"troops"`
	Plots           []Plot       `json:"plots"`
	Path            []Vec2       `json:"path"`
}

// Snapshot captures the current state for broadcast. Players are sorted by id
// so repeated snapshots of the same state marshal identically.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()

	snap := Snapshot{
		ID:              s.id,
		Wave:            s.wave,
		CastleHealth:    s.castleHealth,
		MaxCastleHealth: s.maxCastleHealth,
		State:           s.state,
		WaveInProgress:  s.waveInProgress,
		Players:         make([]Player, 0, len(s.players)),
		Towers:          make([]Tower, 0, len(s.towers)),
		Enemies:         make([]Enemy, 0, len(s.enemies)),
		Projectiles:     make([]Projectile, 0, len(s.projectiles)),
		Troops:          make([]Troop, 0, len(s.troops)),
		Plots:           make([]Plot, 0, len(s.plots)),
		Path:            s.path,
	}

	for _, p := range s.players {
		snap.Players = append(snap.Players, p.Player)
	}
	sort.Slice(snap.Players, func(i, j int) bool { return snap.Players[i].ID < snap.Players[j].ID })

	for _, t := range s.towers {
		snap.Towers = append(snap.Towers, t.Tower)
	}
	for _, e := range s.enemies {
		snap.Enemies = append(snap.Enemies, e.snapshot(now))
	}
	for _, p := range s.projectiles {
		snap.Projectiles = append(snap.Projectiles, p.Projectile)
	}
	for _, t := range s.troops {
		snap.Troops = append(snap.Troops, t.Troop)
	}
	for _, plot := range s.plots {
		snap.Plots = append(snap.Plots, *plot)
	}
	return snap
}
