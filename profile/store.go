package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"castle-defenders/server/catalog"
)

// Store keeps every known profile in memory and mirrors changes to a JSON
// file. All methods are safe for concurrent use; persistence failures are
// returned but never corrupt the in-memory state.
type Store struct {
	mu       sync.Mutex
	path     string
	profiles map[string]*Profile
}

// MatchResult carries the per-player outcome a session reports when it ends.
type MatchResult struct {
	XPEarned      int
	WavesSurvived int
	EnemiesKilled int
}

// NewStore loads (or initializes) the profile file under dataDir.
func NewStore(dataDir string) (*Store, error) {
	s := &Store{
		path:     filepath.Join(dataDir, "castle_players.json"),
		profiles: make(map[string]*Profile),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read profiles: %w", err)
	}
	var decoded map[string]*Profile
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("parse profiles: %w", err)
	}
	for id, prof := range decoded {
		if prof == nil {
			continue
		}
		if prof.Level < 1 {
			prof.Level = 1
		}
		if prof.Perks == nil {
			prof.Perks = make(map[catalog.PerkID]int)
		}
		s.profiles[id] = prof
	}
	return nil
}

// saveLocked writes the profile file. Callers must hold the mutex.
func (s *Store) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	data, err := json.MarshalIndent(s.profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace profiles: %w", err)
	}
	return nil
}

// GetOrCreate returns the profile for id, creating it when unknown. A
// non-empty name updates the stored display name.
func (s *Store) GetOrCreate(id, name string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, ok := s.profiles[id]
	if ok {
		if name != "" && name != prof.Name {
			prof.Name = name
		}
	} else {
		if name == "" {
			name = "Hero"
		}
		prof = newProfile(id, name)
		s.profiles[id] = prof
	}
	if err := s.saveLocked(); err != nil {
		return prof, err
	}
	return prof, nil
}

// Get returns the profile for id, if known.
func (s *Store) Get(id string) (*Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prof, ok := s.profiles[id]
	return prof, ok
}

// View returns a detached copy of the profile for concurrent readers.
func (s *Store) View(id string) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prof, ok := s.profiles[id]
	if !ok {
		return Profile{}, false
	}
	return prof.clone(), true
}

// BuyPerk spends a perk point on behalf of the profile and persists. The
// returned copy reflects the profile after the purchase attempt.
func (s *Store) BuyPerk(cat *catalog.Catalog, id string, perk catalog.PerkID) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prof, ok := s.profiles[id]
	if !ok {
		return Profile{}, false
	}
	if !prof.BuyPerk(cat, perk) {
		return prof.clone(), false
	}
	if err := s.saveLocked(); err != nil {
		// The purchase already happened in memory; persistence catches up on
		// the next successful save.
		return prof.clone(), true
	}
	return prof.clone(), true
}

// ApplyMatchResult folds a finished match into the profile and persists. It
// returns the number of levels gained.
func (s *Store) ApplyMatchResult(id string, result MatchResult) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, ok := s.profiles[id]
	if !ok {
		return 0, fmt.Errorf("unknown profile %q", id)
	}
	levelsGained := prof.AddXP(result.XPEarned)
	prof.TotalGamesPlayed++
	prof.TotalWavesSurvived += result.WavesSurvived
	prof.TotalEnemiesKilled += result.EnemiesKilled
	if result.WavesSurvived > prof.HighestWave {
		prof.HighestWave = result.WavesSurvived
	}
	if err := s.saveLocked(); err != nil {
		return levelsGained, err
	}
	return levelsGained, nil
}
