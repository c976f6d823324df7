package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"castle-defenders/server/catalog"
	"castle-defenders/server/logging"
	economylog "castle-defenders/server/logging/economy"
	sessionlog "castle-defenders/server/logging/session"
	"castle-defenders/server/profile"
)

// SessionState tags the lifecycle phase of a match.
type SessionState string

const (
	StateWaiting SessionState = "waiting"
	StatePlaying SessionState = "playing"
	StateEnded   SessionState = "ended"
)

// PlayerResult is one player's share of the end-of-game event. NewLevel,
// LevelsGained and PerkPoints are filled in by the caller after the match
// outcome has been folded into the player's profile.
type PlayerResult struct {
	PlayerID      string `json:"playerId"`
	PlayerName    string `json:"playerName"`
	XPEarned      int    `json:"xpEarned"`
	NewLevel      int    `json:"newLevel"`
	LevelsGained  int    `json:"levelsGained"`
	PerkPoints    int    `json:"perkPoints"`
	EnemiesKilled int    `json:"enemiesKilled"`
	DamageDealt   int    `json:"damageDealt"`
	TowersBuilt   int    `json:"towersBuilt"`
}

// Session is one cooperative match. All exported methods lock the session;
// exactly one goroutine mutates a session at a time, whether that is a
// command handler or the driver's tick.
type Session struct {
	mu sync.Mutex

	id      string
	cfg     Config
	catalog *catalog.Catalog
	pub     logging.Publisher

	state           SessionState
	wave            int
	castleHealth    int
	maxCastleHealth int
	waveInProgress  bool
	pendingSpawns   []spawnOrder
	spawnClock      float64
	tick            uint64

	players map[string]*playerState
	plots   []*Plot
	path    []Vec2

	towers      []*towerState
	enemies     []*enemyState
	projectiles []*projectileState
	troops      []*troopState

	waveRNG   *rand.Rand
	combatRNG *rand.Rand

	nextTowerID      uint64
	nextEnemyID      uint64
	nextProjectileID uint64
	nextTroopID      uint64

	results      []PlayerResult
	resultsTaken bool
}

// NewSession builds a session in the waiting state. The RNG streams derive
// from the config seed and the session id, so two sessions with the same id
// and seed replay identical waves.
func NewSession(id string, cfg Config, cat *catalog.Catalog, pub logging.Publisher) *Session {
	cfg = cfg.normalized()
	s := &Session{
		id:              id,
		cfg:             cfg,
		catalog:         cat,
		pub:             pub,
		state:           StateWaiting,
		castleHealth:    cfg.BaseCastleHealth,
		maxCastleHealth: cfg.BaseCastleHealth,
		players:         make(map[string]*playerState),
		plots:           defaultPlots(),
		path:            defaultPath(),
		waveRNG:         newDeterministicRNG(cfg.Seed, id+"/waves"),
		combatRNG:       newDeterministicRNG(cfg.Seed, id+"/combat"),
	}
	sessionlog.Created(context.Background(), pub, id, sessionlog.CreatedPayload{Seed: cfg.Seed})
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle tag.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Empty reports whether the roster has no players.
func (s *Session) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players) == 0
}

// PlayerCount returns the roster size.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// HasCapacity reports whether a new player can still join.
func (s *Session) HasCapacity() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateWaiting && len(s.players) < s.cfg.RosterCap
}

// Join adds a player to the roster. The stats bundle is captured at join time
// and stays fixed for the whole match.
func (s *Session) Join(playerID, name string, level int, stats profile.StatsBundle) (Player, FailureReason) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.players) >= s.cfg.RosterCap {
		return Player{}, FailureRosterFull
	}

	ps := &playerState{
		Player: Player{
			ID:    playerID,
			Name:  name,
			Gold:  s.cfg.StartingGold + stats.StartingGoldBonus,
			Level: level,
		},
		stats: stats,
	}
	s.players[playerID] = ps
	s.recalculateCastleHealth()

	sessionlog.PlayerJoined(context.Background(), s.pub, s.id, s.tick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		sessionlog.PlayerJoinedPayload{Name: name, Level: level, MaxCastleHealth: s.maxCastleHealth})
	return ps.Player, ""
}

// Leave removes a player from the roster. Their towers stay on the board and
// keep firing with the stats they were placed with frozen out of the loop;
// ownerless towers simply idle.
func (s *Session) Leave(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[playerID]; !ok {
		return
	}
	delete(s.players, playerID)
	s.recalculateCastleHealth()

	sessionlog.PlayerLeft(context.Background(), s.pub, s.id, s.tick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		sessionlog.PlayerLeftPayload{Reason: "disconnect"})
}

// recalculateCastleHealth refreshes the max from roster perks. Current health
// only snaps to the new max while the match has not started.
func (s *Session) recalculateCastleHealth() {
	bonus := 0
	for _, p := range s.players {
		bonus += p.stats.CastleHealthBonus
	}
	s.maxCastleHealth = s.cfg.BaseCastleHealth + bonus
	if s.state == StateWaiting {
		s.castleHealth = s.maxCastleHealth
	}
}

// StartWave begins the next wave: pays out the wave bonus plus interest,
// rolls the spawn schedule, and moves a waiting session into playing. It is a
// no-op while a wave is already in progress or after the match ended.
func (s *Session) StartWave(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded || s.waveInProgress {
		return false
	}

	s.wave++
	s.waveInProgress = true
	if s.state == StateWaiting {
		s.state = StatePlaying
	}

	waveBonus := 50 + s.wave*15
	for _, p := range s.players {
		bonus := int(float64(waveBonus) * p.stats.WaveBonusMultiplier)
		interest := int(float64(p.Gold) * p.stats.GoldInterestRate)
		p.Gold += bonus + interest
	}

	s.pendingSpawns = generateWave(s.wave, s.waveRNG)
	s.spawnClock = 0

	sessionlog.WaveStarted(context.Background(), s.pub, s.id, s.tick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		sessionlog.WaveStartedPayload{Wave: s.wave, SpawnCount: len(s.pendingSpawns)})
	return true
}

// PlaceTower validates and executes a place-tower command. Barracks spawn
// their soldier escort immediately.
func (s *Session) PlaceTower(playerID string, plotID int, towerType catalog.TowerType) PlaceTowerResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[playerID]
	if !ok {
		return PlaceTowerResult{Reason: FailurePlayerNotFound}
	}
	plot := s.plotByID(plotID)
	if plot == nil {
		return PlaceTowerResult{Reason: FailurePlotNotFound}
	}
	if plot.TowerID != "" {
		return PlaceTowerResult{Reason: FailurePlotOccupied}
	}
	def, ok := s.catalog.Tower(towerType)
	if !ok {
		return PlaceTowerResult{Reason: FailureUnknownTowerType}
	}
	if player.Level < def.UnlockLevel {
		return PlaceTowerResult{Reason: FailureLevelTooLow, RequiredLevel: def.UnlockLevel}
	}
	cost := int(float64(def.Cost) * player.stats.CostMultiplier)
	if player.Gold < cost {
		return PlaceTowerResult{Reason: FailureInsufficientGold}
	}

	player.Gold -= cost
	player.towersBuilt++

	s.nextTowerID++
	tower := &towerState{Tower: Tower{
		ID:        fmt.Sprintf("tower-%d", s.nextTowerID),
		Type:      towerType,
		X:         plot.X,
		Y:         plot.Y,
		PlotID:    plotID,
		OwnerID:   playerID,
		OwnerName: player.Name,
		Level:     1,
	}, stats: player.stats}
	s.towers = append(s.towers, tower)
	plot.TowerID = tower.ID
	plot.OwnerID = playerID

	if def.TroopCount > 0 {
		for i := 0; i < def.TroopCount; i++ {
			s.nextTroopID++
			s.troops = append(s.troops, &troopState{
				Troop: Troop{
					ID:     fmt.Sprintf("troop-%d", s.nextTroopID),
					X:      plot.X + (s.combatRNG.Float64()-0.5)*40,
					Y:      plot.Y + (s.combatRNG.Float64()-0.5)*40,
					Health: def.TroopHealth,
					Type:   troopTypeSoldier,
				},
				damage:  def.Damage,
				ownerID: playerID,
			})
		}
	}

	economylog.TowerPlaced(context.Background(), s.pub, s.id, s.tick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		economylog.TowerPlacedPayload{TowerType: string(towerType), PlotID: plotID, Cost: cost})
	return PlaceTowerResult{OK: true, Tower: tower.Tower}
}

// SellTower removes the caller's tower from a plot and refunds 60% of the
// base cost. The refund ignores the buyer's discount perk.
func (s *Session) SellTower(playerID string, plotID int) SellTowerResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[playerID]
	if !ok {
		return SellTowerResult{Reason: FailurePlayerNotFound}
	}
	plot := s.plotByID(plotID)
	if plot == nil {
		return SellTowerResult{Reason: FailurePlotNotFound}
	}
	if plot.TowerID == "" {
		return SellTowerResult{Reason: FailureNoTowerOnPlot}
	}
	if plot.OwnerID != playerID {
		return SellTowerResult{Reason: FailureNotOwner}
	}

	var tower *towerState
	idx := -1
	for i, t := range s.towers {
		if t.ID == plot.TowerID {
			tower = t
			idx = i
			break
		}
	}
	if tower == nil {
		return SellTowerResult{Reason: FailureNoTowerOnPlot}
	}

	refund := 0
	if def, ok := s.catalog.Tower(tower.Type); ok {
		refund = int(math.Floor(float64(def.Cost) * 0.6))
	}
	player.Gold += refund

	s.towers = append(s.towers[:idx], s.towers[idx+1:]...)
	plot.TowerID = ""
	plot.OwnerID = ""

	economylog.TowerSold(context.Background(), s.pub, s.id, s.tick,
		logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		economylog.TowerSoldPayload{TowerType: string(tower.Type), PlotID: plotID, Refund: refund})
	return SellTowerResult{OK: true, Refund: refund}
}

func (s *Session) plotByID(plotID int) *Plot {
	for _, plot := range s.plots {
		if plot.ID == plotID {
			return plot
		}
	}
	return nil
}

// TakeResults hands out the end-of-game results exactly once. It returns
// false until the session has ended, and again after the first call.
func (s *Session) TakeResults() ([]PlayerResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEnded || s.resultsTaken {
		return nil, false
	}
	s.resultsTaken = true
	return s.results, true
}

// Wave returns the current wave number.
func (s *Session) Wave() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wave
}

// computeResults produces one result per current player. Called exactly once,
// under the session lock, at the playing to ended transition.
func (s *Session) computeResults() {
	teamBonus := (len(s.players) - 1) * 15
	results := make([]PlayerResult, 0, len(s.players))
	for _, p := range s.players {
		baseXP := 50 + s.wave*20 + p.enemiesKilled*2 + teamBonus
		results = append(results, PlayerResult{
			PlayerID:      p.ID,
			PlayerName:    p.Name,
			XPEarned:      int(float64(baseXP) * p.stats.XPMultiplier),
			EnemiesKilled: p.enemiesKilled,
			DamageDealt:   int(p.damageDealt),
			TowersBuilt:   p.towersBuilt,
		})
	}
	s.results = results

	sessionlog.GameEnded(context.Background(), s.pub, s.id, s.tick,
		sessionlog.GameEndedPayload{Wave: s.wave, Players: len(s.players)})
}
