package game

import (
	"math"

	"castle-defenders/server/catalog"
	"castle-defenders/server/profile"
)

// Plot is a buildable slot next to the path. TowerID and OwnerID are empty
// while the plot is vacant.
type Plot struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	TowerID string  `json:"tower"`
	OwnerID string  `json:"owner"`
}

// Tower is the client-visible snapshot of a placed tower.
type Tower struct {
	ID        string           `json:"id"`
	Type      catalog.TowerType `json:"type"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
	PlotID    int              `json:"plotId"`
	OwnerID   string           `json:"ownerId"`
	OwnerName string           `json:"ownerName"`
	Level     int              `json:"level"`
}

type towerState struct {
	Tower
	lastFired int64
	// stats is the owner's multiplier bundle captured at placement. Towers
	// keep firing with it even after the owner disconnects.
	stats profile.StatsBundle
}

// Enemy is the client-visible snapshot of an enemy. Slowed, Stunned and
// Burning are evaluated against the tick clock when the snapshot is taken.
type Enemy struct {
	ID        string            `json:"id"`
	Type      catalog.EnemyType `json:"type"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	Health    float64           `json:"health"`
	MaxHealth float64           `json:"maxHealth"`
	Color     string            `json:"color"`
	Size      float64           `json:"size"`
	Slowed    bool              `json:"slowed"`
	Stunned   bool              `json:"stunned"`
	Burning   bool              `json:"burning"`
}

type enemyState struct {
	Enemy
	speed        float64
	reward       int
	armor        float64
	heals        bool
	phasing      bool
	enrages      bool
	enraged      bool
	pathIndex    int
	slowedUntil  int64
	stunnedUntil int64
	burnDamage   float64
	burnUntil    int64
}

// newEnemyState builds an enemy at the path origin with wave-scaled health
// and reward.
func newEnemyState(id string, typ catalog.EnemyType, def *catalog.EnemyDefinition, wave int, origin Vec2) *enemyState {
	waveMultiplier := 1 + float64(wave-1)*0.15
	health := math.Floor(def.Health * waveMultiplier)
	return &enemyState{
		Enemy: Enemy{
			ID:        id,
			Type:      typ,
			X:         origin.X,
			Y:         origin.Y,
			Health:    health,
			MaxHealth: health,
			Color:     def.Color,
			Size:      def.Size,
		},
		speed:   def.Speed,
		reward:  int(float64(def.Reward) * (1 + float64(wave)*0.1)),
		armor:   def.Armor,
		heals:   def.Heals,
		phasing: def.Phasing,
		enrages: def.Enrages,
	}
}

func (e *enemyState) snapshot(now int64) Enemy {
	snap := e.Enemy
	snap.Slowed = e.slowedUntil > now
	snap.Stunned = e.stunnedUntil > now
	snap.Burning = e.burning(now)
	return snap
}

func (e *enemyState) burning(now int64) bool {
	return e.burnUntil > now
}

// Projectile is the client-visible snapshot of a shot in flight.
type Projectile struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	TargetID string  `json:"targetId"`
	Color    string  `json:"color"`
}

type projectileState struct {
	Projectile
	damage  float64
	speed   float64
	kind    catalog.TowerType
	ownerID string
}

// Troop is the client-visible snapshot of a friendly ground unit.
type Troop struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Health float64 `json:"health"`
	Type   string  `json:"type"`
}

type troopState struct {
	Troop
	damage  float64
	ownerID string
}

const (
	troopTypeSoldier  = "soldier"
	troopTypeSkeleton = "skeleton"
)

// Player is the client-visible snapshot of a session participant.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Gold  int    `json:"gold"`
	Score int    `json:"score"`
	Level int    `json:"level"`
}

type playerState struct {
	Player
	stats         profile.StatsBundle
	enemiesKilled int
	towersBuilt   int
	damageDealt   float64
}
