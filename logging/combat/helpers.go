package combat

import (
	"context"

	"castle-defenders/server/logging"
)

const (
	// EventEnemyKilled is emitted when a projectile hit is lethal.
	EventEnemyKilled logging.EventType = "combat.enemy_killed"
	// EventCastleBreached is emitted when an enemy reaches the castle.
	EventCastleBreached logging.EventType = "combat.castle_breached"
)

// EnemyKilledPayload describes a kill credited to a player.
type EnemyKilledPayload struct {
	EnemyType string `json:"enemyType"`
	Reward    int    `json:"reward"`
}

// CastleBreachedPayload describes castle damage from an arrival.
type CastleBreachedPayload struct {
	EnemyType    string `json:"enemyType"`
	Damage       int    `json:"damage"`
	CastleHealth int    `json:"castleHealth"`
}

func EnemyKilled(ctx context.Context, pub logging.Publisher, sessionID string, tick uint64, actor, target logging.EntityRef, payload EnemyKilledPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEnemyKilled,
		Tick:     tick,
		Session:  sessionID,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func CastleBreached(ctx context.Context, pub logging.Publisher, sessionID string, tick uint64, actor logging.EntityRef, payload CastleBreachedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCastleBreached,
		Tick:     tick,
		Session:  sessionID,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}
