package session

import (
	"context"

	"castle-defenders/server/logging"
)

const (
	// EventCreated is emitted when the manager opens a new session.
	EventCreated logging.EventType = "session.created"
	// EventPlayerJoined is emitted when a player enters a session roster.
	EventPlayerJoined logging.EventType = "session.player_joined"
	// EventPlayerLeft is emitted when a player leaves or disconnects.
	EventPlayerLeft logging.EventType = "session.player_left"
	// EventWaveStarted is emitted when a start-wave command succeeds.
	EventWaveStarted logging.EventType = "session.wave_started"
	// EventGameEnded is emitted once when the castle falls.
	EventGameEnded logging.EventType = "session.game_ended"
)

// CreatedPayload describes a freshly opened session.
type CreatedPayload struct {
	Seed string `json:"seed"`
}

// PlayerJoinedPayload describes a roster addition.
type PlayerJoinedPayload struct {
	Name            string `json:"name"`
	Level           int    `json:"level"`
	MaxCastleHealth int    `json:"maxCastleHealth"`
}

// PlayerLeftPayload describes a roster removal.
type PlayerLeftPayload struct {
	Reason string `json:"reason,omitempty"`
}

// WaveStartedPayload describes the wave that just began.
type WaveStartedPayload struct {
	Wave       int `json:"wave"`
	SpawnCount int `json:"spawnCount"`
}

// GameEndedPayload summarizes the terminal state.
type GameEndedPayload struct {
	Wave    int `json:"wave"`
	Players int `json:"players"`
}

func Created(ctx context.Context, pub logging.Publisher, sessionID string, payload CreatedPayload) {
	publish(ctx, pub, EventCreated, sessionID, 0, logging.EntityRef{}, payload)
}

func PlayerJoined(ctx context.Context, pub logging.Publisher, sessionID string, tick uint64, actor logging.EntityRef, payload PlayerJoinedPayload) {
	publish(ctx, pub, EventPlayerJoined, sessionID, tick, actor, payload)
}

func PlayerLeft(ctx context.Context, pub logging.Publisher, sessionID string, tick uint64, actor logging.EntityRef, payload PlayerLeftPayload) {
	publish(ctx, pub, EventPlayerLeft, sessionID, tick, actor, payload)
}

func WaveStarted(ctx context.Context, pub logging.Publisher, sessionID string, tick uint64, actor logging.EntityRef, payload WaveStartedPayload) {
	publish(ctx, pub, EventWaveStarted, sessionID, tick, actor, payload)
}

func GameEnded(ctx context.Context, pub logging.Publisher, sessionID string, tick uint64, payload GameEndedPayload) {
	publish(ctx, pub, EventGameEnded, sessionID, tick, logging.EntityRef{}, payload)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, sessionID string, tick uint64, actor logging.EntityRef, payload any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Session:  sessionID,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategorySession,
		Payload:  payload,
	})
}
