package server

import (
	"log"
	"time"

	"castle-defenders/server/internal/game"
	"castle-defenders/server/profile"
)

// tickRate is the driver frequency in updates per second.
const tickRate = 20

// RunSimulation drives every session at a fixed cadence until stop closes.
// All sessions in one iteration share the same measured delta.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := float64(now.Sub(last).Microseconds()) / 1000
			if dt <= 0 {
				dt = 1000.0 / tickRate
			}
			last = now
			h.step(now, dt)
		}
	}
}

func (h *Hub) step(now time.Time, dt float64) {
	ended := h.manager.UpdateAll(now.UnixMilli(), dt)

	for _, session := range h.manager.Sessions() {
		if session.State() != game.StatePlaying {
			continue
		}
		h.broadcastToSession(session.ID(), stateMessage{Type: "gameState", Snapshot: session.Snapshot()}, "")
	}

	for _, session := range ended {
		// Clients see the terminal snapshot before the end-of-game event.
		h.broadcastToSession(session.ID(), stateMessage{Type: "gameState", Snapshot: session.Snapshot()}, "")
		results, ok := session.TakeResults()
		if !ok {
			continue
		}
		// Persistence and the final broadcast must not block the tick loop.
		go h.finishSession(session, results)
	}
}

// finishSession folds each player's match outcome into their profile, fills
// in the level fields of the results, and broadcasts the end-of-game event.
func (h *Hub) finishSession(session *game.Session, results []game.PlayerResult) {
	wave := session.Wave()
	for i := range results {
		profileID := h.profileIDFor(results[i].PlayerID)
		if profileID == "" {
			continue
		}
		levelsGained, err := h.store.ApplyMatchResult(profileID, profile.MatchResult{
			XPEarned:      results[i].XPEarned,
			WavesSurvived: wave,
			EnemiesKilled: results[i].EnemiesKilled,
		})
		if err != nil {
			log.Printf("failed to persist match result for %s: %v", profileID, err)
		}
		results[i].LevelsGained = levelsGained
		if prof, ok := h.store.View(profileID); ok {
			results[i].NewLevel = prof.Level
			results[i].PerkPoints = prof.PerkPoints
		}
	}

	h.broadcastToSession(session.ID(), gameEndedMessage{
		Type:    "gameEnded",
		Wave:    wave,
		Results: results,
	}, "")
}
