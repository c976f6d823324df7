package economy

import (
	"context"

	"castle-defenders/server/logging"
)

const (
	// EventTowerPlaced is emitted when a place-tower command succeeds.
	EventTowerPlaced logging.EventType = "economy.tower_placed"
	// EventTowerSold is emitted when a sell-tower command succeeds.
	EventTowerSold logging.EventType = "economy.tower_sold"
	// EventGoldGenerated is emitted when a gold mine pays out.
	EventGoldGenerated logging.EventType = "economy.gold_generated"
)

// TowerPlacedPayload describes a successful placement.
type TowerPlacedPayload struct {
	TowerType string `json:"towerType"`
	PlotID    int    `json:"plotId"`
	Cost      int    `json:"cost"`
}

// TowerSoldPayload describes a successful sale.
type TowerSoldPayload struct {
	TowerType string `json:"towerType"`
	PlotID    int    `json:"plotId"`
	Refund    int    `json:"refund"`
}

// GoldGeneratedPayload describes passive mine income.
type GoldGeneratedPayload struct {
	Amount int `json:"amount"`
}

func TowerPlaced(ctx context.Context, pub logging.Publisher, sessionID string, tick uint64, actor logging.EntityRef, payload TowerPlacedPayload) {
	publish(ctx, pub, EventTowerPlaced, sessionID, tick, actor, payload)
}

func TowerSold(ctx context.Context, pub logging.Publisher, sessionID string, tick uint64, actor logging.EntityRef, payload TowerSoldPayload) {
	publish(ctx, pub, EventTowerSold, sessionID, tick, actor, payload)
}

func GoldGenerated(ctx context.Context, pub logging.Publisher, sessionID string, tick uint64, actor logging.EntityRef, payload GoldGeneratedPayload) {
	publish(ctx, pub, EventGoldGenerated, sessionID, tick, actor, payload)
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
		Category: logging.CategoryEconomy,
		Payload:  payload,
	})
}
