package server

import (
	"castle-defenders/server/catalog"
	"castle-defenders/server/internal/game"
	"castle-defenders/server/profile"
)

// Client command types.
const (
	msgLogin      = "login"
	msgJoinGame   = "joinGame"
	msgStartWave  = "startWave"
	msgPlaceTower = "placeTower"
	msgSellTower  = "sellTower"
	msgBuyPerk    = "buyPerk"
	msgChat       = "chat"
)

const maxChatLength = 200

// clientMessage is the union of every command a client can send. PlotID is a
// pointer so a missing field is distinguishable from plot 0.
type clientMessage struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	PlotID     *int   `json:"plotId,omitempty"`
	TowerType  string `json:"towerType,omitempty"`
	PerkID     string `json:"perkId,omitempty"`
	Message    string `json:"message,omitempty"`
}

type loginSuccessMessage struct {
	Type           string                     `json:"type"`
	Profile        profile.Profile            `json:"profile"`
	TowerTypes     []*catalog.TowerDefinition `json:"towerTypes"`
	Perks          []*catalog.PerkDefinition  `json:"perks"`
	UnlockedTowers []*catalog.TowerDefinition `json:"unlockedTowers"`
	XPForNextLevel int                        `json:"xpForNextLevel"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type actionFailedMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type gameJoinedMessage struct {
	Type     string        `json:"type"`
	GameID   string        `json:"gameId"`
	PlayerID string        `json:"playerId"`
	State    game.Snapshot `json:"state"`
}

type playerJoinedMessage struct {
	Type        string `json:"type"`
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	PlayerLevel int    `json:"playerLevel"`
}

type playerLeftMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

type waveStartedMessage struct {
	Type string `json:"type"`
	Wave int    `json:"wave"`
}

type towerPlacedMessage struct {
	Type     string     `json:"type"`
	Tower    game.Tower `json:"tower"`
	PlayerID string     `json:"playerId"`
}

type towerSoldMessage struct {
	Type     string `json:"type"`
	PlotID   int    `json:"plotId"`
	PlayerID string `json:"playerId"`
	Refund   int    `json:"refund"`
}

type perkBoughtMessage struct {
	Type            string `json:"type"`
	PerkID          string `json:"perkId"`
	NewLevel        int    `json:"newLevel"`
	RemainingPoints int    `json:"remainingPoints"`
}

type chatBroadcastMessage struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
}

// stateMessage is the per-tick broadcast while a session is playing.
type stateMessage struct {
	Type string `json:"type"`
	game.Snapshot
}

type gameEndedMessage struct {
	Type    string              `json:"type"`
	Wave    int                 `json:"wave"`
	Results []game.PlayerResult `json:"results"`
}
