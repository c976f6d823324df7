package game

import "fmt"

// FailureReason discriminates why a command was rejected. Validation failures
// never mutate session state; the reason travels back to the one requesting
// player.
type FailureReason string

const (
	FailurePlayerNotFound   FailureReason = "PlayerNotFound"
	FailurePlotNotFound     FailureReason = "PlotNotFound"
	FailurePlotOccupied     FailureReason = "PlotOccupied"
	FailureUnknownTowerType FailureReason = "UnknownTowerType"
	FailureLevelTooLow      FailureReason = "LevelTooLow"
	FailureInsufficientGold FailureReason = "InsufficientGold"
	FailureNoTowerOnPlot    FailureReason = "NoTowerOnPlot"
	FailureNotOwner         FailureReason = "NotOwner"
	FailureRosterFull       FailureReason = "RosterFull"
)

// Message renders the player-facing description of the failure.
func (r FailureReason) Message() string {
	switch r {
	case FailurePlayerNotFound:
		return "Player not found"
	case FailurePlotNotFound:
		return "Plot not found"
	case FailurePlotOccupied:
		return "Plot already occupied"
	case FailureUnknownTowerType:
		return "Invalid tower type"
	case FailureLevelTooLow:
		return "Level too low"
	case FailureInsufficientGold:
		return "Not enough gold"
	case FailureNoTowerOnPlot:
		return "No tower here"
	case FailureNotOwner:
		return "Not your tower"
	case FailureRosterFull:
		return "Game is full"
	case "":
		return ""
	default:
		return string(r)
	}
}

// PlaceTowerResult reports the outcome of a place-tower command.
type PlaceTowerResult struct {
	OK            bool
	Reason        FailureReason
	RequiredLevel int
	Tower         Tower
}

// Message renders the failure for the requesting player.
func (r PlaceTowerResult) Message() string {
	if r.Reason == FailureLevelTooLow && r.RequiredLevel > 0 {
		return fmt.Sprintf("Requires level %d", r.RequiredLevel)
	}
	return r.Reason.Message()
}

// SellTowerResult reports the outcome of a sell-tower command.
type SellTowerResult struct {
	OK     bool
	Reason FailureReason
	Refund int
}
