package game

import "strings"

const defaultSeed = "castle"

// Config captures the per-session tunables.
type Config struct {
	Seed             string `json:"seed"`
	RosterCap        int    `json:"rosterCap"`
	BaseCastleHealth int    `json:"baseCastleHealth"`
	StartingGold     int    `json:"startingGold"`
}

// normalized returns a config with defaults applied.
func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultSeed
	}
	if normalized.RosterCap <= 0 {
		normalized.RosterCap = 8
	}
	if normalized.BaseCastleHealth <= 0 {
		normalized.BaseCastleHealth = 1000
	}
	if normalized.StartingGold <= 0 {
		normalized.StartingGold = 200
	}
	return normalized
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		Seed:             defaultSeed,
		RosterCap:        8,
		BaseCastleHealth: 1000,
		StartingGold:     200,
	}
}
