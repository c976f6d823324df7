// Package profile persists player accounts across matches: experience,
// levels, perk purchases, and lifetime stats. Sessions consume a profile only
// through its derived StatsBundle and report back a single XP total when a
// match ends.
package profile

import (
	"time"

	"castle-defenders/server/catalog"
)

// Profile is one persisted player account.
type Profile struct {
	ID                  string                 `json:"id"`
	Name                string                 `json:"name"`
	XP                  int                    `json:"xp"`
	Level               int                    `json:"level"`
	PerkPoints          int                    `json:"perkPoints"`
	Perks               map[catalog.PerkID]int `json:"perks"`
	TotalGamesPlayed    int                    `json:"totalGamesPlayed"`
	TotalWavesSurvived  int                    `json:"totalWavesSurvived"`
	TotalEnemiesKilled  int                    `json:"totalEnemiesKilled"`
	HighestWave         int                    `json:"highestWave"`
	CreatedAtUnixMillis int64                  `json:"createdAt"`
}

func newProfile(id, name string) *Profile {
	return &Profile{
		ID:                  id,
		Name:                name,
		Level:               1,
		Perks:               make(map[catalog.PerkID]int),
		CreatedAtUnixMillis: time.Now().UnixMilli(),
	}
}

// clone copies the profile, including the perk map, so callers outside the
// store lock never alias live state.
func (p *Profile) clone() Profile {
	copied := *p
	copied.Perks = make(map[catalog.PerkID]int, len(p.Perks))
	for id, level := range p.Perks {
		copied.Perks[id] = level
	}
	return copied
}

// AddXP credits experience and returns how many levels were gained. Each
// level-up grants one perk point.
func (p *Profile) AddXP(amount int) int {
	p.XP += amount
	levelsGained := 0
	for p.XP >= catalog.XPForLevel(p.Level+1) {
		p.XP -= catalog.XPForLevel(p.Level + 1)
		p.Level++
		p.PerkPoints++
		levelsGained++
	}
	return levelsGained
}

// BuyPerk spends one perk point on the given perk line. It reports false when
// the perk is unknown, maxed out, or no points remain.
func (p *Profile) BuyPerk(cat *catalog.Catalog, id catalog.PerkID) bool {
	def, ok := cat.Perk(id)
	if !ok {
		return false
	}
	current := p.Perks[id]
	if current >= def.MaxLevel {
		return false
	}
	if p.PerkPoints < 1 {
		return false
	}
	p.PerkPoints--
	if p.Perks == nil {
		p.Perks = make(map[catalog.PerkID]int)
	}
	p.Perks[id] = current + 1
	return true
}
