package profile

import "castle-defenders/server/catalog"

// StatsBundle is the flat multiplier set a session consumes read-only for an
// entire match. It is derived once at join time; perks bought mid-match take
// effect in the next game.
type StatsBundle struct {
	DamageMultiplier         float64 `json:"towerDamageMultiplier"`
	SpeedMultiplier          float64 `json:"towerSpeedMultiplier"`
	RangeMultiplier          float64 `json:"towerRangeMultiplier"`
	StartingGoldBonus        int     `json:"startingGoldBonus"`
	WaveBonusMultiplier      float64 `json:"waveBonusMultiplier"`
	KillBonusMultiplier      float64 `json:"killBonusMultiplier"`
	CastleHealthBonus        int     `json:"castleHealthBonus"`
	XPMultiplier             float64 `json:"xpMultiplier"`
	CritChanceBonus          float64 `json:"critChanceBonus"`
	GoldInterestRate         float64 `json:"goldInterest"`
	CostMultiplier           float64 `json:"towerCostMultiplier"`
	MineEfficiencyMultiplier float64 `json:"mineEfficiencyMultiplier"`
}

// NeutralStats returns the bundle for an account with no perks.
func NeutralStats() StatsBundle {
	return StatsBundle{
		DamageMultiplier:         1,
		SpeedMultiplier:          1,
		RangeMultiplier:          1,
		WaveBonusMultiplier:      1,
		KillBonusMultiplier:      1,
		XPMultiplier:             1,
		CostMultiplier:           1,
		MineEfficiencyMultiplier: 1,
	}
}

// StatsBundle folds the profile's perk levels into the multiplier set.
func (p *Profile) StatsBundle(cat *catalog.Catalog) StatsBundle {
	bundle := NeutralStats()
	for id, level := range p.Perks {
		def, ok := cat.Perk(id)
		if !ok || level <= 0 {
			continue
		}
		contribution := float64(level) * def.PerLevel
		switch id {
		case catalog.PerkTowerDamage:
			bundle.DamageMultiplier += contribution
		case catalog.PerkTowerSpeed:
			bundle.SpeedMultiplier += contribution
		case catalog.PerkTowerRange:
			bundle.RangeMultiplier += contribution
		case catalog.PerkStartingGold:
			bundle.StartingGoldBonus += int(contribution)
		case catalog.PerkWaveBonus:
			bundle.WaveBonusMultiplier += contribution
		case catalog.PerkKillBonus:
			bundle.KillBonusMultiplier += contribution
		case catalog.PerkCastleHealth:
			bundle.CastleHealthBonus += int(contribution)
		case catalog.PerkXPBonus:
			bundle.XPMultiplier += contribution
		case catalog.PerkCritChance:
			bundle.CritChanceBonus += contribution
		case catalog.PerkGoldInterest:
			bundle.GoldInterestRate += contribution
		case catalog.PerkTowerDiscount:
			bundle.CostMultiplier -= contribution
		case catalog.PerkMineEfficiency:
			bundle.MineEfficiencyMultiplier += contribution
		}
	}
	return bundle
}
