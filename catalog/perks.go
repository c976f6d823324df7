package catalog

import "math"

// PerkID identifies a purchasable account perk.
type PerkID string

const (
	PerkTowerDamage    PerkID = "towerDamage"
	PerkTowerSpeed     PerkID = "towerSpeed"
	PerkTowerRange     PerkID = "towerRange"
	PerkStartingGold   PerkID = "startingGold"
	PerkWaveBonus      PerkID = "waveBonus"
	PerkKillBonus      PerkID = "killBonus"
	PerkCastleHealth   PerkID = "castleHealth"
	PerkXPBonus        PerkID = "xpBonus"
	PerkCritChance     PerkID = "critChance"
	PerkGoldInterest   PerkID = "goldInterest"
	PerkTowerDiscount  PerkID = "towerDiscount"
	PerkMineEfficiency PerkID = "mineEfficiency"
)

// PerkDefinition describes one perk line: what buying a level grants and how
// many levels may be purchased.
type PerkDefinition struct {
	ID          PerkID  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MaxLevel    int     `json:"maxLevel"`
	PerLevel    float64 `json:"perLevel"`
}

func buildPerkCatalog() map[PerkID]*PerkDefinition {
	defs := []*PerkDefinition{
		{ID: PerkTowerDamage, Name: "Tower Damage", Description: "+5% tower damage", MaxLevel: 20, PerLevel: 0.05},
		{ID: PerkTowerSpeed, Name: "Attack Speed", Description: "+3% attack speed", MaxLevel: 20, PerLevel: 0.03},
		{ID: PerkTowerRange, Name: "Tower Range", Description: "+5% tower range", MaxLevel: 15, PerLevel: 0.05},
		{ID: PerkStartingGold, Name: "Starting Gold", Description: "+25 starting gold", MaxLevel: 20, PerLevel: 25},
		{ID: PerkWaveBonus, Name: "Wave Bonus", Description: "+10% wave income", MaxLevel: 15, PerLevel: 0.10},
		{ID: PerkKillBonus, Name: "Kill Bonus", Description: "+5% kill gold", MaxLevel: 15, PerLevel: 0.05},
		{ID: PerkCastleHealth, Name: "Castle Fortify", Description: "+50 castle health", MaxLevel: 25, PerLevel: 50},
		{ID: PerkXPBonus, Name: "XP Boost", Description: "+10% XP earned", MaxLevel: 10, PerLevel: 0.10},
		{ID: PerkCritChance, Name: "Critical Strike", Description: "+2% crit chance all towers", MaxLevel: 10, PerLevel: 0.02},
		{ID: PerkGoldInterest, Name: "Gold Interest", Description: "+1% gold interest per wave", MaxLevel: 10, PerLevel: 0.01},
		{ID: PerkTowerDiscount, Name: "Builder Discount", Description: "-2% tower costs", MaxLevel: 15, PerLevel: 0.02},
		{ID: PerkMineEfficiency, Name: "Mine Efficiency", Description: "+10% gold mine output", MaxLevel: 10, PerLevel: 0.10},
	}

	catalog := make(map[PerkID]*PerkDefinition, len(defs))
	for _, def := range defs {
		catalog[def.ID] = def
	}
	return catalog
}

// XPForLevel returns the experience required to advance to the given level.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(100 * math.Pow(1.5, float64(level-1)))
}
