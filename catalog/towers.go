package catalog

// TowerType identifies a tower archetype.
type TowerType string

const (
	TowerCannon      TowerType = "cannon"
	TowerArcher      TowerType = "archer"
	TowerMortar      TowerType = "mortar"
	TowerWizard      TowerType = "wizard"
	TowerFrost       TowerType = "frost"
	TowerBarracks    TowerType = "barracks"
	TowerGoldmine    TowerType = "goldmine"
	TowerTesla       TowerType = "tesla"
	TowerDragon      TowerType = "dragon"
	TowerSniper      TowerType = "sniper"
	TowerNecromancer TowerType = "necromancer"
	TowerShrine      TowerType = "shrine"
)

// TowerDefinition is the immutable archetype for a placeable tower. Instances
// are shared by reference across every session; nothing mutates them after
// catalog construction.
type TowerDefinition struct {
	ID          TowerType `json:"id"`
	Name        string    `json:"name"`
	Cost        int       `json:"cost"`
	Damage      float64   `json:"damage"`
	Range       float64   `json:"range"`
	FireRate    int64     `json:"fireRate"` // milliseconds between shots; 0 = passive
	UnlockLevel int       `json:"unlockLevel"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`

	// Optional behavior flags. Zero values mean the behavior is absent.
	SplashRadius   float64 `json:"splashRadius,omitempty"`
	ChainCount     int     `json:"chainCount,omitempty"`
	SlowAmount     float64 `json:"slowAmount,omitempty"`
	SlowDuration   int64   `json:"slowDuration,omitempty"`
	StunDuration   int64   `json:"stunDuration,omitempty"`
	BurnDamage     float64 `json:"burnDamage,omitempty"`
	BurnDuration   int64   `json:"burnDuration,omitempty"`
	CritChance     float64 `json:"critChance,omitempty"`
	CritMultiplier float64 `json:"critMultiplier,omitempty"`
	TroopCount     int     `json:"troopCount,omitempty"`
	TroopHealth    float64 `json:"troopHealth,omitempty"`
	GoldPerTick    int     `json:"goldPerTick,omitempty"`
	DamageBoost    float64 `json:"damageBoost,omitempty"`
	SkeletonChance float64 `json:"skeletonChance,omitempty"`
}

// MagicDamage reports whether the tower's shots can hit phasing enemies.
func (d TowerDefinition) MagicDamage() bool {
	return d.ID == TowerWizard || d.ID == TowerNecromancer
}

// Passive reports whether the tower never fires projectiles (aura towers).
func (d TowerDefinition) Passive() bool {
	return d.FireRate == 0
}

func buildTowerCatalog() map[TowerType]*TowerDefinition {
	defs := []*TowerDefinition{
		{
			ID:          TowerCannon,
			Name:        "Cannon Tower",
			Cost:        100,
			Damage:      25,
			Range:       150,
			FireRate:    1000,
			UnlockLevel: 1,
			Description: "Reliable single-target damage",
			Color:       "#8B4513",
		},
		{
			ID:          TowerArcher,
			Name:        "Archer Tower",
			Cost:        75,
			Damage:      12,
			Range:       180,
			FireRate:    400,
			UnlockLevel: 1,
			Description: "Fast attacks, long range",
			Color:       "#228B22",
		},
		{
			ID:           TowerMortar,
			Name:         "Mortar Tower",
			Cost:         200,
			Damage:       40,
			Range:        200,
			FireRate:     2500,
			UnlockLevel:  3,
			SplashRadius: 60,
			Description:  "Devastating splash damage",
			Color:        "#4A4A4A",
		},
		{
			ID:          TowerWizard,
			Name:        "Wizard Tower",
			Cost:        250,
			Damage:      30,
			Range:       140,
			FireRate:    1200,
			UnlockLevel: 5,
			ChainCount:  3,
			Description: "Magic chains to 3 enemies",
			Color:       "#9932CC",
		},
		{
			ID:           TowerFrost,
			Name:         "Frost Tower",
			Cost:         175,
			Damage:       8,
			Range:        130,
			FireRate:     800,
			UnlockLevel:  4,
			SlowAmount:   0.5,
			SlowDuration: 2000,
			Description:  "Slows enemies by 50%",
			Color:        "#00CED1",
		},
		{
			ID:          TowerBarracks,
			Name:        "Barracks",
			Cost:        300,
			Damage:      15,
			Range:       100,
			FireRate:    1500,
			UnlockLevel: 6,
			TroopCount:  3,
			TroopHealth: 50,
			Description: "Deploys soldiers to fight",
			Color:       "#B8860B",
		},
		{
			ID:          TowerGoldmine,
			Name:        "Gold Mine",
			Cost:        400,
			Damage:      0,
			Range:       0,
			FireRate:    5000,
			UnlockLevel: 2,
			GoldPerTick: 8,
			Description: "Generates 8 gold every 5s",
			Color:       "#FFD700",
		},
		{
			ID:           TowerTesla,
			Name:         "Tesla Tower",
			Cost:         350,
			Damage:       50,
			Range:        120,
			FireRate:     1800,
			UnlockLevel:  8,
			StunDuration: 500,
			Description:  "High damage, stuns enemies",
			Color:        "#00FFFF",
		},
		{
			ID:           TowerDragon,
			Name:         "Dragon Tower",
			Cost:         500,
			Damage:       35,
			Range:        160,
			FireRate:     1000,
			UnlockLevel:  10,
			BurnDamage:   5,
			BurnDuration: 3000,
			Description:  "Fire breath with burn effect",
			Color:        "#FF4500",
		},
		{
			ID:             TowerSniper,
			Name:           "Sniper Tower",
			Cost:           275,
			Damage:         100,
			Range:          300,
			FireRate:       3000,
			UnlockLevel:    7,
			CritChance:     0.25,
			CritMultiplier: 2,
			Description:    "Extreme range, critical hits",
			Color:          "#2F4F4F",
		},
		{
			ID:             TowerNecromancer,
			Name:           "Necromancer Tower",
			Cost:           450,
			Damage:         20,
			Range:          150,
			FireRate:       2000,
			UnlockLevel:    12,
			SkeletonChance: 0.3,
			Description:    "Raises defeated enemies as allies",
			Color:          "#4B0082",
		},
		{
			ID:          TowerShrine,
			Name:        "Blessing Shrine",
			Cost:        350,
			Damage:      0,
			Range:       150,
			FireRate:    0,
			UnlockLevel: 9,
			DamageBoost: 0.2,
			Description: "Boosts nearby tower damage 20%",
			Color:       "#FFE4B5",
		},
	}

	catalog := make(map[TowerType]*TowerDefinition, len(defs))
	for _, def := range defs {
		catalog[def.ID] = def
	}
	return catalog
}
