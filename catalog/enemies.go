package catalog

// EnemyType identifies an enemy archetype.
type EnemyType string

const (
	EnemyGrunt     EnemyType = "grunt"
	EnemyRunner    EnemyType = "runner"
	EnemyTank      EnemyType = "tank"
	EnemyHealer    EnemyType = "healer"
	EnemyShield    EnemyType = "shield"
	EnemyBoss      EnemyType = "boss"
	EnemySwarm     EnemyType = "swarm"
	EnemyGhost     EnemyType = "ghost"
	EnemyBerserker EnemyType = "berserker"
)

// EnemyDefinition is the immutable archetype for a wave enemy. Health and
// reward here are base values; the session scales them by wave number once at
// spawn time.
type EnemyDefinition struct {
	ID     EnemyType `json:"id"`
	Health float64   `json:"health"`
	Speed  float64   `json:"speed"`
	Reward int       `json:"reward"`
	Size   float64   `json:"size"`
	Color  string    `json:"color,omitempty"`

	Heals   bool    `json:"heals,omitempty"`   // restores nearby enemies' health
	Armor   float64 `json:"armor,omitempty"`   // fraction of incoming damage absorbed
	Phasing bool    `json:"phasing,omitempty"` // only magic towers can target it
	Enrages bool    `json:"enrages,omitempty"` // doubles speed below 30% health
}

func buildEnemyCatalog() map[EnemyType]*EnemyDefinition {
	defs := []*EnemyDefinition{
		{ID: EnemyGrunt, Health: 50, Speed: 1, Reward: 10, Size: 12, Color: "#8B0000"},
		{ID: EnemyRunner, Health: 30, Speed: 2, Reward: 8, Size: 10, Color: "#FF6347"},
		{ID: EnemyTank, Health: 200, Speed: 0.5, Reward: 25, Size: 18, Color: "#4A4A4A"},
		{ID: EnemyHealer, Health: 60, Speed: 0.8, Reward: 20, Size: 14, Color: "#98FB98", Heals: true},
		{ID: EnemyShield, Health: 100, Speed: 0.7, Reward: 18, Size: 15, Color: "#4169E1", Armor: 0.5},
		{ID: EnemyBoss, Health: 1000, Speed: 0.3, Reward: 200, Size: 30, Color: "#8B008B"},
		{ID: EnemySwarm, Health: 15, Speed: 1.5, Reward: 3, Size: 8, Color: "#FFD700"},
		{ID: EnemyGhost, Health: 80, Speed: 1.2, Reward: 30, Size: 12, Color: "#E6E6FA", Phasing: true},
		{ID: EnemyBerserker, Health: 120, Speed: 0.6, Reward: 35, Size: 16, Color: "#DC143C", Enrages: true},
	}

	catalog := make(map[EnemyType]*EnemyDefinition, len(defs))
	for _, def := range defs {
		catalog[def.ID] = def
	}
	return catalog
}
