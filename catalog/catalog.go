// Package catalog holds the static game data consumed by every session: tower
// archetypes, enemy archetypes, and the account perk table. All definitions
// are immutable after construction and shared by reference.
package catalog

import "sort"

// Catalog bundles the three lookup tables. Sessions read it concurrently, so
// it must never be mutated once built.
type Catalog struct {
	towers  map[TowerType]*TowerDefinition
	enemies map[EnemyType]*EnemyDefinition
	perks   map[PerkID]*PerkDefinition
}

var defaultCatalog = &Catalog{
	towers:  buildTowerCatalog(),
	enemies: buildEnemyCatalog(),
	perks:   buildPerkCatalog(),
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Tower looks up a tower archetype by type.
func (c *Catalog) Tower(id TowerType) (*TowerDefinition, bool) {
	def, ok := c.towers[id]
	return def, ok
}

// Enemy looks up an enemy archetype by type.
func (c *Catalog) Enemy(id EnemyType) (*EnemyDefinition, bool) {
	def, ok := c.enemies[id]
	return def, ok
}

// Perk looks up a perk definition by id.
func (c *Catalog) Perk(id PerkID) (*PerkDefinition, bool) {
	def, ok := c.perks[id]
	return def, ok
}

// Towers returns every tower definition sorted by unlock level, then id, so
// marshalled payloads are deterministic.
func (c *Catalog) Towers() []*TowerDefinition {
	defs := make([]*TowerDefinition, 0, len(c.towers))
	for _, def := range c.towers {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].UnlockLevel != defs[j].UnlockLevel {
			return defs[i].UnlockLevel < defs[j].UnlockLevel
		}
		return defs[i].ID < defs[j].ID
	})
	return defs
}

// Enemies returns every enemy definition sorted by id.
func (c *Catalog) Enemies() []*EnemyDefinition {
	defs := make([]*EnemyDefinition, 0, len(c.enemies))
	for _, def := range c.enemies {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// Perks returns every perk definition sorted by id.
func (c *Catalog) Perks() []*PerkDefinition {
	defs := make([]*PerkDefinition, 0, len(c.perks))
	for _, def := range c.perks {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// UnlockedTowers returns the definitions available at the given account level.
func (c *Catalog) UnlockedTowers(level int) []*TowerDefinition {
	unlocked := make([]*TowerDefinition, 0, len(c.towers))
	for _, def := range c.Towers() {
		if level >= def.UnlockLevel {
			unlocked = append(unlocked, def)
		}
	}
	return unlocked
}
