package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// OverrideDocument models the designer-authored tuning file. Entries replace
// the built-in definition with the same id; archetypes absent from the file
// keep their defaults. The struct is exported so the schema generator can
// reflect over the configuration contract shared with designers.
type OverrideDocument struct {
	Towers  []TowerDefinition `json:"towers,omitempty" jsonschema:"title=Tower overrides,description=Tower archetypes replacing the built-in tuning"`
	Enemies []EnemyDefinition `json:"enemies,omitempty" jsonschema:"title=Enemy overrides,description=Enemy archetypes replacing the built-in tuning"`
	Perks   []PerkDefinition  `json:"perks,omitempty" jsonschema:"title=Perk overrides,description=Perk lines replacing the built-in tuning"`
}

// LoadFile builds a catalog from the default tables plus the overrides found
// at path. A missing file is not an error; the defaults are returned.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read catalog overrides: %w", err)
	}
	return Load(data)
}

// Load builds a catalog from the default tables plus the given override JSON.
func Load(data []byte) (*Catalog, error) {
	var doc OverrideDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog overrides: %w", err)
	}

	merged := &Catalog{
		towers:  buildTowerCatalog(),
		enemies: buildEnemyCatalog(),
		perks:   buildPerkCatalog(),
	}

	for i := range doc.Towers {
		def := doc.Towers[i]
		if err := validateTower(def); err != nil {
			return nil, err
		}
		merged.towers[def.ID] = &def
	}
	for i := range doc.Enemies {
		def := doc.Enemies[i]
		if err := validateEnemy(def); err != nil {
			return nil, err
		}
		merged.enemies[def.ID] = &def
	}
	for i := range doc.Perks {
		def := doc.Perks[i]
		if def.ID == "" {
			return nil, errors.New("catalog overrides: perk entry missing id")
		}
		merged.perks[def.ID] = &def
	}

	return merged, nil
}

func validateTower(def TowerDefinition) error {
	if def.ID == "" {
		return errors.New("catalog overrides: tower entry missing id")
	}
	if def.Cost <= 0 {
		return fmt.Errorf("catalog overrides: tower %q has non-positive cost", def.ID)
	}
	if def.FireRate < 0 {
		return fmt.Errorf("catalog overrides: tower %q has negative fire rate", def.ID)
	}
	return nil
}

func validateEnemy(def EnemyDefinition) error {
	if def.ID == "" {
		return errors.New("catalog overrides: enemy entry missing id")
	}
	if def.Health <= 0 {
		return fmt.Errorf("catalog overrides: enemy %q has non-positive health", def.ID)
	}
	if def.Speed <= 0 {
		return fmt.Errorf("catalog overrides: enemy %q has non-positive speed", def.ID)
	}
	return nil
}
