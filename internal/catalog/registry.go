package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"village-server/internal/resource"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Registry struct {
	doc       Document
	buildings map[string]BuildingType
	troops    map[string]TroopType
}

// Default returns the catalog compiled into the binary.
func Default() (*Registry, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the embedded default when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(doc)
}

// New indexes doc after checking it is self-consistent.
func New(doc Document) (*Registry, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	r := &Registry{
		doc:       doc,
		buildings: make(map[string]BuildingType, len(doc.Buildings)),
		troops:    make(map[string]TroopType, len(doc.Troops)),
	}
	for _, b := range doc.Buildings {
		r.buildings[b.ID] = b
	}
	for _, t := range doc.Troops {
		r.troops[t.ID] = t
	}
	return r, nil
}

func (r *Registry) Document() Document {
	return r.doc
}

func (r *Registry) GridSize() int {
	return r.doc.GridSize
}

func (r *Registry) InGrid(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.doc.GridSize && y < r.doc.GridSize
}

func (r *Registry) StartingResources() resource.Amounts {
	return r.doc.StartingResources
}

func (r *Registry) Building(id string) (BuildingType, bool) {
	b, ok := r.buildings[id]
	return b, ok
}

func (r *Registry) Troop(id string) (TroopType, bool) {
	t, ok := r.troops[id]
	return t, ok
}

func (r *Registry) Buildings() []BuildingType {
	return r.doc.Buildings
}

func (r *Registry) Troops() []TroopType {
	return r.doc.Troops
}

func (r *Registry) TownHall() BuildingType {
	return r.buildings[TownHall]
}

func (r *Registry) MaxTownHallLevel() int {
	return r.doc.MaxTownHallLevel
}

// MaxLevel is the highest level an instance of b may reach.
func (r *Registry) MaxLevel(b BuildingType) int {
	if b.IsTownHall() {
		return r.doc.MaxTownHallLevel
	}
	return r.doc.MaxBuildingLevel
}

func (r *Registry) UpgradeCost(buildingTypeID string, targetLevel int) (resource.Amounts, bool) {
	b, ok := r.buildings[buildingTypeID]
	if !ok {
		return resource.Amounts{}, false
	}
	cost, ok := b.UpgradeCosts[targetLevel]
	return cost, ok
}

// Generator describes what one building of the given type and level
// produces per minute. ok is false for non-producing types.
func (r *Registry) Generator(buildingTypeID string, level int) (resource.Generator, bool) {
	b, ok := r.buildings[buildingTypeID]
	if !ok || !b.IsGenerator() || level < 1 {
		return resource.Generator{}, false
	}

	i := min(level, len(r.doc.Levels.MultiplierPct)) - 1
	return resource.Generator{
		Kind:          b.Produces,
		BaseRate:      b.BaseRate,
		MultiplierPct: r.doc.Levels.MultiplierPct[i],
		FlatBonus:     r.doc.Levels.FlatBonus[i],
	}, true
}

// BuildingCap is the general building cap at a town hall level; levels past
// the table use its last step.
func (r *Registry) BuildingCap(townHallLevel int) int {
	if townHallLevel < 1 {
		return 0
	}
	i := min(townHallLevel, len(r.doc.BuildingCaps)) - 1
	return r.doc.BuildingCaps[i]
}

func (r *Registry) WallCap(townHallLevel int) int {
	return townHallLevel * r.doc.WallCapPerTownHallLevel
}
