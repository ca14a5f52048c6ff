// Package catalog is the read-only reference data of the game: building
// types, troop types and the level tables that drive production and caps.
package catalog

import (
	"time"

	"village-server/internal/resource"
)

type Category string

const (
	CategoryResourceGenerator Category = "resource_generator"
	CategoryHouse             Category = "house"
	CategoryBarracks          Category = "barracks"
	CategoryDefensive         Category = "defensive"
	CategorySpecial           Category = "special"
	CategoryWall              Category = "wall"
)

// TownHall is the id of the building every village owns exactly one of.
const TownHall = "town_hall"

type BuildingType struct {
	ID                    string                   `json:"id" yaml:"id"`
	Name                  string                   `json:"name" yaml:"name"`
	Category              Category                 `json:"category" yaml:"category"`
	Unique                bool                     `json:"unique" yaml:"unique"`
	Cost                  resource.Amounts         `json:"cost" yaml:"cost"`
	Produces              resource.Kind            `json:"produces,omitempty" yaml:"produces"`
	BaseRate              int64                    `json:"base_rate,omitempty" yaml:"base_rate"`
	RequiredTownHallLevel int                      `json:"required_town_hall_level" yaml:"required_town_hall_level"`
	PopulationCapacity    []int64                  `json:"population_capacity,omitempty" yaml:"population_capacity"`
	UpgradeCosts          map[int]resource.Amounts `json:"upgrade_costs" yaml:"upgrade_costs"`
}

func (b BuildingType) IsTownHall() bool {
	return b.ID == TownHall
}

func (b BuildingType) IsGenerator() bool {
	return b.Category == CategoryResourceGenerator && b.Produces != ""
}

// PopulationAt is the population this building supports at level.
func (b BuildingType) PopulationAt(level int) int64 {
	if level < 1 || len(b.PopulationCapacity) == 0 {
		return 0
	}
	if level > len(b.PopulationCapacity) {
		level = len(b.PopulationCapacity)
	}
	return b.PopulationCapacity[level-1]
}

type TroopType struct {
	ID                    string           `json:"id" yaml:"id"`
	Name                  string           `json:"name" yaml:"name"`
	Category              string           `json:"category" yaml:"category"`
	Cost                  resource.Amounts `json:"cost" yaml:"cost"`
	Population            int64            `json:"population" yaml:"population"`
	Power                 int64            `json:"power" yaml:"power"`
	TrainedAt             []string         `json:"trained_at" yaml:"trained_at"`
	RequiredBuildingLevel int              `json:"required_building_level" yaml:"required_building_level"`
	TrainingSeconds       int64            `json:"training_seconds" yaml:"training_seconds"`
}

func (t TroopType) TrainableAt(buildingTypeID string) bool {
	for _, id := range t.TrainedAt {
		if id == buildingTypeID {
			return true
		}
	}
	return false
}

// TrainingDuration is the time to train quantity units back to back.
func (t TroopType) TrainingDuration(quantity int64) time.Duration {
	return time.Duration(t.TrainingSeconds*quantity) * time.Second
}

type LevelTable struct {
	MultiplierPct []int64 `json:"multiplier_pct" yaml:"multiplier_pct"`
	FlatBonus     []int64 `json:"flat_bonus" yaml:"flat_bonus"`
}

// Document is the catalog as stored in YAML and served to clients.
type Document struct {
	GridSize                int              `json:"grid_size" yaml:"grid_size"`
	MaxTownHallLevel        int              `json:"max_town_hall_level" yaml:"max_town_hall_level"`
	MaxBuildingLevel        int              `json:"max_building_level" yaml:"max_building_level"`
	WallCapPerTownHallLevel int              `json:"wall_cap_per_town_hall_level" yaml:"wall_cap_per_town_hall_level"`
	BuildingCaps            []int            `json:"building_caps" yaml:"building_caps"`
	Levels                  LevelTable       `json:"levels" yaml:"levels"`
	StartingResources       resource.Amounts `json:"starting_resources" yaml:"starting_resources"`
	Buildings               []BuildingType   `json:"buildings" yaml:"buildings"`
	Troops                  []TroopType      `json:"troops" yaml:"troops"`
}
