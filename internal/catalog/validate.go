package catalog

import (
	"fmt"

	"village-server/internal/resource"
)

var validCategories = map[Category]bool{
	CategoryResourceGenerator: true,
	CategoryHouse:             true,
	CategoryBarracks:          true,
	CategoryDefensive:         true,
	CategorySpecial:           true,
	CategoryWall:              true,
}

// Validate rejects catalogs the rules cannot be evaluated against.
func Validate(doc Document) error {
	if doc.GridSize < 1 {
		return fmt.Errorf("grid_size must be positive")
	}
	if doc.MaxTownHallLevel < 1 || doc.MaxBuildingLevel < 1 {
		return fmt.Errorf("max levels must be positive")
	}
	maxLevel := max(doc.MaxTownHallLevel, doc.MaxBuildingLevel)
	if len(doc.Levels.MultiplierPct) < maxLevel || len(doc.Levels.FlatBonus) < maxLevel {
		return fmt.Errorf("level tables must cover %d levels", maxLevel)
	}
	if len(doc.BuildingCaps) == 0 {
		return fmt.Errorf("building_caps must not be empty")
	}
	if doc.WallCapPerTownHallLevel < 1 {
		return fmt.Errorf("wall_cap_per_town_hall_level must be positive")
	}
	if err := nonNegative("starting_resources", doc.StartingResources); err != nil {
		return err
	}

	buildings := make(map[string]BuildingType, len(doc.Buildings))
	for _, b := range doc.Buildings {
		if b.ID == "" {
			return fmt.Errorf("building type without id")
		}
		if _, dup := buildings[b.ID]; dup {
			return fmt.Errorf("building type %s declared twice", b.ID)
		}
		if err := validateBuilding(doc, b); err != nil {
			return err
		}
		buildings[b.ID] = b
	}

	townHall, ok := buildings[TownHall]
	if !ok {
		return fmt.Errorf("catalog has no %s building type", TownHall)
	}
	if townHall.Category != CategorySpecial || !townHall.Unique {
		return fmt.Errorf("%s must be a unique special building", TownHall)
	}

	troops := make(map[string]bool, len(doc.Troops))
	for _, t := range doc.Troops {
		if t.ID == "" {
			return fmt.Errorf("troop type without id")
		}
		if troops[t.ID] {
			return fmt.Errorf("troop type %s declared twice", t.ID)
		}
		troops[t.ID] = true

		if t.Power < 0 || t.Population < 0 || t.TrainingSeconds < 0 {
			return fmt.Errorf("troop type %s has negative stats", t.ID)
		}
		if err := nonNegative("troop "+t.ID+" cost", t.Cost); err != nil {
			return err
		}
		if t.RequiredBuildingLevel < 1 || t.RequiredBuildingLevel > doc.MaxBuildingLevel {
			return fmt.Errorf("troop type %s required_building_level %d out of range", t.ID, t.RequiredBuildingLevel)
		}
		if len(t.TrainedAt) == 0 {
			return fmt.Errorf("troop type %s is not trainable anywhere", t.ID)
		}
		for _, id := range t.TrainedAt {
			b, ok := buildings[id]
			if !ok {
				return fmt.Errorf("troop type %s trained at unknown building %s", t.ID, id)
			}
			if b.Category != CategoryBarracks {
				return fmt.Errorf("troop type %s trained at non-barracks building %s", t.ID, id)
			}
		}
	}

	return nil
}

func validateBuilding(doc Document, b BuildingType) error {
	if !validCategories[b.Category] {
		return fmt.Errorf("building type %s has unknown category %q", b.ID, b.Category)
	}
	if err := nonNegative("building "+b.ID+" cost", b.Cost); err != nil {
		return err
	}
	if b.Category == CategoryResourceGenerator {
		if _, ok := resource.ParseKind(string(b.Produces)); !ok {
			return fmt.Errorf("generator %s produces unknown resource %q", b.ID, b.Produces)
		}
		if b.BaseRate <= 0 {
			return fmt.Errorf("generator %s needs a positive base_rate", b.ID)
		}
	} else if b.Produces != "" {
		return fmt.Errorf("building type %s is not a generator but produces %s", b.ID, b.Produces)
	}
	if b.RequiredTownHallLevel < 0 || b.RequiredTownHallLevel > doc.MaxTownHallLevel {
		return fmt.Errorf("building type %s required_town_hall_level %d out of range", b.ID, b.RequiredTownHallLevel)
	}

	maxLevel := doc.MaxBuildingLevel
	if b.ID == TownHall {
		maxLevel = doc.MaxTownHallLevel
	}
	for level, cost := range b.UpgradeCosts {
		if level < 2 || level > maxLevel {
			return fmt.Errorf("building type %s has upgrade cost for level %d outside 2..%d", b.ID, level, maxLevel)
		}
		if err := nonNegative(fmt.Sprintf("building %s upgrade to %d", b.ID, level), cost); err != nil {
			return err
		}
	}
	for _, p := range b.PopulationCapacity {
		if p < 0 {
			return fmt.Errorf("building type %s has negative population capacity", b.ID)
		}
	}
	return nil
}

func nonNegative(what string, a resource.Amounts) error {
	for _, k := range resource.Kinds {
		if a.Get(k) < 0 {
			return fmt.Errorf("%s has negative %s", what, k)
		}
	}
	return nil
}
