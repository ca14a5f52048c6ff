package village

import (
	"slices"

	"village-server/internal/catalog"
	"village-server/internal/resource"
	"village-server/internal/shared/errors"
)

// Census summarizes a player's buildings for the construction rules.
type Census struct {
	TownHall  *Building
	TownHalls int
	Walls     int
	// General counts buildings under the town hall step cap: everything
	// except special buildings and walls.
	General  int
	ByType   map[string]int
	occupied map[Position]string
}

func TakeCensus(registry *catalog.Registry, buildings []Building) Census {
	c := Census{
		ByType:   make(map[string]int),
		occupied: make(map[Position]string, len(buildings)),
	}

	for i := range buildings {
		b := buildings[i]
		c.ByType[b.TypeID]++
		c.occupied[b.Position()] = b.ID

		if b.TypeID == catalog.TownHall {
			c.TownHalls++
			if c.TownHall == nil || b.Level > c.TownHall.Level {
				c.TownHall = &b
			}
			continue
		}

		bt, ok := registry.Building(b.TypeID)
		if !ok {
			continue
		}
		switch bt.Category {
		case catalog.CategoryWall:
			c.Walls++
		case catalog.CategorySpecial:
		default:
			c.General++
		}
	}
	return c
}

func (c Census) TownHallLevel() int {
	if c.TownHall == nil {
		return 0
	}
	return c.TownHall.Level
}

func (c Census) Occupied(x, y int) bool {
	_, ok := c.occupied[Position{X: x, Y: y}]
	return ok
}

// CheckPosition rejects cells outside the grid and cells already built on.
func CheckPosition(registry *catalog.Registry, c Census, x, y int) error {
	if !registry.InGrid(x, y) {
		return errors.WithDetails(errors.ErrorTypeValidation,
			"invalid position: outside the village grid",
			map[string]any{"x": x, "y": y, "grid_size": registry.GridSize()})
	}
	if c.Occupied(x, y) {
		return errors.WithDetails(errors.ErrorTypePositionOccupied,
			"position is occupied",
			map[string]any{"x": x, "y": y})
	}
	return nil
}

// CheckCapacity applies the per-category cap for adding one bt.
func CheckCapacity(registry *catalog.Registry, c Census, bt catalog.BuildingType) error {
	level := c.TownHallLevel()

	switch {
	case bt.Category == catalog.CategoryWall:
		if limit := registry.WallCap(level); c.Walls >= limit {
			return errors.WithDetails(errors.ErrorTypeBuildingLimit,
				"building limit reached: walls",
				map[string]any{"current": c.Walls, "limit": limit, "town_hall_level": level})
		}
	case bt.Category == catalog.CategorySpecial:
	default:
		if limit := registry.BuildingCap(level); c.General >= limit {
			return errors.WithDetails(errors.ErrorTypeBuildingLimit,
				"building limit reached",
				map[string]any{"current": c.General, "limit": limit, "town_hall_level": level})
		}
	}
	return nil
}

func CheckUnique(c Census, bt catalog.BuildingType) error {
	if bt.Unique && c.ByType[bt.ID] > 0 {
		return errors.Newf(errors.ErrorTypeDuplicateUnique, "%s already exists and is unique", bt.Name)
	}
	return nil
}

// PopulationCap sums the population supported by every building.
func PopulationCap(registry *catalog.Registry, buildings []Building) int64 {
	var total int64
	for _, b := range buildings {
		if bt, ok := registry.Building(b.TypeID); ok {
			total += bt.PopulationAt(b.Level)
		}
	}
	return total
}

func Generators(registry *catalog.Registry, buildings []Building) []resource.Generator {
	var gens []resource.Generator
	for _, b := range buildings {
		if g, ok := registry.Generator(b.TypeID, b.Level); ok {
			gens = append(gens, g)
		}
	}
	return gens
}

// NearestFreeCell picks the free cell closest to the grid center, breaking
// ties by row then column.
func NearestFreeCell(registry *catalog.Registry, c Census) (Position, bool) {
	size := registry.GridSize()
	center := size / 2

	free := make([]Position, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !c.Occupied(x, y) {
				free = append(free, Position{X: x, Y: y})
			}
		}
	}
	if len(free) == 0 {
		return Position{}, false
	}

	dist := func(p Position) int {
		dx, dy := p.X-center, p.Y-center
		return dx*dx + dy*dy
	}
	slices.SortStableFunc(free, func(a, b Position) int {
		return dist(a) - dist(b)
	})
	return free[0], true
}
