package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village-server/internal/resource"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 15, r.GridSize())
	assert.Equal(t, 4, r.MaxTownHallLevel())
	assert.Equal(t, resource.Amounts{Wood: 1000, Stone: 800, Food: 600, Iron: 400, Gold: 100}, r.StartingResources())

	th := r.TownHall()
	assert.True(t, th.IsTownHall())
	assert.True(t, th.Unique)
	assert.Equal(t, CategorySpecial, th.Category)
	assert.Equal(t, 4, r.MaxLevel(th))

	wall, ok := r.Building("wall")
	require.True(t, ok)
	assert.Equal(t, CategoryWall, wall.Category)
	assert.Equal(t, 4, r.MaxLevel(wall))

	_, ok = r.Building("castle")
	assert.False(t, ok)
}

func TestGenerator(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	g, ok := r.Generator("lumber_mill", 1)
	require.True(t, ok)
	assert.Equal(t, resource.Generator{Kind: resource.Wood, BaseRate: 10, MultiplierPct: 100, FlatBonus: 0}, g)
	assert.Equal(t, int64(50), g.Produce(5))

	g, ok = r.Generator("quarry", 3)
	require.True(t, ok)
	assert.Equal(t, int64(200), g.MultiplierPct)
	assert.Equal(t, int64(2), g.FlatBonus)
	assert.Equal(t, int64(18), g.Produce(1))

	_, ok = r.Generator("house", 1)
	assert.False(t, ok)
	_, ok = r.Generator("farm", 0)
	assert.False(t, ok)
}

func TestCapsAndCosts(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 0, r.BuildingCap(0))
	assert.Equal(t, 5, r.BuildingCap(1))
	assert.Equal(t, 10, r.BuildingCap(2))
	assert.Equal(t, 15, r.BuildingCap(3))
	assert.Equal(t, 25, r.BuildingCap(4))
	assert.Equal(t, 25, r.BuildingCap(7))
	assert.Equal(t, 5, r.WallCap(1))
	assert.Equal(t, 20, r.WallCap(4))

	cost, ok := r.UpgradeCost(TownHall, 2)
	require.True(t, ok)
	assert.Equal(t, int64(1000), cost.Wood)

	_, ok = r.UpgradeCost(TownHall, 5)
	assert.False(t, ok)
	_, ok = r.UpgradeCost("lumber_mill", 1)
	assert.False(t, ok)

	assert.True(t, r.InGrid(0, 0))
	assert.True(t, r.InGrid(14, 14))
	assert.False(t, r.InGrid(15, 3))
	assert.False(t, r.InGrid(-1, 3))
}

func TestPopulationAndTroops(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	house, _ := r.Building("house")
	assert.Equal(t, int64(5), house.PopulationAt(1))
	assert.Equal(t, int64(16), house.PopulationAt(4))
	assert.Equal(t, int64(16), house.PopulationAt(9))
	assert.Equal(t, int64(0), house.PopulationAt(0))

	farm, _ := r.Building("farm")
	assert.Equal(t, int64(0), farm.PopulationAt(2))

	warrior, ok := r.Troop("warrior")
	require.True(t, ok)
	assert.True(t, warrior.TrainableAt("barracks"))
	assert.False(t, warrior.TrainableAt("watch_tower"))
	assert.Equal(t, 100*time.Second, warrior.TrainingDuration(5))
}

func TestValidateRejectsBadCatalogs(t *testing.T) {
	base, err := Default()
	require.NoError(t, err)

	testCases := []struct {
		name   string
		mutate func(doc *Document)
	}{
		{"no town hall", func(doc *Document) { doc.Buildings = doc.Buildings[1:] }},
		{"unknown produced kind", func(doc *Document) { doc.Buildings[2].Produces = "mana" }},
		{"short level table", func(doc *Document) { doc.Levels.MultiplierPct = []int64{100} }},
		{"troop at unknown building", func(doc *Document) { doc.Troops[0].TrainedAt = []string{"tavern"} }},
		{"troop at non-barracks", func(doc *Document) { doc.Troops[0].TrainedAt = []string{"wall"} }},
		{"negative cost", func(doc *Document) { doc.Buildings[3].Cost.Wood = -1 }},
		{"upgrade past max", func(doc *Document) {
			doc.Buildings[0].UpgradeCosts = map[int]resource.Amounts{5: {Wood: 1}}
		}},
		{"duplicate building", func(doc *Document) { doc.Buildings = append(doc.Buildings, doc.Buildings[1]) }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := clone(base.Document())
			tc.mutate(&doc)
			_, err := New(doc)
			assert.Error(t, err)
		})
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, defaultCatalog, 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, r.Buildings(), len(r.Document().Buildings))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("grid_size: [nope"))
	assert.Error(t, err)
}

func clone(doc Document) Document {
	out := doc
	out.Buildings = append([]BuildingType(nil), doc.Buildings...)
	out.Troops = append([]TroopType(nil), doc.Troops...)
	for i, t := range out.Troops {
		out.Troops[i].TrainedAt = append([]string(nil), t.TrainedAt...)
	}
	out.Levels.MultiplierPct = append([]int64(nil), doc.Levels.MultiplierPct...)
	return out
}
