// Package construction admits and applies building construction and
// upgrade requests.
package construction

import (
	"context"
	"log/slog"

	"village-server/internal/catalog"
	"village-server/internal/resource"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/lock"
	"village-server/internal/village"
)

//go:generate go tool mockgen -destination=./mocks/deps_mock.go -package=mocks . Village,Ledger

type Village interface {
	Buildings(ctx context.Context, playerID string) ([]village.Building, error)
	Building(ctx context.Context, playerID, buildingID string) (village.Building, error)
	Place(ctx context.Context, playerID, typeID string, pos village.Position) (village.Building, error)
	SetLevel(ctx context.Context, b village.Building, level int) (village.Building, error)
	EnsureTownHall(ctx context.Context, playerID string) (village.Building, bool, error)
}

// Ledger is used inside the player lock. AccrueLocked settles production
// up to now so a building change only affects time after it.
type Ledger interface {
	AccrueLocked(ctx context.Context, playerID string) (resource.Accrual, error)
	Debit(ctx context.Context, current resource.Counters, cost resource.Amounts, change resource.Change) (resource.Counters, error)
	Apply(ctx context.Context, current resource.Counters, change resource.Change) (resource.Counters, error)
}

type Result struct {
	Building  village.Building  `json:"building"`
	Resources resource.Counters `json:"resources"`
	// Warning is set when the building was committed but the cost could not
	// be deducted.
	Warning string `json:"warning,omitempty"`
}

type Planner struct {
	village  Village
	ledger   Ledger
	registry *catalog.Registry
	locker   lock.Locker
	logger   *slog.Logger
}

func NewPlanner(v Village, ledger Ledger, registry *catalog.Registry, locker lock.Locker, logger *slog.Logger) *Planner {
	return &Planner{
		village:  v,
		ledger:   ledger,
		registry: registry,
		locker:   locker,
		logger:   logger,
	}
}

// Construct places a new level 1 building. The building is committed before
// the cost is deducted; a failed deduction leaves the building in place and
// is reported through Result.Warning.
func (p *Planner) Construct(ctx context.Context, playerID, typeID string, x, y int) (*Result, error) {
	logger := p.logger.With("component", "construction_planner", "operation", "construct",
		"player_id", playerID, "building_type", typeID, "x", x, "y", y)

	release, err := p.locker.Acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	buildings, err := p.village.Buildings(ctx, playerID)
	if err != nil {
		return nil, err
	}
	census := village.TakeCensus(p.registry, buildings)

	if err := village.CheckPosition(p.registry, census, x, y); err != nil {
		return nil, err
	}

	bt, ok := p.registry.Building(typeID)
	if !ok {
		return nil, errors.NotFoundf("unknown building type %s", typeID)
	}

	settled, err := p.ledger.AccrueLocked(ctx, playerID)
	if err != nil {
		return nil, err
	}
	counters := settled.Counters
	if err := resource.CheckAffordable(counters.Amounts, bt.Cost); err != nil {
		return nil, err
	}

	if !bt.IsTownHall() {
		if census.TownHall == nil {
			if _, _, err := p.village.EnsureTownHall(ctx, playerID); err != nil {
				return nil, err
			}
			if buildings, err = p.village.Buildings(ctx, playerID); err != nil {
				return nil, err
			}
			census = village.TakeCensus(p.registry, buildings)
			if err := village.CheckPosition(p.registry, census, x, y); err != nil {
				return nil, err
			}
		}
		if level := census.TownHallLevel(); level < bt.RequiredTownHallLevel {
			return nil, errors.WithDetails(errors.ErrorTypeTownHallLevelTooLow,
				"town hall level too low",
				map[string]any{"town_hall_level": level, "required": bt.RequiredTownHallLevel})
		}
	}

	if err := village.CheckCapacity(p.registry, census, bt); err != nil {
		return nil, err
	}
	if err := village.CheckUnique(census, bt); err != nil {
		return nil, err
	}

	b, err := p.village.Place(ctx, playerID, typeID, village.Position{X: x, Y: y})
	if err != nil {
		return nil, err
	}

	popCap := village.PopulationCap(p.registry, append(buildings, b))
	after, err := p.ledger.Debit(ctx, counters, bt.Cost, resource.Change{PopulationCap: &popCap})
	if err != nil {
		logger.Error("Building created but cost deduction failed, resources and village are inconsistent",
			"building_id", b.ID,
			"cost", bt.Cost.Map(),
			"error", err)
		return &Result{
			Building:  b,
			Resources: counters,
			Warning:   "building created but its cost could not be deducted: " + err.Error(),
		}, nil
	}

	logger.Info("Building constructed", "building_id", b.ID)
	return &Result{Building: b, Resources: after}, nil
}

// Upgrade raises a building by exactly one level. The cost is deducted first
// and refunded if the level change cannot be written.
func (p *Planner) Upgrade(ctx context.Context, playerID, buildingID string, targetLevel int) (*Result, error) {
	logger := p.logger.With("component", "construction_planner", "operation", "upgrade",
		"player_id", playerID, "building_id", buildingID, "target_level", targetLevel)

	release, err := p.locker.Acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := p.village.Building(ctx, playerID, buildingID)
	if err != nil {
		return nil, err
	}
	bt, ok := p.registry.Building(b.TypeID)
	if !ok {
		return nil, errors.NotFoundf("unknown building type %s", b.TypeID)
	}

	if targetLevel != b.Level+1 {
		return nil, errors.Validationf("target level must be %d, got %d", b.Level+1, targetLevel)
	}
	if maxLevel := p.registry.MaxLevel(bt); targetLevel > maxLevel {
		return nil, errors.WithDetails(errors.ErrorTypeMaxLevelExceeded,
			"maximum level exceeded",
			map[string]any{"max_level": maxLevel, "target_level": targetLevel})
	}

	cost, ok := p.registry.UpgradeCost(bt.ID, targetLevel)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNoUpgradeConfig, "no upgrade cost for %s level %d", bt.ID, targetLevel)
	}

	settled, err := p.ledger.AccrueLocked(ctx, playerID)
	if err != nil {
		return nil, err
	}
	counters := settled.Counters
	if err := resource.CheckAffordable(counters.Amounts, cost); err != nil {
		return nil, err
	}

	buildings, err := p.village.Buildings(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !bt.IsTownHall() {
		level := village.TakeCensus(p.registry, buildings).TownHallLevel()
		if b.Level >= level {
			return nil, errors.WithDetails(errors.ErrorTypeTownHallLevelTooLow,
				"town hall level too low",
				map[string]any{"town_hall_level": level, "building_level": b.Level})
		}
	}

	oldCap := village.PopulationCap(p.registry, buildings)
	newCap := oldCap - bt.PopulationAt(b.Level) + bt.PopulationAt(targetLevel)

	debited, err := p.ledger.Debit(ctx, counters, cost, resource.Change{PopulationCap: &newCap})
	if err != nil {
		return nil, err
	}

	upgraded, err := p.village.SetLevel(ctx, b, targetLevel)
	if err != nil {
		refund := resource.Change{Resources: cost, PopulationCap: &counters.PopulationCap}
		if _, refundErr := p.ledger.Apply(ctx, debited, refund); refundErr != nil {
			logger.Error("Upgrade failed and refund failed, resources lost",
				"cost", cost.Map(),
				"error", err,
				"refund_error", refundErr)
		} else {
			logger.Warn("Upgrade failed, cost refunded", "error", err)
		}
		return nil, err
	}

	logger.Info("Building upgraded", "building_type", bt.ID)
	return &Result{Building: upgraded, Resources: debited}, nil
}
