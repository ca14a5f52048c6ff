package village

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"village-server/internal/catalog"
	"village-server/internal/resource"
	"village-server/internal/shared/clock"
	"village-server/internal/shared/errors"
)

type Store interface {
	ListBuildings(ctx context.Context, playerID string) ([]Building, error)
	GetBuilding(ctx context.Context, playerID, buildingID string) (Building, error)
	InsertBuilding(ctx context.Context, b Building) error
	UpdateLevel(ctx context.Context, b Building, fromLevel int) (bool, error)
}

// Service reads and writes building instances. It takes no locks; callers
// that read then write hold the player lock.
type Service struct {
	store    Store
	registry *catalog.Registry
	clock    clock.Clock
	logger   *slog.Logger
}

func NewService(store Store, registry *catalog.Registry, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		registry: registry,
		clock:    clk,
		logger:   logger,
	}
}

func (s *Service) Registry() *catalog.Registry {
	return s.registry
}

func (s *Service) Buildings(ctx context.Context, playerID string) ([]Building, error) {
	return s.store.ListBuildings(ctx, playerID)
}

func (s *Service) Building(ctx context.Context, playerID, buildingID string) (Building, error) {
	return s.store.GetBuilding(ctx, playerID, buildingID)
}

// Generators lists what the player's buildings produce per minute.
func (s *Service) Generators(ctx context.Context, playerID string) ([]resource.Generator, error) {
	buildings, err := s.store.ListBuildings(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return Generators(s.registry, buildings), nil
}

func (s *Service) PopulationCap(ctx context.Context, playerID string) (int64, error) {
	buildings, err := s.store.ListBuildings(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return PopulationCap(s.registry, buildings), nil
}

// Place inserts a new building without applying any game rule.
func (s *Service) Place(ctx context.Context, playerID, typeID string, pos Position) (Building, error) {
	now := s.clock.Now()
	b := Building{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		TypeID:    typeID,
		Level:     1,
		X:         pos.X,
		Y:         pos.Y,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertBuilding(ctx, b); err != nil {
		return Building{}, err
	}
	return b, nil
}

// SetLevel moves b to level if nobody changed it since it was read.
func (s *Service) SetLevel(ctx context.Context, b Building, level int) (Building, error) {
	next := b
	next.Level = level
	next.UpdatedAt = s.clock.Now()

	ok, err := s.store.UpdateLevel(ctx, next, b.Level)
	if err != nil {
		return Building{}, err
	}
	if !ok {
		return Building{}, errors.Busyf("building %s changed concurrently", b.ID)
	}
	return next, nil
}

// EnsureTownHall creates a level 1 town hall at the free cell nearest the
// grid center when the player has none. The caller holds the player lock.
func (s *Service) EnsureTownHall(ctx context.Context, playerID string) (Building, bool, error) {
	logger := s.logger.With("component", "village_service", "operation", "ensure_town_hall", "player_id", playerID)

	buildings, err := s.store.ListBuildings(ctx, playerID)
	if err != nil {
		return Building{}, false, err
	}

	census := TakeCensus(s.registry, buildings)
	if census.TownHall != nil {
		return *census.TownHall, false, nil
	}

	pos, ok := NearestFreeCell(s.registry, census)
	if !ok {
		return Building{}, false, errors.Newf(errors.ErrorTypePositionOccupied, "no free cell left for a town hall")
	}

	th, err := s.Place(ctx, playerID, catalog.TownHall, pos)
	if err != nil {
		return Building{}, false, err
	}

	logger.Info("Town hall created", "building_id", th.ID, "x", pos.X, "y", pos.Y)
	return th, true, nil
}
