package troop

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"village-server/internal/catalog"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/lock"
	"village-server/internal/village"
)

type Store interface {
	ListInventory(ctx context.Context, playerID string) ([]Stack, error)
	GetQuantity(ctx context.Context, playerID, troopType string) (int64, error)
	AddQuantity(ctx context.Context, playerID, troopType string, qty int64) error
	SetQuantity(ctx context.Context, playerID, troopType string, qty int64) error
	DefenseAssignments(ctx context.Context, playerID string) ([]Assignment, error)
	SetAssignment(ctx context.Context, a Assignment) error
}

type BuildingLookup interface {
	Building(ctx context.Context, playerID, buildingID string) (village.Building, error)
}

// Service owns troop inventories. AssignDefense takes the player lock; the
// other writes run inside a caller-held lock and transaction.
type Service struct {
	store     Store
	buildings BuildingLookup
	registry  *catalog.Registry
	locker    lock.Locker
	logger    *slog.Logger
}

func NewService(store Store, buildings BuildingLookup, registry *catalog.Registry, locker lock.Locker, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		buildings: buildings,
		registry:  registry,
		locker:    locker,
		logger:    logger,
	}
}

func (s *Service) Inventory(ctx context.Context, playerID string) (Inventory, error) {
	stacks, err := s.store.ListInventory(ctx, playerID)
	if err != nil {
		return nil, err
	}

	inv := make(Inventory, len(stacks))
	for _, st := range stacks {
		inv[st.TroopType] = st.Quantity
	}
	return inv, nil
}

func (s *Service) Add(ctx context.Context, playerID, troopType string, qty int64) error {
	if qty <= 0 {
		return errors.Validationf("quantity must be positive, got %d", qty)
	}
	return s.store.AddQuantity(ctx, playerID, troopType, qty)
}

// Remove subtracts losses, deleting stacks that reach zero, then trims the
// player's defense assignments to what is still owned.
func (s *Service) Remove(ctx context.Context, playerID string, losses map[string]int64) (Inventory, error) {
	for _, troopType := range sortedKeys(losses) {
		loss := losses[troopType]
		if loss <= 0 {
			continue
		}
		owned, err := s.store.GetQuantity(ctx, playerID, troopType)
		if err != nil {
			return nil, err
		}
		if err := s.store.SetQuantity(ctx, playerID, troopType, max(owned-loss, 0)); err != nil {
			return nil, err
		}
	}

	inv, err := s.Inventory(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := s.TrimAssignments(ctx, playerID, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// DefenseOf returns any player's garrison, including the attacker's view of
// a defender.
func (s *Service) DefenseOf(ctx context.Context, playerID string) ([]Assignment, error) {
	return s.store.DefenseAssignments(ctx, playerID)
}

// AssignDefense sets how many troops of a type guard a defensive building.
// Zero removes the assignment.
func (s *Service) AssignDefense(ctx context.Context, playerID, buildingID, troopType string, qty int64) ([]Assignment, error) {
	logger := s.logger.With("component", "troop_service", "operation", "assign_defense",
		"player_id", playerID, "building_id", buildingID, "troop_type", troopType)

	if qty < 0 {
		return nil, errors.Validationf("quantity must not be negative, got %d", qty)
	}
	if _, ok := s.registry.Troop(troopType); !ok {
		return nil, errors.NotFoundf("troop type %s not found", troopType)
	}

	release, err := s.locker.Acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.buildings.Building(ctx, playerID, buildingID)
	if err != nil {
		return nil, err
	}
	if bt, ok := s.registry.Building(b.TypeID); !ok || bt.Category != catalog.CategoryDefensive {
		return nil, errors.Validationf("building %s is not a defensive building", buildingID)
	}

	assignments, err := s.store.DefenseAssignments(ctx, playerID)
	if err != nil {
		return nil, err
	}
	owned, err := s.store.GetQuantity(ctx, playerID, troopType)
	if err != nil {
		return nil, err
	}

	var elsewhere int64
	for _, a := range assignments {
		if a.TroopType == troopType && a.BuildingID != buildingID {
			elsewhere += a.Quantity
		}
	}
	if qty > owned-elsewhere {
		return nil, errors.WithDetails(errors.ErrorTypeInsufficientTroops,
			fmt.Sprintf("insufficient troops: %s requested %d with %d assigned elsewhere of %d owned", troopType, qty, elsewhere, owned),
			map[string]any{"troop_type": troopType, "requested": qty, "assigned_elsewhere": elsewhere, "owned": owned})
	}

	if err := s.store.SetAssignment(ctx, Assignment{
		PlayerID:   playerID,
		BuildingID: buildingID,
		TroopType:  troopType,
		Quantity:   qty,
	}); err != nil {
		return nil, err
	}

	logger.Debug("Defense assignment updated", "quantity", qty)
	return s.store.DefenseAssignments(ctx, playerID)
}

// TrimAssignments lowers assignments until no troop type is assigned beyond
// what inv holds. Later buildings give up troops first.
func (s *Service) TrimAssignments(ctx context.Context, playerID string, inv Inventory) error {
	assignments, err := s.store.DefenseAssignments(ctx, playerID)
	if err != nil {
		return err
	}

	excess := AssignedByType(assignments)
	for troopType, assigned := range excess {
		excess[troopType] = assigned - inv[troopType]
	}

	for i := len(assignments) - 1; i >= 0; i-- {
		a := assignments[i]
		over := excess[a.TroopType]
		if over <= 0 {
			continue
		}

		cut := min(over, a.Quantity)
		a.Quantity -= cut
		excess[a.TroopType] -= cut
		if err := s.store.SetAssignment(ctx, a); err != nil {
			return err
		}
		s.logger.Debug("Defense assignment trimmed",
			"component", "troop_service",
			"player_id", playerID,
			"building_id", a.BuildingID,
			"troop_type", a.TroopType,
			"removed", cut)
	}
	return nil
}

// CheckAvailable fails with insufficient_troops when inv cannot field
// every requested quantity.
func CheckAvailable(inv Inventory, requested map[string]int64) error {
	var parts []string
	short := make(map[string]int64)
	for _, troopType := range sortedKeys(requested) {
		if d := requested[troopType] - inv[troopType]; d > 0 {
			short[troopType] = d
			parts = append(parts, fmt.Sprintf("%s short by %d", troopType, d))
		}
	}
	if len(short) == 0 {
		return nil
	}
	return errors.WithDetails(errors.ErrorTypeInsufficientTroops,
		"insufficient troops: "+strings.Join(parts, ", "),
		map[string]any{"shortfall": short})
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
