package training

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"village-server/internal/catalog"
	"village-server/internal/resource"
	"village-server/internal/shared/clock"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/lock"
	"village-server/internal/village"
)

//go:generate go tool mockgen -destination=./mocks/store_mock.go -package=mocks . Store

// MaxBatch bounds one queue entry so cost, population and duration stay
// well inside int64.
const MaxBatch int64 = 10_000

type Store interface {
	InsertEntry(ctx context.Context, e Entry) error
	GetEntry(ctx context.Context, playerID, entryID string) (Entry, error)
	ListEntries(ctx context.Context, playerID string) ([]Entry, error)
	MarkCompleted(ctx context.Context, playerID, entryID string, completedAt time.Time) (bool, error)
}

type Village interface {
	Building(ctx context.Context, playerID, buildingID string) (village.Building, error)
	PopulationCap(ctx context.Context, playerID string) (int64, error)
}

type Ledger interface {
	Load(ctx context.Context, playerID string) (resource.Counters, error)
	Debit(ctx context.Context, current resource.Counters, cost resource.Amounts, change resource.Change) (resource.Counters, error)
	Apply(ctx context.Context, current resource.Counters, change resource.Change) (resource.Counters, error)
}

type Troops interface {
	Add(ctx context.Context, playerID, troopType string, qty int64) error
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Scheduler struct {
	store    Store
	village  Village
	ledger   Ledger
	troops   Troops
	tx       Transactor
	registry *catalog.Registry
	locker   lock.Locker
	clock    clock.Clock
	logger   *slog.Logger
}

func NewScheduler(store Store, v Village, ledger Ledger, troops Troops, tx Transactor,
	registry *catalog.Registry, locker lock.Locker, clk clock.Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		village:  v,
		ledger:   ledger,
		troops:   troops,
		tx:       tx,
		registry: registry,
		locker:   locker,
		clock:    clk,
		logger:   logger,
	}
}

type EnqueueResult struct {
	Entry     Entry             `json:"entry"`
	Resources resource.Counters `json:"resources"`
}

// Enqueue deducts the training cost and reserves population, then records
// the queue entry. If the entry cannot be recorded the deduction is
// refunded.
func (s *Scheduler) Enqueue(ctx context.Context, playerID, troopTypeID, buildingID string, quantity int64) (*EnqueueResult, error) {
	logger := s.logger.With("component", "training_scheduler", "operation", "enqueue",
		"player_id", playerID, "troop_type", troopTypeID, "building_id", buildingID, "quantity", quantity)

	if quantity <= 0 {
		return nil, errors.Validationf("quantity must be positive, got %d", quantity)
	}
	if quantity > MaxBatch {
		return nil, errors.Validationf("quantity must not exceed %d, got %d", MaxBatch, quantity)
	}
	tt, ok := s.registry.Troop(troopTypeID)
	if !ok {
		return nil, errors.NotFoundf("troop type %s not found", troopTypeID)
	}

	release, err := s.locker.Acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	b, err := s.village.Building(ctx, playerID, buildingID)
	if err != nil {
		return nil, err
	}
	if !tt.TrainableAt(b.TypeID) {
		return nil, errors.Validationf("%s cannot be trained at %s", tt.Name, b.TypeID)
	}
	if b.Level < tt.RequiredBuildingLevel {
		return nil, errors.WithDetails(errors.ErrorTypeBuildingLevelTooLow,
			"building level too low",
			map[string]any{"building_level": b.Level, "required": tt.RequiredBuildingLevel})
	}

	counters, err := s.ledger.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	cost := tt.Cost.Scale(quantity)
	if err := resource.CheckAffordable(counters.Amounts, cost); err != nil {
		return nil, err
	}

	popCap, err := s.village.PopulationCap(ctx, playerID)
	if err != nil {
		return nil, err
	}
	required := tt.Population * quantity
	if required > popCap-counters.PopulationUsed {
		return nil, errors.WithDetails(errors.ErrorTypePopulationLimit,
			"population limit reached",
			map[string]any{"current": counters.PopulationUsed, "required": required, "cap": popCap})
	}

	debited, err := s.ledger.Debit(ctx, counters, cost, resource.Change{Population: required, PopulationCap: &popCap})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	entry := Entry{
		ID:         uuid.NewString(),
		PlayerID:   playerID,
		TroopType:  tt.ID,
		BuildingID: b.ID,
		Quantity:   quantity,
		StartedAt:  now,
		EndsAt:     now.Add(tt.TrainingDuration(quantity)),
		Status:     StatusTraining,
	}
	if err := s.store.InsertEntry(ctx, entry); err != nil {
		refund := resource.Change{Resources: cost, Population: -required}
		if _, refundErr := s.ledger.Apply(ctx, debited, refund); refundErr != nil {
			logger.Error("Training entry not recorded and refund failed, resources lost",
				"cost", cost.Map(),
				"error", err,
				"refund_error", refundErr)
		} else {
			logger.Warn("Training entry not recorded, cost refunded", "error", err)
		}
		return nil, err
	}

	logger.Info("Training enqueued", "entry_id", entry.ID, "ends_at", entry.EndsAt)
	return &EnqueueResult{Entry: entry, Resources: debited}, nil
}

// Resolve completes a finished entry exactly once and adds its troops.
func (s *Scheduler) Resolve(ctx context.Context, playerID, entryID string) (*Entry, error) {
	release, err := s.locker.Acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	entry, err := s.store.GetEntry(ctx, playerID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != StatusTraining {
		return nil, errors.Newf(errors.ErrorTypeAlreadyResolved, "training entry %s is already resolved", entryID)
	}

	now := s.clock.Now()
	if !entry.Due(now) {
		return nil, errors.WithDetails(errors.ErrorTypeTrainingInProgress,
			"training still in progress",
			map[string]any{"ends_at": entry.EndsAt, "remaining_seconds": int64(entry.EndsAt.Sub(now).Seconds())})
	}

	if err := s.complete(ctx, &entry, now); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ResolveDue completes every entry of the player whose end time has passed.
func (s *Scheduler) ResolveDue(ctx context.Context, playerID string) ([]Entry, error) {
	release, err := s.locker.Acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	entries, err := s.store.ListEntries(ctx, playerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	resolved := []Entry{}
	for _, entry := range entries {
		if !entry.Due(now) {
			continue
		}
		if err := s.complete(ctx, &entry, now); err != nil {
			return resolved, err
		}
		resolved = append(resolved, entry)
	}
	return resolved, nil
}

func (s *Scheduler) Queue(ctx context.Context, playerID string) ([]Entry, error) {
	return s.store.ListEntries(ctx, playerID)
}

// complete flips the status and adds the troops in one transaction.
func (s *Scheduler) complete(ctx context.Context, entry *Entry, now time.Time) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ok, err := s.store.MarkCompleted(ctx, entry.PlayerID, entry.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Newf(errors.ErrorTypeAlreadyResolved, "training entry %s is already resolved", entry.ID)
		}
		return s.troops.Add(ctx, entry.PlayerID, entry.TroopType, entry.Quantity)
	})
	if err != nil {
		return errors.WrapStore("failed to resolve training entry", err)
	}

	entry.Status = StatusCompleted
	entry.CompletedAt = &now

	s.logger.Info("Training resolved",
		"component", "training_scheduler",
		"player_id", entry.PlayerID,
		"entry_id", entry.ID,
		"troop_type", entry.TroopType,
		"quantity", entry.Quantity)
	return nil
}
