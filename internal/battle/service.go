package battle

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"village-server/internal/catalog"
	"village-server/internal/resource"
	"village-server/internal/shared/clock"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/lock"
	"village-server/internal/troop"
	"village-server/internal/village"
)

//go:generate go tool mockgen -destination=./mocks/records_mock.go -package=mocks . RecordStore

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

type RecordStore interface {
	InsertRecord(ctx context.Context, rec Record) error
	ListRecords(ctx context.Context, playerID string, limit int) ([]Record, error)
}

type Village interface {
	Buildings(ctx context.Context, playerID string) ([]village.Building, error)
}

type Ledger interface {
	Load(ctx context.Context, playerID string) (resource.Counters, error)
	Apply(ctx context.Context, current resource.Counters, change resource.Change) (resource.Counters, error)
}

type Troops interface {
	Inventory(ctx context.Context, playerID string) (troop.Inventory, error)
	DefenseOf(ctx context.Context, playerID string) ([]troop.Assignment, error)
	Remove(ctx context.Context, playerID string, losses map[string]int64) (troop.Inventory, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	records  RecordStore
	village  Village
	ledger   Ledger
	troops   Troops
	tx       Transactor
	registry *catalog.Registry
	locker   lock.Locker
	clock    clock.Clock
	logger   *slog.Logger
}

func NewService(records RecordStore, v Village, ledger Ledger, troops Troops, tx Transactor,
	registry *catalog.Registry, locker lock.Locker, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		records:  records,
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

type sides struct {
	attackerInventory troop.Inventory
	attackerCounters  resource.Counters
	defenderCounters  resource.Counters
	defenderGarrison  []troop.Assignment
	defenderBuildings []village.Building
}

// Execute fights one battle. Both players are locked in id order for the
// whole read-modify-write. The outcome commits atomically; the history
// record is written afterwards and its failure only produces a warning.
func (s *Service) Execute(ctx context.Context, attackerID, defenderID string, troops map[string]int64) (*Report, error) {
	logger := s.logger.With("component", "battle_service", "operation", "execute",
		"attacker_id", attackerID, "defender_id", defenderID)

	if attackerID == defenderID {
		return nil, errors.Validation("a player cannot attack themselves")
	}
	if err := s.validateTroops(troops); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, attackerID, defenderID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := s.load(ctx, attackerID, defenderID)
	if err != nil {
		return nil, err
	}

	if err := troop.CheckAvailable(state.attackerInventory, troops); err != nil {
		return nil, err
	}

	resolution := Resolve(
		AttackPower(s.registry, troops),
		DefensePower(s.registry, state.defenderGarrison, state.defenderBuildings),
	)
	losses := resolution.Losses(troops)
	stolen := resolution.Pillage(state.defenderCounters.Amounts)

	var released int64
	for troopType, n := range losses {
		tt, _ := s.registry.Troop(troopType)
		released += n * tt.Population
	}

	var attackerAfter resource.Counters
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if len(losses) > 0 {
			if _, err := s.troops.Remove(ctx, attackerID, losses); err != nil {
				return err
			}
		}

		var err error
		attackerAfter, err = s.ledger.Apply(ctx, state.attackerCounters, resource.Change{
			Resources:  stolen,
			Population: -released,
		})
		if err != nil {
			return err
		}

		if !stolen.IsZero() {
			if _, err := s.ledger.Apply(ctx, state.defenderCounters, resource.Change{Resources: stolen.Neg()}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapStore("failed to apply battle outcome", err)
	}

	lossFraction, _ := resolution.LossFraction.Float64()
	stealFraction, _ := resolution.StealFraction.Float64()
	record := Record{
		ID:              uuid.NewString(),
		AttackerID:      attackerID,
		DefenderID:      defenderID,
		AttackPower:     resolution.AttackPower,
		DefensePower:    resolution.DefensePower,
		Outcome:         resolution.Outcome,
		LossFraction:    lossFraction,
		StealFraction:   stealFraction,
		TroopsUsed:      TroopCounts(troops),
		AttackerLosses:  TroopCounts(losses),
		DefenderLosses:  TroopCounts{},
		ResourcesStolen: Loot(stolen),
		CreatedAt:       s.clock.Now(),
	}

	report := &Report{Record: record, Resources: attackerAfter}
	if err := s.records.InsertRecord(ctx, record); err != nil {
		logger.Warn("Battle applied but its record was not stored", "battle_id", record.ID, "error", err)
		report.Warnings = append(report.Warnings, "battle record not stored: "+err.Error())
	}

	logger.Info("Battle resolved",
		"battle_id", record.ID,
		"outcome", record.Outcome,
		"attack_power", record.AttackPower,
		"defense_power", record.DefensePower,
		"losses", losses,
		"stolen", stolen.Map())
	return report, nil
}

func (s *Service) History(ctx context.Context, playerID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)
	return s.records.ListRecords(ctx, playerID, limit)
}

func (s *Service) validateTroops(troops map[string]int64) error {
	if len(troops) == 0 {
		return errors.Validation("at least one troop type must attack")
	}
	for troopType, qty := range troops {
		if qty <= 0 {
			return errors.Validationf("quantity of %s must be positive, got %d", troopType, qty)
		}
		if _, ok := s.registry.Troop(troopType); !ok {
			return errors.NotFoundf("troop type %s not found", troopType)
		}
	}
	return nil
}

// load reads both sides concurrently. The defender must have a village.
func (s *Service) load(ctx context.Context, attackerID, defenderID string) (*sides, error) {
	var st sides
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		st.attackerInventory, err = s.troops.Inventory(gctx, attackerID)
		return err
	})
	g.Go(func() error {
		var err error
		st.attackerCounters, err = s.ledger.Load(gctx, attackerID)
		return err
	})
	g.Go(func() error {
		var err error
		st.defenderCounters, err = s.ledger.Load(gctx, defenderID)
		if errors.Is(err, errors.ErrorTypeNotFound) {
			return errors.NotFoundf("defender %s not found", defenderID)
		}
		return err
	})
	g.Go(func() error {
		var err error
		st.defenderGarrison, err = s.troops.DefenseOf(gctx, defenderID)
		return err
	})
	g.Go(func() error {
		var err error
		st.defenderBuildings, err = s.village.Buildings(gctx, defenderID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}
