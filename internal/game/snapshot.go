package game

import (
	"context"

	"golang.org/x/sync/errgroup"

	"village-server/internal/resource"
	"village-server/internal/training"
	"village-server/internal/troop"
	"village-server/internal/village"
)

// Snapshot is everything a client needs to draw one village.
type Snapshot struct {
	Resources resource.Counters  `json:"resources"`
	Buildings []village.Building `json:"buildings"`
	Troops    troop.Inventory    `json:"troops"`
	Defense   []troop.Assignment `json:"defense"`
	Training  []training.Entry   `json:"training"`
}

// Snapshot accrues pending production, then reads the rest of the village
// concurrently.
func (g *Game) Snapshot(ctx context.Context, playerID string) (*Snapshot, error) {
	accrual, err := g.Ledger.Accrue(ctx, playerID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Resources: accrual.Counters}
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		snap.Buildings, err = g.Villages.Buildings(egCtx, playerID)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.Troops, err = g.Troops.Inventory(egCtx, playerID)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.Defense, err = g.Troops.DefenseOf(egCtx, playerID)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.Training, err = g.Scheduler.Queue(egCtx, playerID)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if snap.Buildings == nil {
		snap.Buildings = []village.Building{}
	}
	if snap.Defense == nil {
		snap.Defense = []troop.Assignment{}
	}
	if snap.Training == nil {
		snap.Training = []training.Entry{}
	}
	return snap, nil
}
