package village

import (
	"context"
	"log/slog"

	"village-server/internal/player"
	"village-server/internal/resource"
	"village-server/internal/shared/lock"
)

type Players interface {
	EnsurePlayer(ctx context.Context, id, username string) (*player.Player, error)
}

type Ledger interface {
	Initialize(ctx context.Context, playerID string) (resource.Counters, error)
	Apply(ctx context.Context, current resource.Counters, change resource.Change) (resource.Counters, error)
}

type Village struct {
	Player    *player.Player    `json:"player"`
	Counters  resource.Counters `json:"resources"`
	TownHall  Building          `json:"town_hall"`
	Buildings []Building        `json:"buildings"`
}

// Bootstrapper brings a player to a playable state. Every step is
// idempotent so a failed bootstrap is completed by the next call.
type Bootstrapper struct {
	players Players
	ledger  Ledger
	village *Service
	locker  lock.Locker
	logger  *slog.Logger
}

func NewBootstrapper(players Players, ledger Ledger, village *Service, locker lock.Locker, logger *slog.Logger) *Bootstrapper {
	return &Bootstrapper{
		players: players,
		ledger:  ledger,
		village: village,
		locker:  locker,
		logger:  logger,
	}
}

func (b *Bootstrapper) Bootstrap(ctx context.Context, playerID, username string) (*Village, error) {
	logger := b.logger.With("component", "village_bootstrap", "operation", "bootstrap", "player_id", playerID)

	release, err := b.locker.Acquire(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer release()

	p, err := b.players.EnsurePlayer(ctx, playerID, username)
	if err != nil {
		return nil, err
	}

	counters, err := b.ledger.Initialize(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	townHall, created, err := b.village.EnsureTownHall(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	buildings, err := b.village.Buildings(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	if popCap := PopulationCap(b.village.Registry(), buildings); popCap != counters.PopulationCap {
		counters, err = b.ledger.Apply(ctx, counters, resource.Change{PopulationCap: &popCap})
		if err != nil {
			return nil, err
		}
	}

	if created {
		logger.Info("Village bootstrapped")
	}

	return &Village{
		Player:    p,
		Counters:  counters,
		TownHall:  townHall,
		Buildings: buildings,
	}, nil
}
