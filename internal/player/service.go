package player

import (
	"context"
	"log/slog"
	"strings"

	"village-server/internal/shared/clock"
	"village-server/internal/shared/errors"
)

const maxUsernameLength = 64

type Service struct {
	repo   *Repository
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(repo *Repository, clk clock.Clock, logger *slog.Logger) *Service {
	logger.Debug("Initializing player service")

	return &Service{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

func (s *Service) GetPlayerCount(ctx context.Context) (int, error) {
	return s.repo.GetPlayerCount(ctx)
}

func (s *Service) GetPlayerByID(ctx context.Context, id string) (*Player, error) {
	return s.repo.GetPlayerByID(ctx, id)
}

// EnsurePlayer records the player behind a verified token the first time it
// is seen and returns the stored record.
func (s *Service) EnsurePlayer(ctx context.Context, id, username string) (*Player, error) {
	logger := s.logger.With(
		"component", "player_service",
		"operation", "ensure",
		"player_id", id,
	)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.Validation("player id is required")
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = "player"
	}
	if len(username) > maxUsernameLength {
		username = username[:maxUsernameLength]
	}

	created, err := s.repo.InsertPlayer(ctx, id, username, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("Registered new player", "username", username)
	}

	return s.repo.GetPlayerByID(ctx, id)
}
