package player

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village-server/internal/shared/clock"
	"village-server/internal/shared/database/dbtest"
	"village-server/internal/shared/errors"
	"village-server/internal/shared/logger"
)

func TestEnsurePlayerIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	clk := clock.NewManual(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	service := NewService(NewRepository(db), clk, logger.Discard())
	ctx := context.Background()

	first, err := service.EnsurePlayer(ctx, "p-1", "  alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, clk.Now(), first.CreatedAt)

	clk.Advance(time.Hour)
	second, err := service.EnsurePlayer(ctx, "p-1", "renamed")
	require.NoError(t, err)
	assert.Equal(t, "alice", second.Username)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	count, err := service.GetPlayerCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEnsurePlayerValidation(t *testing.T) {
	db := dbtest.New(t)
	service := NewService(NewRepository(db), clock.System{}, logger.Discard())

	_, err := service.EnsurePlayer(context.Background(), " ", "bob")
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))

	p, err := service.EnsurePlayer(context.Background(), "p-2", "")
	require.NoError(t, err)
	assert.Equal(t, "player", p.Username)
}

func TestGetPlayerByIDNotFound(t *testing.T) {
	db := dbtest.New(t)
	service := NewService(NewRepository(db), clock.System{}, logger.Discard())

	_, err := service.GetPlayerByID(context.Background(), "ghost")
	assert.True(t, errors.Is(err, errors.ErrorTypeNotFound))
}
