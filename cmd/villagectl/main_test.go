package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	out, err := execute(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "town_hall")
	assert.Contains(t, out, "lumber_mill")
	assert.Contains(t, out, "wood 10/min")
	assert.Contains(t, out, "warrior")
}

func TestBattleSimulate(t *testing.T) {
	out, err := execute(t, "battle", "simulate", "--defense", "80", "--troops", "warrior=10")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "victory"))
	assert.Contains(t, out, "attack power 100 vs defense power 80")
	assert.Contains(t, out, "loss fraction 0.3889")
	assert.Contains(t, out, "stolen: wood 61, stone 48")
}

func TestBattleSimulateRejectsUnknownTroop(t *testing.T) {
	_, err := execute(t, "battle", "simulate", "--troops", "dragon=1")
	assert.ErrorContains(t, err, "unknown troop type")
}

func TestTokenCommand(t *testing.T) {
	out, err := execute(t, "token", "--player", "p1", "--secret", strings.Repeat("s", 32))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "."))

	_, err = execute(t, "token", "--player", "p1", "--secret", "short")
	assert.Error(t, err)
}
