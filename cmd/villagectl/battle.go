package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"village-server/internal/battle"
	"village-server/internal/catalog"
)

func newBattleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battle",
		Short: "Battle tools",
	}
	cmd.AddCommand(newSimulateCmd())
	return cmd
}

func newSimulateCmd() *cobra.Command {
	var (
		defense int64
		troops  map[string]int64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Resolve a battle offline against a fixed defense power",
		Long: `Runs the battle math without touching any database. The defender is
assumed to hold the catalog's starting resources.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			return simulate(cmd.OutOrStdout(), registry, defense, troops)
		},
	}
	cmd.Flags().Int64Var(&defense, "defense", 0, "defender power")
	cmd.Flags().StringToInt64Var(&troops, "troops", nil, "attacking troops, e.g. warrior=10,archer=4")
	_ = cmd.MarkFlagRequired("troops")
	return cmd
}

func simulate(w io.Writer, registry *catalog.Registry, defense int64, troops map[string]int64) error {
	if defense < 0 {
		return fmt.Errorf("defense must not be negative")
	}
	for troopType, qty := range troops {
		if _, ok := registry.Troop(troopType); !ok {
			return fmt.Errorf("unknown troop type %q", troopType)
		}
		if qty <= 0 {
			return fmt.Errorf("quantity of %s must be positive", troopType)
		}
	}

	res := battle.Resolve(battle.AttackPower(registry, troops), defense)
	losses := res.Losses(troops)
	stolen := res.Pillage(registry.StartingResources())

	outcome := color.New(color.FgRed, color.Bold)
	if res.Outcome == battle.OutcomeVictory {
		outcome = color.New(color.FgGreen, color.Bold)
	}
	outcome.Fprintf(w, "%s\n", res.Outcome)
	fmt.Fprintf(w, "attack power %d vs defense power %d\n", res.AttackPower, res.DefensePower)
	fmt.Fprintf(w, "loss fraction %s, steal fraction %s\n",
		res.LossFraction.FloatString(4), res.StealFraction.FloatString(4))

	table := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Troop", "Sent", "Lost", "Survived"}))
	types := make([]string, 0, len(troops))
	for troopType := range troops {
		types = append(types, troopType)
	}
	slices.Sort(types)
	for _, troopType := range types {
		sent, lost := troops[troopType], losses[troopType]
		if err := table.Append([]string{
			troopType,
			strconv.FormatInt(sent, 10),
			strconv.FormatInt(lost, 10),
			strconv.FormatInt(sent-lost, 10),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "stolen: %s\n", formatAmounts(stolen))
	return nil
}
