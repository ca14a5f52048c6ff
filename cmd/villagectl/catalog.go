package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"village-server/internal/catalog"
	"village-server/internal/resource"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print building and troop types",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(cmd)
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), registry)
		},
	}
}

func loadRegistry(cmd *cobra.Command) (*catalog.Registry, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func printCatalog(w io.Writer, registry *catalog.Registry) error {
	title := color.New(color.FgCyan, color.Bold)

	title.Fprintf(w, "Buildings (grid %dx%d, town hall up to level %d)\n",
		registry.GridSize(), registry.GridSize(), registry.MaxTownHallLevel())
	buildings := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"ID", "Category", "Town Hall", "Unique", "Cost", "Produces"}),
	)
	for _, bt := range registry.Buildings() {
		produces := "-"
		if bt.IsGenerator() {
			produces = fmt.Sprintf("%s %d/min", bt.Produces, bt.BaseRate)
		}
		if err := buildings.Append([]string{
			bt.ID,
			string(bt.Category),
			strconv.Itoa(bt.RequiredTownHallLevel),
			strconv.FormatBool(bt.Unique),
			formatAmounts(bt.Cost),
			produces,
		}); err != nil {
			return err
		}
	}
	if err := buildings.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	title.Fprintln(w, "Troops")
	troops := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"ID", "Power", "Population", "Cost", "Trained At", "Seconds"}),
	)
	for _, tt := range registry.Troops() {
		if err := troops.Append([]string{
			tt.ID,
			strconv.FormatInt(tt.Power, 10),
			strconv.FormatInt(tt.Population, 10),
			formatAmounts(tt.Cost),
			fmt.Sprintf("%s (level %d)", strings.Join(tt.TrainedAt, ", "), tt.RequiredBuildingLevel),
			strconv.FormatInt(tt.TrainingSeconds, 10),
		}); err != nil {
			return err
		}
	}
	return troops.Render()
}

func formatAmounts(a resource.Amounts) string {
	var parts []string
	for _, k := range resource.Kinds {
		if v := a.Get(k); v != 0 {
			parts = append(parts, fmt.Sprintf("%s %d", k, v))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
