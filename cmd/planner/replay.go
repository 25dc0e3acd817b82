package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/temporal"

	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <problem-file>",
	Short: "Schedule a plan and print the world at every checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, res, err := runPlanner(cmd, args[0], true)
		if err != nil {
			return err
		}
		if !res.Found {
			return errors.New("replay: no plan found")
		}

		w := cmd.OutOrStdout()
		m := temporal.NewStateManager(p, res.Plan)
		printSnapshot(w, m)
		for {
			moved, err := m.GoToNextCheckpoint()
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			if !moved {
				return nil
			}
			printSnapshot(w, m)
		}
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func printSnapshot(w io.Writer, m *temporal.StateManager) {
	fmt.Fprintf(w, "t=%d", m.CurrentTime())
	if ta, ok := m.LastAction(); ok {
		fmt.Fprintf(w, " last=%s", ta.Action)
	}
	fmt.Fprintln(w)

	p := m.CurrentState()
	for _, v := range p.Vehicles() {
		fmt.Fprintf(w, "  %s %s fuel=%d/%d load=[%s]\n",
			v.Name, position(v), v.CurFuel, v.MaxFuel, strings.Join(v.Packages, " "))
	}
	for _, pkg := range p.Packages() {
		where := pkg.Location
		if pkg.Loaded() {
			where = "in vehicle"
		}
		fmt.Fprintf(w, "  %s at %s target %s\n", pkg.Name, where, pkg.Target)
	}
}

func position(v domain.Vehicle) string {
	if v.Location == "" {
		return "on " + v.Road
	}
	if v.Loading {
		return "loading at " + v.Location
	}
	return "at " + v.Location
}
