package main

import (
	"context"
	"fmt"
	"io"
	"transport-planning-service/internal/adapters/problemfile"
	"transport-planning-service/internal/domain"
	"transport-planning-service/internal/services"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <problem-file>",
	Short: "Search for a delivery plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, res, err := runPlanner(cmd, args[0], false)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <problem-file>",
	Short: "Plan and schedule deliveries onto a timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, res, err := runPlanner(cmd, args[0], true)
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd, scheduleCmd)
}

// Load the problem and run the configured planner. scheduled forces the
// temporal domain.
func runPlanner(cmd *cobra.Command, path string, scheduled bool) (*domain.Problem, *services.PlanDeliveriesResult, error) {
	p, d, err := problemfile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if scheduled && !d.Labels().Temporal {
		d = domain.NewTemporalDomain(d.Labels().Fuel)
	}

	planner, _ := cmd.Flags().GetString("planner")
	score, _ := cmd.Flags().GetString("score")

	res, err := services.PlanDeliveries(context.Background(), services.PlanDeliveriesRequest{
		Problem: p,
		Domain:  d,
		Planner: planner,
		Score:   score,
		Timeout: cfg.Planner.Timeout,
	}, plannerOptions(), nil)
	return p, res, err
}

func printResult(w io.Writer, res *services.PlanDeliveriesResult) {
	if !res.Found {
		fmt.Fprintf(w, "no plan found planner=%s dur=%dms\n", res.Planner, res.Duration.Milliseconds())
		return
	}
	for _, ta := range res.Plan.TemporalActions() {
		fmt.Fprintf(w, "%6d %6d  %s\n", ta.Start, ta.End, ta.Action)
	}
	fmt.Fprintf(w, "planner=%s actions=%d score=%g makespan=%d dur=%dms\n",
		res.Planner, len(res.Plan.Actions()), res.Score, res.Makespan, res.Duration.Milliseconds())
}
