package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"transport-planning-service/internal/config"
	"transport-planning-service/internal/services"

	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Plan, schedule and replay package deliveries",
	Long: "planner reads a YAML or JSON problem file, searches for a delivery plan " +
		"and optionally schedules it onto a timeline.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		v, err := config.New(file)
		if err != nil {
			return err
		}
		for key, flag := range map[string]string{
			"planner.seed":        "seed",
			"planner.timeout":     "timeout",
			"planner.exploration": "exploration",
		} {
			if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
				return fmt.Errorf("bind flag %q: %w", flag, err)
			}
		}
		if cfg, err = config.Decode(v); err != nil {
			return err
		}

		logger = log.New(io.Discard, "", 0)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger = log.New(os.Stderr, "", log.LstdFlags)
		}
		log.SetOutput(logger.Writer())
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default ./transport.yaml)")
	flags.BoolP("verbose", "v", false, "log planner progress to stderr")
	flags.String("planner", "astar", "bfs, astar, randomized or portfolio")
	flags.String("score", "cost", "cost, actions or time")
	flags.Duration("timeout", services.DefaultTimeout, "planning time limit")
	flags.Uint64("seed", 2017, "random seed for the randomized planner")
	flags.Float64("exploration", 0.2, "probability of a uniformly random vehicle choice")
}

func plannerOptions() services.PlannerOptions {
	p := cfg.Planner
	return services.PlannerOptions{
		Exploration: p.Exploration,
		Temperature: p.Temperature,
		RefuelMin:   p.RefuelMin,
		RefuelMax:   p.RefuelMax,
		RefuelStep:  p.RefuelStep,
		RefuelEvery: p.RefuelEvery,
		Seed:        p.Seed,
		Logger:      logger,
	}
}
