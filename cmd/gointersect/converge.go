package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var flagGuesses []float64

func init() {
	cmd := &cobra.Command{
		Use:   "converge",
		Short: "Refine initial guesses to intersections",
		Long:  "Runs a derivative-free local solver from each initial guess and keeps every candidate that verifies as an intersection. Guesses that fail to converge are skipped.",
		RunE:  runConverge,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().Float64SliceVar(&flagGuesses, "guesses", nil, "comma-separated initial guesses, e.g. 2,2.5,3")
}

func runConverge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	finder, err := buildFinder(cfg)
	if err != nil {
		return err
	}
	if len(flagGuesses) == 0 {
		return fmt.Errorf("--guesses requires at least one starting point")
	}
	tol := flagTol
	if !cmd.Flags().Changed("tol") && cfg.Tol != nil {
		tol = *cfg.Tol
	}

	slog.Debug("converging", "guesses", flagGuesses, "tol", tol)
	found, err := finder.Converge(flagGuesses, tol)
	if err != nil {
		return err
	}
	if len(found) < len(flagGuesses) {
		slog.Debug("some guesses did not produce a root", "guesses", len(flagGuesses), "intersections", len(found))
	}
	return printResults(found)
}
