// Command gointersect finds the points where two functions of x are equal.
//
// Functions are given as expressions in x, e.g.:
//
//	gointersect scan --f1 "x^10" --f2 "exp(x)" --xmin 0 --xmax 2
//	gointersect converge --f1 "x^3" --f2 "3^x" --guesses 2,2.5,3,4,5
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	gointersect "github.com/njchilds90/gointersect"
	"github.com/njchilds90/gointersect/expr"
)

var (
	flagF1      string
	flagF2      string
	flagTol     float64
	flagJSON    bool
	flagTable   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "gointersect",
	Short:         "Find intersection points of two functions",
	Long:          "gointersect locates the points where two real-valued functions of x are equal, either by scanning a domain for sign changes or by refining a list of initial guesses.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagF1, "f1", "", "first function, an expression in x")
	rootCmd.PersistentFlags().StringVar(&flagF2, "f2", "", "second function, an expression in x")
	rootCmd.PersistentFlags().Float64Var(&flagTol, "tol", gointersect.DefaultTol, "tolerance for convergence and dedup")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "render results as a table")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

// buildFinder parses the two function expressions, falling back to config
// file values when the flags are empty.
func buildFinder(cfg *config) (*gointersect.Finder, error) {
	s1, s2 := flagF1, flagF2
	if s1 == "" {
		s1 = cfg.F1
	}
	if s2 == "" {
		s2 = cfg.F2
	}
	if s1 == "" || s2 == "" {
		return nil, fmt.Errorf("both --f1 and --f2 are required (or f1/f2 in %s)", configName)
	}
	f1, err := expr.Parse(s1)
	if err != nil {
		return nil, fmt.Errorf("--f1: %w", err)
	}
	f2, err := expr.Parse(s2)
	if err != nil {
		return nil, fmt.Errorf("--f2: %w", err)
	}
	return gointersect.New(f1, f2), nil
}
