package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	flagXmin   float64
	flagXmax   float64
	flagPoints int
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a domain for intersections",
		Long:  "Samples the domain uniformly, detects sign changes of f1 - f2 between adjacent samples and refines each one to an intersection point.",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().Float64Var(&flagXmin, "xmin", 0, "lower bound of the search domain")
	cmd.Flags().Float64Var(&flagXmax, "xmax", 0, "upper bound of the search domain")
	cmd.Flags().IntVar(&flagPoints, "points", 1000, "number of sample points")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	finder, err := buildFinder(cfg)
	if err != nil {
		return err
	}

	xmin, xmax, points, tol := flagXmin, flagXmax, flagPoints, flagTol
	if !cmd.Flags().Changed("xmin") && cfg.Xmin != nil {
		xmin = *cfg.Xmin
	}
	if !cmd.Flags().Changed("xmax") && cfg.Xmax != nil {
		xmax = *cfg.Xmax
	}
	if !cmd.Flags().Changed("points") && cfg.Points != nil {
		points = *cfg.Points
	}
	if !cmd.Flags().Changed("tol") && cfg.Tol != nil {
		tol = *cfg.Tol
	}
	if xmin == 0 && xmax == 0 {
		return fmt.Errorf("--xmin and --xmax are required (or xmin/xmax in %s)", configName)
	}

	slog.Debug("scanning", "xmin", xmin, "xmax", xmax, "points", points, "tol", tol)
	found, err := finder.Scan(xmin, xmax, points, tol)
	if err != nil {
		return err
	}
	slog.Debug("scan finished", "intersections", len(found))
	return printResults(found)
}
