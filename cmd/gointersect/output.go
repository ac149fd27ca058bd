package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"

	gointersect "github.com/njchilds90/gointersect"
)

func printResults(found []gointersect.Intersection) error {
	switch {
	case flagJSON:
		if found == nil {
			found = []gointersect.Intersection{}
		}
		b, err := json.MarshalIndent(found, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))

	case flagTable:
		if len(found) == 0 {
			fmt.Println("No intersections found.")
			return nil
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("x", "y")
		for _, r := range found {
			if err := table.Append([]string{fmt.Sprintf("%.6g", r.X), fmt.Sprintf("%.6g", r.Y)}); err != nil {
				return err
			}
		}
		return table.Render()

	default:
		if len(found) == 0 {
			fmt.Println("No intersections found.")
			return nil
		}
		fmt.Println("Intersection points (rounded to one decimal place):")
		for _, r := range found {
			fmt.Printf("x: %.1f, y: %.1f\n", r.X, r.Y)
		}
	}
	return nil
}
