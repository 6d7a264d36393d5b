package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/memview/memview/internal/stack"
	"github.com/memview/memview/profile"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Print the available address ranges at the top of the assembled stack",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := stack.Assemble(finalizeConfig(cmd), profile.DefaultRegistry())
		if err != nil {
			return fmt.Errorf("assembling address space: %w", err)
		}
		printAssembleHeader(result)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Start\tLength\tEnd")
		for _, r := range result.Top.AvailableRanges() {
			fmt.Fprintf(w, "%s\t%#x\t%s\n", r.Start, r.Length, r.Start.Add(r.Length))
		}
		return w.Flush()
	},
}

func printAssembleHeader(result *stack.Result) {
	fmt.Printf("profile: %s (%s)  dtb: %s\n", result.Profile.Name, result.Profile.Arch, result.DTB)
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}
