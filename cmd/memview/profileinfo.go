package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/memview/memview/internal/stack"
	"github.com/memview/memview/profile"
)

var profileInfoCmd = &cobra.Command{
	Use:   "profile-info",
	Short: "Print the profile selected for the image and the types it defines",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := stack.Assemble(finalizeConfig(cmd), profile.DefaultRegistry())
		if err != nil {
			return fmt.Errorf("assembling address space: %w", err)
		}
		printAssembleHeader(result)

		names := result.Profile.TypeNames()
		sort.Strings(names)
		for _, name := range names {
			vt, err := result.Profile.VType(name)
			if err != nil {
				continue
			}
			fmt.Printf("%-20s size=%#-6x fields=%d\n", name, vt.Size, len(vt.Fields))
		}
		return nil
	},
}
