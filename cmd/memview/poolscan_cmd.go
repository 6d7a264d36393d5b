package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memview/memview/internal/stack"
	"github.com/memview/memview/poolscan"
	"github.com/memview/memview/profile"
)

// hiveSignature is the _HHIVE.Signature value
// _examples/original_source/memory_plugins/registry/hivescan2.py checks
// for: 0xbee0bee0, little-endian "\xe0\xbe\xe0\xbe".
const hiveSignature = 0xbee0bee0

var poolscanCmd = &cobra.Command{
	Use:   "poolscan",
	Short: "Scan physical memory for _CMHIVE pool allocations (registry hives)",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := stack.Assemble(finalizeConfig(cmd), profile.DefaultRegistry())
		if err != nil {
			return fmt.Errorf("assembling address space: %w", err)
		}
		printAssembleHeader(result)

		scanner := poolscan.New("CM10", 0x4a8,
			poolscan.CheckSignature(result.Profile, "_HHIVE", "Signature", 4, hiveSignature))

		fmt.Printf("%-15s %-15s\n", "Offset", "(hex)")
		for off := range scanner.Scan(result.Top) {
			fmt.Printf("%-15d %#08x\n", uint64(off), uint64(off))
		}
		return nil
	},
}
