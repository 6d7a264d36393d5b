// The memview tool opens a memory image — a raw physical dump, an ELF
// coredump, a Windows crash dump, or a Windows hibernation file — and
// lets an operator inspect it through the layered address-space stack
// and typed-overlay object engine, the way viewcore lets a developer
// explore a Go process's heap from its core dump.
//
// Run "memview help" for the full command tree.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
