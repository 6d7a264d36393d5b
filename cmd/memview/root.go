package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memview/memview/config"
)

// cfg is populated from the root command's persistent flags before any
// subcommand's RunE executes, mirroring cmd/viewcore's single -base flag
// generalized to config.Config's full surface.
var cfg config.Config

var (
	flagDTB        uint64
	flagSysOffset  uint64
	flagSamOffset  uint64
	flagSecOffset  uint64
	flagHiveOffset uint64
)

var rootCmd = &cobra.Command{
	Use:           "memview",
	Short:         "Inspect a memory image through a layered address-space stack",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.Location, "location", "", `image to open, as "file:<path>"`)
	flags.StringVar(&cfg.Base, "base", "", "directory other referenced files resolve against")
	flags.StringVar(&cfg.Profile, "profile", "", "pin the profile name, skipping magic discovery")
	flags.BoolVar(&cfg.Write, "write", false, "enable write support on the raw layer (also gated by an interactive confirmation in inspect)")
	flags.Uint64Var(&flagDTB, "dtb", 0, "pin the directory table base, skipping KDBG discovery")
	flags.Uint64Var(&flagSysOffset, "sys-offset", 0, "pre-discovered SYSTEM hive virtual offset")
	flags.Uint64Var(&flagSamOffset, "sam-offset", 0, "pre-discovered SAM hive virtual offset")
	flags.Uint64Var(&flagSecOffset, "sec-offset", 0, "pre-discovered SECURITY hive virtual offset")
	flags.Uint64Var(&flagHiveOffset, "hive-offset", 0, "pre-discovered generic hive virtual offset")

	rootCmd.AddCommand(mappingsCmd, profileInfoCmd, poolscanCmd, inspectCmd)
}

// finalizeConfig copies any pinned flag values the operator set into
// cfg's pointer fields, distinguishing "not given" from "given as zero" —
// cobra always sets the uint64 vars, so presence is checked via
// Changed() on the flag itself.
func finalizeConfig(cmd *cobra.Command) *config.Config {
	c := cfg
	if cmd.Flags().Changed("dtb") {
		v := flagDTB
		c.DTB = &v
	}
	if cmd.Flags().Changed("sys-offset") {
		v := flagSysOffset
		c.SysOffset = &v
	}
	if cmd.Flags().Changed("sam-offset") {
		v := flagSamOffset
		c.SamOffset = &v
	}
	if cmd.Flags().Changed("sec-offset") {
		v := flagSecOffset
		c.SecOffset = &v
	}
	if cmd.Flags().Changed("hive-offset") {
		v := flagHiveOffset
		c.HiveOffset = &v
	}
	if c.Location == "" {
		fmt.Println("warning: --location not set; open will fail")
	}
	return &c
}
