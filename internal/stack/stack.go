// Package stack implements the address-space stack assembler: it
// probes registered layers in priority order, stacks those that
// self-identify as applicable, and picks the DTB and profile that
// parameterize the final paging layer.
//
// Grounded on arch/arch.go's package-level registry-of-structs pattern,
// generalized from "one Architecture value per machine" to "an ordered
// list of layer constructors tried in ascending priority", and on
// internal/core/process.go's Core() function, whose
// open-parse-merge-index shape is the model for Assemble's
// probe-then-build-then-validate flow.
package stack

import (
	"fmt"
	"os"

	"github.com/memview/memview/config"
	"github.com/memview/memview/internal/addr"
	"github.com/memview/memview/internal/space"
	"github.com/memview/memview/profile"
)

// Result is everything Assemble discovers: the top of the assembled
// stack, the profile chosen to interpret it, the DTB used to build the
// paging layer, and any soft warnings accumulated along the way.
type Result struct {
	Top      space.AddressSpace
	Profile  *profile.Profile
	DTB      addr.Address
	Warnings []string
}

// containerCtor mirrors a container variant's self-instantiation probe:
// it either returns a new physical view, or ErrNotApplicable to signal
// "skip me".
type containerCtor struct {
	priority int
	build    func(base space.AddressSpace, cfg *config.Config) (space.AddressSpace, error)
}

// Assemble builds the address-space stack for cfg and selects a profile
// from reg: open the raw source, stack any applicable container, pick
// a profile and DTB, then build the paging layer over the result.
func Assemble(cfg *config.Config, reg *profile.Registry) (*Result, error) {
	raw, err := space.OpenRaw(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}

	var warnings []string
	physical, warn, err := assembleContainers(raw, cfg)
	warnings = append(warnings, warn...)
	if err != nil {
		return nil, err
	}

	prof, err := selectProfile(cfg, reg, physical)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", space.ErrMissingPrerequisite, err)
	}

	dtb, err := discoverDTB(cfg, prof, physical)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", space.ErrMissingPrerequisite, err)
	}

	top, err := buildPaging(physical, cfg, prof, dtb)
	if err != nil {
		return nil, err
	}

	return &Result{Top: top, Profile: prof, DTB: dtb, Warnings: warnings}, nil
}

// assembleContainers tries each registered container variant in
// ascending priority order and stacks the first one (if any) that
// self-identifies as applicable. At most one container variant stacks;
// if none applies, the raw source itself serves as the physical view
// (a "Raw (passthrough)" fallback, grounded on FileAddressSpace's
// order=100 last-resort positioning).
func assembleContainers(raw *space.Raw, cfg *config.Config) (space.AddressSpace, []string, error) {
	ctors := []containerCtor{
		{priority: 10, build: func(b space.AddressSpace, c *config.Config) (space.AddressSpace, error) {
			return space.NewCrashDump(b, c)
		}},
		{priority: 15, build: func(b space.AddressSpace, c *config.Config) (space.AddressSpace, error) {
			return tryHibernation(b, c)
		}},
		{priority: 20, build: func(b space.AddressSpace, c *config.Config) (space.AddressSpace, error) {
			return space.NewELFCore(b, c)
		}},
	}

	var warnings []string
	for _, ctor := range ctors {
		top, err := ctor.build(raw, cfg)
		if err == space.ErrNotApplicable {
			continue
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("container probe failed: %v", err))
			continue
		}
		return top, warnings, nil
	}
	// No container recognized the image: treat it as already-physical.
	return raw, warnings, nil
}

// tryHibernation probes for a hibernation image and, if found, converts
// it to a flat raw physical layout in a temp file and reopens that as
// the new physical view.
func tryHibernation(base space.AddressSpace, cfg *config.Config) (space.AddressSpace, error) {
	hib, err := space.NewHibernation(base, cfg)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "memview-raw-*")
	if err != nil {
		return nil, fmt.Errorf("creating raw conversion scratch file: %w", err)
	}
	defer tmp.Close()

	for _, err := range hib.ConvertToRaw(tmp) {
		if err != nil {
			return nil, fmt.Errorf("converting hibernation image to raw: %w", err)
		}
	}

	rawCfg := &config.Config{Location: "file:" + tmp.Name(), Write: cfg.Write}
	converted, err := space.OpenRaw(rawCfg)
	if err != nil {
		return nil, fmt.Errorf("reopening converted hibernation image: %w", err)
	}
	return converted, nil
}
