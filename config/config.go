// Package config holds the inputs the address-space stack and profile
// engine need before any structure can be read from an image.
//
// Older forensics tooling tends to keep this as a single module-level
// singleton (volatility's `config.LOCATION`, `config.WRITE`, ...). Here
// it's an explicit value threaded through stack assembly and object
// construction instead, so two images can be analyzed concurrently in
// one process without a shared mutable global.
package config

// Config is the process-wide (now: per-analysis) configuration snapshot
// written once during stack assembly and read thereafter by every layer.
type Config struct {
	// Location names the image file, as "file:<path>".
	Location string

	// Base is the directory other referenced files (a separate
	// executable, a companion hiberfil) are resolved relative to.
	Base string

	// Write enables write support on the lowest raw layer. Off by
	// default; cmd/memview sets it from --write, and its inspect command
	// additionally asks for an interactive confirmation before each
	// write it performs.
	Write bool

	// Discovery overrides: pre-computed offsets that skip scanning.
	// A nil pointer means "discover it"; a non-nil pointer pins the
	// value.
	SysOffset  *uint64
	SamOffset  *uint64
	SecOffset  *uint64
	HiveOffset *uint64
	DTB        *uint64

	// Profile pins the profile name to try first (OS+SP+arch), skipping
	// VOLATILITY_MAGIC probing. Empty means "discover it".
	Profile string
}

// Path returns the filesystem path named by Location, stripping the
// required "file:" scheme prefix.
func (c *Config) Path() string {
	const scheme = "file:"
	if len(c.Location) >= len(scheme) && c.Location[:len(scheme)] == scheme {
		return c.Location[len(scheme):]
	}
	return c.Location
}
