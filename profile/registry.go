package profile

import "fmt"

// Registry is the profile catalog the stack assembler consults when no
// profile was pinned in Config. The assembler tries profiles in
// registration order; each profile supplies a VOLATILITY_MAGIC pattern,
// and the first profile whose magic is found in the image wins.
type Registry struct {
	profiles []*Profile
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds p to the end of the registry's try order.
func (r *Registry) Register(p *Profile) {
	r.profiles = append(r.profiles, p)
}

// ByName returns the registered profile with the given name, or nil.
func (r *Registry) ByName(name string) *Profile {
	for _, p := range r.profiles {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Discover returns the first registered profile whose Magic pattern
// search reports found, in registration order. search is supplied by the
// caller (internal/stack), which knows how to scan the assembled
// physical view; Registry itself has no notion of an address space so it
// stays free of an import on internal/space.
func (r *Registry) Discover(search func(pattern []byte) bool) (*Profile, error) {
	for _, p := range r.profiles {
		if len(p.Magic) == 0 {
			continue
		}
		if search(p.Magic) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no profile's VOLATILITY_MAGIC matched this image")
}

// All returns every registered profile, in registration order.
func (r *Registry) All() []*Profile {
	return append([]*Profile(nil), r.profiles...)
}
