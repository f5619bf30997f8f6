// Package credit resolves the active tool version and builds the
// attribution line embedded in generated output.
//
// The resolver reads an injected registry on every call and never caches,
// so registry mutations show up in the very next result. Every missing
// value (nil registry, empty version, empty URL) falls back to a fixed
// default; nothing here ever returns an error.
package credit

import (
	"fmt"

	"github.com/mistial-dev/deathnote/registry"
)

// Fallbacks used when the registry is absent or a field is empty.
const (
	DefaultVersion = "v1.0"
	DefaultToolURL = "https://mistial-dev.github.io/DeathNote/"
)

// Resolver derives the version and credit line from a registry.
// The zero value (nil registry) is usable and yields the defaults.
type Resolver struct {
	reg *registry.Registry
}

// NewResolver creates a resolver reading from reg. A nil reg is allowed.
func NewResolver(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Version returns the registry version verbatim when present and
// non-empty, else DefaultVersion.
func (r *Resolver) Version() string {
	if r == nil || r.reg == nil {
		return DefaultVersion
	}
	if v := r.reg.Info().Version; v != "" {
		return v
	}
	return DefaultVersion
}

// ToolURL returns the registry tool URL when present and non-empty, else
// DefaultToolURL.
func (r *Resolver) ToolURL() string {
	if r == nil || r.reg == nil {
		return DefaultToolURL
	}
	if u := r.reg.Info().ToolURL; u != "" {
		return u
	}
	return DefaultToolURL
}

// Line formats the attribution line. Computed fresh on every call.
func (r *Resolver) Line() string {
	return fmt.Sprintf("Generated with [DeathNote Tool %s](%s)", r.Version(), r.ToolURL())
}

// WellFormed reports whether v has the vMAJOR.MINOR[.PATCH] shape.
// Malformed versions are still resolved verbatim; this only exists so
// callers can warn about them.
func WellFormed(v string) bool {
	return registry.WellFormedVersion(v)
}
