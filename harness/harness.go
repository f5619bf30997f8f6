package harness

import (
	"go.uber.org/zap"

	"github.com/mistial-dev/deathnote/element"
	"github.com/mistial-dev/deathnote/registry"
	"github.com/mistial-dev/deathnote/settings"
)

// Testing defaults installed by NewRegistry when no override is given.
const (
	DefaultTestVersion = "v1.2"
	DefaultTestToolURL = "https://mistial-dev.github.io/DeathNote/"
)

// EventFactory constructs events for dispatch.
type EventFactory func(typ string, detail any) element.Event

// Host bundles the environment seams the tool reads at runtime.
// Production code fills it once at startup; tests swap fields through
// the Install functions instead of touching them directly.
type Host struct {
	Elements element.Provider
	Registry *registry.Registry
	NewEvent EventFactory
}

// NewHost builds a host over the given provider and registry, with the
// plain event constructor.
func NewHost(p element.Provider, r *registry.Registry) *Host {
	return &Host{Elements: p, Registry: r, NewEvent: element.NewEvent}
}

// Install swaps the host's element provider for p and returns a closure
// restoring the previous provider. The restored value is the same
// provider the host held before, not a copy.
func Install(h *Host, p element.Provider) (restore func()) {
	prev := h.Elements
	h.Elements = p
	return func() { h.Elements = prev }
}

// Overrides customizes the registry built by NewRegistry. Zero-valued
// fields keep the testing defaults; set fields win.
type Overrides struct {
	Name    string
	Version string
	ToolURL string
	Logger  *zap.Logger
	// Store replaces the default in-memory settings store. Set
	// SkipSettings to build a registry with no settings module at all.
	Store        settings.Store
	SkipSettings bool
}

// NewRegistry builds a registry preloaded with the testing defaults,
// shallow-merged with ov, and a settings module over the built-in
// catalog unless ov says otherwise.
func NewRegistry(ov Overrides) *registry.Registry {
	info := registry.ToolInfo{
		Name:    registry.DefaultToolName,
		Version: DefaultTestVersion,
		ToolURL: DefaultTestToolURL,
	}
	if ov.Name != "" {
		info.Name = ov.Name
	}
	if ov.Version != "" {
		info.Version = ov.Version
	}
	if ov.ToolURL != "" {
		info.ToolURL = ov.ToolURL
	}
	reg := registry.New(registry.Config{Info: info, Logger: ov.Logger})

	if !ov.SkipSettings {
		store := ov.Store
		if store == nil {
			store = settings.NewInMemoryStore(settings.StoreOptions{Logger: ov.Logger})
		}
		if m, ok := store.(registry.Module); ok {
			// Default store always satisfies this; a custom one may not.
			_ = reg.RegisterModule(m)
		}
	}
	return reg
}

// InstallRegistry swaps the host's registry for a fresh testing
// registry built from ov. It returns the previous registry, so a test
// can still reach the real one, and a restore closure.
func InstallRegistry(h *Host, ov Overrides) (prev *registry.Registry, restore func()) {
	prev = h.Registry
	h.Registry = NewRegistry(ov)
	return prev, func() { h.Registry = prev }
}

// InstallEventFactory routes every event built through the host into
// rec. Recorded events have inert cancellation methods.
func InstallEventFactory(h *Host, rec *Recorder) (restore func()) {
	prev := h.NewEvent
	h.NewEvent = func(typ string, detail any) element.Event {
		return rec.record(typ, detail)
	}
	return func() { h.NewEvent = prev }
}
