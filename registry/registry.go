package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/jonwraymond/toolfoundation/model"
	"go.uber.org/zap"
)

// DefaultToolName is the display name used when Config.Info.Name is empty.
const DefaultToolName = "DeathNote Tool"

// ToolInfo carries the host tool metadata exposed through the registry.
// Version and ToolURL are optional; consumers that need a value in all
// cases apply their own fallbacks (see the credit package).
type ToolInfo struct {
	Name    string
	Version string
	ToolURL string
}

// Config configures a Registry.
type Config struct {
	Info ToolInfo
	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Module is a named capability exposed through the registry, such as the
// settings store. Lookup by name is silent: an unknown name yields no
// module, never an error.
type Module interface {
	// Name returns a unique identifier for the module.
	Name() string
	// Description returns a short human-readable description.
	Description() string
}

// Registry is the host registry for the DeathNote tool: it carries tool
// metadata (version, canonical URL), named capability modules, and locally
// registered tools with execution handlers for the MCP surface.
type Registry struct {
	mu     sync.RWMutex
	info   ToolInfo
	logger *zap.Logger

	modules map[string]Module

	tools    []model.Tool
	handlers map[string]ToolHandler
}

// New creates a new Registry with the given config.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Info.Name == "" {
		cfg.Info.Name = DefaultToolName
	}
	if v := cfg.Info.Version; v != "" && !WellFormedVersion(v) {
		logger.Warn("tool version does not parse as vMAJOR.MINOR[.PATCH]",
			zap.String("version", v))
	}

	return &Registry{
		info:     cfg.Info,
		logger:   logger,
		modules:  make(map[string]Module),
		handlers: make(map[string]ToolHandler),
	}
}

// WellFormedVersion reports whether v matches the vMAJOR.MINOR[.PATCH]
// shape the registry expects. Missing patch components are accepted.
func WellFormedVersion(v string) bool {
	if !strings.HasPrefix(v, "v") {
		return false
	}
	_, err := semver.NewVersion(v)
	return err == nil
}

// Info returns the current tool metadata verbatim.
func (r *Registry) Info() ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.info
}

// SetVersion replaces the tool version. The host updates this at runtime;
// anything derived from it (the credit line) reflects the change on the
// next call.
func (r *Registry) SetVersion(v string) {
	if v != "" && !WellFormedVersion(v) {
		r.logger.Warn("tool version does not parse as vMAJOR.MINOR[.PATCH]",
			zap.String("version", v))
	}
	r.mu.Lock()
	r.info.Version = v
	r.mu.Unlock()
}

// SetToolURL replaces the canonical tool URL.
func (r *Registry) SetToolURL(u string) {
	r.mu.Lock()
	r.info.ToolURL = u
	r.mu.Unlock()
}

// RegisterModule registers a named capability module.
func (r *Registry) RegisterModule(m Module) error {
	if m == nil {
		return fmt.Errorf("%w: nil module", ErrInvalidModule)
	}
	name := strings.TrimSpace(m.Name())
	if name == "" {
		return fmt.Errorf("%w: empty module name", ErrInvalidModule)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.modules[name]; exists {
		return fmt.Errorf("%w: %s", ErrModuleExists, name)
	}
	r.modules[name] = m
	r.logger.Debug("module registered", zap.String("module", name))
	return nil
}

// Module returns the capability module registered under name. The absent
// case is ordinary: ok is false and no error is raised.
func (r *Registry) Module(name string) (Module, bool) {
	r.mu.RLock()
	m, ok := r.modules[name]
	r.mu.RUnlock()
	return m, ok
}

// Modules returns all registered modules in no particular order.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	return out
}

// RegisterLocal registers a tool with a local execution handler.
func (r *Registry) RegisterLocal(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}
	if handler == nil {
		return fmt.Errorf("%w: nil handler for %s", ErrInvalidRequest, tool.Name)
	}

	id := tool.ToolID()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[id]; exists {
		return fmt.Errorf("%w: %s", ErrToolExists, id)
	}
	r.tools = append(r.tools, tool)
	r.handlers[id] = handler
	r.logger.Debug("tool registered", zap.String("tool", id))
	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	tool := newLocalTool(name, description, inputSchema, r.Info().Version, opts)
	return r.RegisterLocal(tool, handler)
}

// Tools returns a snapshot of all registered tool definitions.
func (r *Registry) Tools() []model.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Execute runs a registered tool with the given arguments. The tool is
// resolved by its full ID (namespace:name) or by the bare name that
// tools/list advertises.
func (r *Registry) Execute(ctx context.Context, id string, args map[string]any) (any, error) {
	r.mu.RLock()
	handler, ok := r.resolveLocked(id)
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, id)
	}

	result, err := handler(ctx, args)
	if err != nil {
		r.logger.Warn("tool execution failed",
			zap.String("tool", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrExecutionFailed, id, err)
	}
	return result, nil
}

// resolveLocked finds the handler for id, trying the handler map first and
// falling back to matching a registered tool's bare name. Callers must hold
// r.mu.
func (r *Registry) resolveLocked(id string) (ToolHandler, bool) {
	if handler, ok := r.handlers[id]; ok {
		return handler, true
	}
	for _, t := range r.tools {
		if t.Name == id {
			handler, ok := r.handlers[t.ToolID()]
			return handler, ok
		}
	}
	return nil, false
}

// Stats summarizes registry contents.
type Stats struct {
	Modules int
	Tools   int
}

// Stats returns registry statistics.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Stats{
		Modules: len(r.modules),
		Tools:   len(r.tools),
	}
}
