// Package output renders the shareable settings summary. The generated
// text lists every setting that differs from its default, grouped by
// bin in the fixed Lobby, Player, Gameplay order, and always ends with
// the attribution line from the credit resolver.
package output

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mistial-dev/deathnote/credit"
	"github.com/mistial-dev/deathnote/element"
	"github.com/mistial-dev/deathnote/registry"
	"github.com/mistial-dev/deathnote/settings"
)

// PlaceholderBody is emitted when every setting still has its default.
const PlaceholderBody = "All settings at their defaults."

// Config configures a Generator. Store is required. When Resolver is
// nil one is built over Registry, which may itself be nil.
type Config struct {
	Registry *registry.Registry
	Store    settings.Store
	Resolver *credit.Resolver
	Logger   *zap.Logger
}

// Generator produces the settings summary text.
type Generator struct {
	store    settings.Store
	resolver *credit.Resolver
	logger   *zap.Logger
}

// New creates a generator.
func New(cfg Config) *Generator {
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = credit.NewResolver(cfg.Registry)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{store: cfg.Store, resolver: resolver, logger: logger}
}

// Generate builds the summary. The body lists changed settings under
// per-bin headings; with no changes it is PlaceholderBody. The credit
// line follows after one blank line and reflects the registry state at
// call time.
func (g *Generator) Generate() string {
	body := g.body()
	return body + "\n\n" + g.resolver.Line()
}

// Render writes the generated summary into el's value. Side effect
// only; a nil element is ignored.
func (g *Generator) Render(el element.Element) {
	if el == nil {
		g.logger.Debug("render target absent, skipping")
		return
	}
	el.SetValue(g.Generate())
}

func (g *Generator) body() string {
	changed := map[settings.Bin][]settings.Setting{}
	if g.store != nil {
		for _, s := range g.store.AllSettings() {
			if s.Changed() {
				changed[s.Definition.Bin] = append(changed[s.Definition.Bin], s)
			}
		}
	}
	if len(changed) == 0 {
		return PlaceholderBody
	}

	var b strings.Builder
	first := true
	for _, bin := range settings.Bins() {
		group := changed[bin]
		if len(group) == 0 {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		fmt.Fprintf(&b, "%s Settings\n", bin.Label())
		for _, s := range group {
			fmt.Fprintf(&b, "%s: %s\n", s.Definition.Title, FormatValue(s.Value))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatValue renders a setting value the way the summary shows it.
// Bools read as Enabled/Disabled; floats drop insignificant zeros.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "Enabled"
		}
		return "Disabled"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}
