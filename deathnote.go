// Package deathnote composes the lobby settings store, search, credit
// resolution, and output generation behind a single facade, and exposes
// them as MCP tools through the host registry.
//
//	dn, err := deathnote.New(deathnote.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dn.Close()
//
//	text := dn.Generate()
package deathnote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mistial-dev/deathnote/credit"
	"github.com/mistial-dev/deathnote/element"
	"github.com/mistial-dev/deathnote/output"
	"github.com/mistial-dev/deathnote/registry"
	"github.com/mistial-dev/deathnote/search"
	"github.com/mistial-dev/deathnote/settings"
)

// Namespace is the MCP namespace all local tools register under.
const Namespace = "deathnote"

// Options configures a DeathNote instance. The zero value is usable:
// an in-memory store over the built-in catalog, a no-op logger, and
// default tool info.
type Options struct {
	// Info overrides the registry tool identity. Empty fields keep the
	// registry defaults.
	Info registry.ToolInfo

	// Store replaces the default in-memory settings store. Ignored when
	// DefinitionsFile is set.
	Store settings.Store

	// DefinitionsFile is an optional YAML catalog loaded at startup.
	DefinitionsFile string

	// WatchDefinitions reloads DefinitionsFile on change.
	WatchDefinitions bool

	// SearchConfig customizes the settings searcher.
	SearchConfig search.Config

	Logger *zap.Logger
}

// DeathNote is the unified facade over the tool's subsystems.
type DeathNote struct {
	reg       *registry.Registry
	store     settings.Store
	searcher  *search.Searcher
	resolver  *credit.Resolver
	generator *output.Generator
	watcher   *settings.Watcher
	logger    *zap.Logger
}

// New creates a DeathNote instance and registers its MCP tools.
func New(opts Options) (*DeathNote, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store := opts.Store
	var memStore *settings.InMemoryStore
	if opts.DefinitionsFile != "" {
		defs, err := settings.Load(opts.DefinitionsFile)
		if err != nil {
			return nil, fmt.Errorf("load definitions: %w", err)
		}
		memStore = settings.NewInMemoryStore(settings.StoreOptions{
			Definitions: defs,
			Logger:      logger,
		})
		store = memStore
	} else if store == nil {
		memStore = settings.NewInMemoryStore(settings.StoreOptions{Logger: logger})
		store = memStore
	}

	reg := registry.New(registry.Config{Info: opts.Info, Logger: logger})
	if m, ok := store.(registry.Module); ok {
		if err := reg.RegisterModule(m); err != nil {
			return nil, err
		}
	}

	resolver := credit.NewResolver(reg)
	dn := &DeathNote{
		reg:      reg,
		store:    store,
		searcher: search.NewSearcher(opts.SearchConfig),
		resolver: resolver,
		generator: output.New(output.Config{
			Store:    store,
			Resolver: resolver,
			Logger:   logger,
		}),
		logger: logger,
	}

	if opts.WatchDefinitions && opts.DefinitionsFile != "" {
		if memStore == nil {
			return nil, fmt.Errorf("watching definitions requires the built-in store")
		}
		w, err := settings.NewWatcher(opts.DefinitionsFile, memStore, settings.WatcherOptions{
			Logger: logger,
		})
		if err != nil {
			return nil, fmt.Errorf("watch definitions: %w", err)
		}
		if err := w.Start(context.Background()); err != nil {
			return nil, fmt.Errorf("start watcher: %w", err)
		}
		dn.watcher = w
	}

	if err := dn.registerTools(); err != nil {
		dn.Close()
		return nil, err
	}
	return dn, nil
}

// Close releases the searcher and stops the definitions watcher.
func (d *DeathNote) Close() error {
	var firstErr error
	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			firstErr = err
		}
	}
	if err := d.searcher.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Registry returns the host registry for serving or direct execution.
func (d *DeathNote) Registry() *registry.Registry { return d.reg }

// Store returns the underlying settings store.
func (d *DeathNote) Store() settings.Store { return d.store }

// Resolver returns the credit resolver.
func (d *DeathNote) Resolver() *credit.Resolver { return d.resolver }

// Generate builds the shareable settings summary.
func (d *DeathNote) Generate() string { return d.generator.Generate() }

// Render writes the summary into el's value.
func (d *DeathNote) Render(el element.Element) { d.generator.Render(el) }

// SearchSettings ranks setting definitions against query.
func (d *DeathNote) SearchSettings(query string, limit int) ([]search.Summary, error) {
	docs := search.DocsFromDefinitions(d.store.AllDefinitions())
	return d.searcher.Search(query, limit, docs)
}
