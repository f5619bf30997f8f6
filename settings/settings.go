package settings

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Bin groups related settings. Output renders bins in the order returned
// by Bins.
type Bin string

// The fixed set of bins.
const (
	BinLobby    Bin = "LOBBY"
	BinPlayer   Bin = "PLAYER"
	BinGameplay Bin = "GAMEPLAY"
)

// Bins returns all bins in canonical render order.
func Bins() []Bin {
	return []Bin{BinLobby, BinPlayer, BinGameplay}
}

// Label returns the human-readable bin name used in generated output.
func (b Bin) Label() string {
	switch b {
	case BinLobby:
		return "Lobby"
	case BinPlayer:
		return "Player"
	case BinGameplay:
		return "Gameplay"
	default:
		return string(b)
	}
}

// Type identifies the value type of a setting.
type Type string

// Supported setting value types.
const (
	TypeBool   Type = "bool"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeEnum   Type = "enum"
	TypeString Type = "string"
)

// Definition describes a single setting: its identity, type, default,
// constraints, and help text.
type Definition struct {
	Key     string   `yaml:"key"`
	Title   string   `yaml:"title"`
	Bin     Bin      `yaml:"bin"`
	Type    Type     `yaml:"type"`
	Default any      `yaml:"default"`
	Min     *float64 `yaml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty"`
	Choices []string `yaml:"choices,omitempty"`
	Help    string   `yaml:"help,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
}

// Validate checks the definition for internal consistency.
func (d Definition) Validate() error {
	if d.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidDefinition)
	}
	switch d.Bin {
	case BinLobby, BinPlayer, BinGameplay:
	default:
		return fmt.Errorf("%w: %s: unknown bin %q", ErrInvalidDefinition, d.Key, d.Bin)
	}
	switch d.Type {
	case TypeBool, TypeInt, TypeFloat, TypeEnum, TypeString:
	default:
		return fmt.Errorf("%w: %s: unknown type %q", ErrInvalidDefinition, d.Key, d.Type)
	}
	if d.Type == TypeEnum && len(d.Choices) == 0 {
		return fmt.Errorf("%w: %s: enum with no choices", ErrInvalidDefinition, d.Key)
	}
	if _, err := d.normalize(d.Default); err != nil {
		return fmt.Errorf("%w: %s: bad default: %v", ErrInvalidDefinition, d.Key, err)
	}
	return nil
}

// ParseValue converts the string form of a value, as typed on a command
// line, into the definition's value type. The result still goes through
// the usual validation on Update.
func (d Definition) ParseValue(s string) (any, error) {
	switch d.Type {
	case TypeBool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s wants a bool, got %q", ErrInvalidValue, d.Key, s)
		}
		return v, nil
	case TypeInt:
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s wants an int, got %q", ErrInvalidValue, d.Key, s)
		}
		return v, nil
	case TypeFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s wants a float, got %q", ErrInvalidValue, d.Key, s)
		}
		return v, nil
	default:
		return s, nil
	}
}

// normalize coerces v to the canonical representation for the definition's
// type (bool, int, float64, or string) and enforces range and choice
// constraints. YAML and JSON decoders hand over loosely typed numbers, so
// integral floats are accepted for int settings.
func (d Definition) normalize(v any) (any, error) {
	switch d.Type {
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s: want bool, got %T", ErrInvalidValue, d.Key, v)
		}
		return b, nil

	case TypeInt:
		var n int
		switch t := v.(type) {
		case int:
			n = t
		case int64:
			n = int(t)
		case float64:
			if t != math.Trunc(t) {
				return nil, fmt.Errorf("%w: %s: want integer, got %v", ErrInvalidValue, d.Key, t)
			}
			n = int(t)
		default:
			return nil, fmt.Errorf("%w: %s: want int, got %T", ErrInvalidValue, d.Key, v)
		}
		if err := d.checkRange(float64(n)); err != nil {
			return nil, err
		}
		return n, nil

	case TypeFloat:
		var f float64
		switch t := v.(type) {
		case float64:
			f = t
		case float32:
			f = float64(t)
		case int:
			f = float64(t)
		case int64:
			f = float64(t)
		default:
			return nil, fmt.Errorf("%w: %s: want float, got %T", ErrInvalidValue, d.Key, v)
		}
		if err := d.checkRange(f); err != nil {
			return nil, err
		}
		return f, nil

	case TypeEnum:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s: want string, got %T", ErrInvalidValue, d.Key, v)
		}
		for _, c := range d.Choices {
			if c == s {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: %s: %q is not one of %v", ErrInvalidValue, d.Key, s, d.Choices)

	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s: want string, got %T", ErrInvalidValue, d.Key, v)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %s: unknown type %q", ErrInvalidDefinition, d.Key, d.Type)
	}
}

func (d Definition) checkRange(f float64) error {
	if d.Min != nil && f < *d.Min {
		return fmt.Errorf("%w: %s: %v below minimum %v", ErrInvalidValue, d.Key, f, *d.Min)
	}
	if d.Max != nil && f > *d.Max {
		return fmt.Errorf("%w: %s: %v above maximum %v", ErrInvalidValue, d.Key, f, *d.Max)
	}
	return nil
}

// Setting pairs a definition with its current value.
type Setting struct {
	Definition Definition
	Value      any
}

// Changed reports whether the value differs from the definition default.
func (s Setting) Changed() bool {
	def, err := s.Definition.normalize(s.Definition.Default)
	if err != nil {
		return true
	}
	return s.Value != def
}

// ChangeKind identifies what a change event describes.
type ChangeKind string

// Change event kinds.
const (
	ChangeUpdate ChangeKind = "update"
	ChangeReset  ChangeKind = "reset"
)

// ChangeEvent is delivered to OnChange listeners after a mutation.
type ChangeEvent struct {
	// ID is a unique event identifier.
	ID string
	// Kind says whether the mutation was an update or a reset.
	Kind ChangeKind
	// Key is the affected setting; empty for ResetAll.
	Key string
	// Previous is the value before the mutation.
	Previous any
	// Value is the value after the mutation.
	Value any
}

// ChangeListener receives change events. Listeners run synchronously on
// the mutating goroutine; keep them short.
type ChangeListener func(ChangeEvent)

// Store defines the settings capability contract.
type Store interface {
	// Definition returns the definition for key; ok is false for unknown keys.
	Definition(key string) (Definition, bool)
	// AllDefinitions returns all definitions in canonical order.
	AllDefinitions() []Definition
	// Value returns the current value for key; ok is false for unknown keys.
	Value(key string) (any, bool)
	// AllSettings returns all settings with current values in canonical order.
	AllSettings() []Setting
	// Update validates and sets a new value for key.
	Update(key string, value any) error
	// Reset restores the default value for key.
	Reset(key string) error
	// ResetAll restores every setting to its default.
	ResetAll()
	// OnChange registers a listener; the returned function unsubscribes.
	OnChange(listener ChangeListener) func()
}

// StoreOptions configures an InMemoryStore.
type StoreOptions struct {
	// Definitions is the setting catalog. Nil means the built-in catalog.
	Definitions []Definition
	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// InMemoryStore is the concrete settings capability. It is safe for
// concurrent use.
type InMemoryStore struct {
	mu        sync.RWMutex
	defs      map[string]Definition
	order     []string
	values    map[string]any
	listeners map[int]ChangeListener
	nextSub   int
	logger    *zap.Logger
}

// NewInMemoryStore creates a store seeded with the given catalog (or the
// built-in one) with every value at its default. Definitions that fail
// validation are skipped with a logged warning.
func NewInMemoryStore(opts StoreOptions) *InMemoryStore {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	defs := opts.Definitions
	if defs == nil {
		defs = DefaultCatalog()
	}

	s := &InMemoryStore{
		defs:      make(map[string]Definition, len(defs)),
		values:    make(map[string]any, len(defs)),
		listeners: make(map[int]ChangeListener),
		logger:    logger,
	}
	s.install(defs)
	return s
}

// install replaces the catalog. Caller must not hold s.mu.
func (s *InMemoryStore) install(defs []Definition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.defs = make(map[string]Definition, len(defs))
	s.order = s.order[:0]
	old := s.values
	s.values = make(map[string]any, len(defs))

	for _, d := range defs {
		if err := d.Validate(); err != nil {
			s.logger.Warn("skipping setting definition", zap.Error(err))
			continue
		}
		if _, dup := s.defs[d.Key]; dup {
			s.logger.Warn("skipping duplicate setting definition", zap.String("key", d.Key))
			continue
		}
		s.defs[d.Key] = d
		s.order = append(s.order, d.Key)

		// Carry over a previous value when it is still valid for the new
		// definition; otherwise fall back to the default.
		if prev, ok := old[d.Key]; ok {
			if v, err := d.normalize(prev); err == nil {
				s.values[d.Key] = v
				continue
			}
		}
		v, _ := d.normalize(d.Default)
		s.values[d.Key] = v
	}
}

// Name implements registry.Module.
func (s *InMemoryStore) Name() string { return "settings" }

// Description implements registry.Module.
func (s *InMemoryStore) Description() string {
	return "Death Note lobby setting definitions and values"
}

// Definition returns the definition for key; ok is false for unknown keys.
func (s *InMemoryStore) Definition(key string) (Definition, bool) {
	s.mu.RLock()
	d, ok := s.defs[key]
	s.mu.RUnlock()
	return d, ok
}

// AllDefinitions returns all definitions ordered by bin, then by catalog
// order within each bin.
func (s *InMemoryStore) AllDefinitions() []Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedDefsLocked()
}

func (s *InMemoryStore) sortedDefsLocked() []Definition {
	binRank := make(map[Bin]int, 3)
	for i, b := range Bins() {
		binRank[b] = i
	}
	pos := make(map[string]int, len(s.order))
	for i, k := range s.order {
		pos[k] = i
	}

	out := make([]Definition, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.defs[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := binRank[out[i].Bin], binRank[out[j].Bin]
		if ri != rj {
			return ri < rj
		}
		return pos[out[i].Key] < pos[out[j].Key]
	})
	return out
}

// Value returns the current value for key; ok is false for unknown keys.
func (s *InMemoryStore) Value(key string) (any, bool) {
	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	return v, ok
}

// AllSettings returns all settings with their current values in canonical
// order.
func (s *InMemoryStore) AllSettings() []Setting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs := s.sortedDefsLocked()
	out := make([]Setting, len(defs))
	for i, d := range defs {
		out[i] = Setting{Definition: d, Value: s.values[d.Key]}
	}
	return out
}

// Update validates and sets a new value for key.
func (s *InMemoryStore) Update(key string, value any) error {
	s.mu.Lock()
	d, ok := s.defs[key]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	v, err := d.normalize(value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	prev := s.values[key]
	s.values[key] = v
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	s.notify(listeners, ChangeEvent{
		ID:       uuid.NewString(),
		Kind:     ChangeUpdate,
		Key:      key,
		Previous: prev,
		Value:    v,
	})
	return nil
}

// Reset restores the default value for key.
func (s *InMemoryStore) Reset(key string) error {
	s.mu.Lock()
	d, ok := s.defs[key]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	v, _ := d.normalize(d.Default)
	prev := s.values[key]
	s.values[key] = v
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	s.notify(listeners, ChangeEvent{
		ID:       uuid.NewString(),
		Kind:     ChangeReset,
		Key:      key,
		Previous: prev,
		Value:    v,
	})
	return nil
}

// ResetAll restores every setting to its default. A single event with an
// empty Key is emitted.
func (s *InMemoryStore) ResetAll() {
	s.mu.Lock()
	for k, d := range s.defs {
		v, _ := d.normalize(d.Default)
		s.values[k] = v
	}
	listeners := s.snapshotListenersLocked()
	s.mu.Unlock()

	s.notify(listeners, ChangeEvent{
		ID:   uuid.NewString(),
		Kind: ChangeReset,
	})
}

// OnChange registers a listener; the returned function unsubscribes.
func (s *InMemoryStore) OnChange(listener ChangeListener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *InMemoryStore) snapshotListenersLocked() []ChangeListener {
	out := make([]ChangeListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}

func (s *InMemoryStore) notify(listeners []ChangeListener, ev ChangeEvent) {
	for _, l := range listeners {
		l(ev)
	}
}
