package element

import (
	"sort"
	"strings"
	"sync"
)

// FixtureElement is an in-memory element used in place of a live page.
// It records every dispatched event so tests can assert on them.
type FixtureElement struct {
	mu         sync.Mutex
	id         string
	value      string
	text       string
	html       string
	classes    []string
	listeners  map[string][]Listener
	dispatched []Event
}

// NewFixtureElement creates a detached fixture element with the given id.
func NewFixtureElement(id string) *FixtureElement {
	return &FixtureElement{id: id, listeners: map[string][]Listener{}}
}

func (e *FixtureElement) ID() string { return e.id }

func (e *FixtureElement) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

func (e *FixtureElement) SetValue(v string) {
	e.mu.Lock()
	e.value = v
	e.mu.Unlock()
}

func (e *FixtureElement) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

func (e *FixtureElement) SetText(t string) {
	e.mu.Lock()
	e.text = t
	e.mu.Unlock()
}

func (e *FixtureElement) HTML() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.html
}

func (e *FixtureElement) SetHTML(h string) {
	e.mu.Lock()
	e.html = h
	e.mu.Unlock()
}

func (e *FixtureElement) ClassName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return strings.Join(e.classes, " ")
}

// SetClassName replaces the whole class list from a space-separated
// string, mirroring an assignment to className.
func (e *FixtureElement) SetClassName(s string) {
	e.mu.Lock()
	e.classes = strings.Fields(s)
	e.mu.Unlock()
}

func (e *FixtureElement) AddClass(name string) {
	if name == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.classes {
		if c == name {
			return
		}
	}
	e.classes = append(e.classes, name)
}

func (e *FixtureElement) RemoveClass(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.classes[:0]
	for _, c := range e.classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.classes = kept
}

func (e *FixtureElement) HasClass(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (e *FixtureElement) AddEventListener(typ string, fn Listener) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.listeners[typ] = append(e.listeners[typ], fn)
	e.mu.Unlock()
}

// Dispatch invokes listeners for ev's type in registration order and
// appends ev to the dispatch record. Listeners run outside the lock.
func (e *FixtureElement) Dispatch(ev Event) {
	if ev == nil {
		return
	}
	e.mu.Lock()
	fns := append([]Listener(nil), e.listeners[ev.Type()]...)
	e.dispatched = append(e.dispatched, ev)
	e.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Dispatched returns a copy of the events delivered so far, oldest first.
func (e *FixtureElement) Dispatched() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Event(nil), e.dispatched...)
}

// FixtureProvider resolves elements from a registered set of fixtures.
type FixtureProvider struct {
	mu       sync.Mutex
	elements map[string]*FixtureElement
}

// NewFixtureProvider creates an empty provider.
func NewFixtureProvider() *FixtureProvider {
	return &FixtureProvider{elements: map[string]*FixtureElement{}}
}

// Add registers a fresh fixture element under id and returns it. Adding
// an id twice replaces the earlier element.
func (p *FixtureProvider) Add(id string) *FixtureElement {
	el := NewFixtureElement(id)
	p.mu.Lock()
	p.elements[id] = el
	p.mu.Unlock()
	return el
}

// Register installs a prebuilt fixture element under its own id.
func (p *FixtureProvider) Register(el *FixtureElement) {
	if el == nil {
		return
	}
	p.mu.Lock()
	p.elements[el.ID()] = el
	p.mu.Unlock()
}

// IDs lists the registered element ids, sorted.
func (p *FixtureProvider) IDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.elements))
	for id := range p.elements {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (p *FixtureProvider) ElementByID(id string) (Element, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.elements[id]
	if !ok {
		return nil, false
	}
	return el, true
}

func (p *FixtureProvider) Query(selector string) (Element, bool) {
	id, ok := idFromSelector(selector)
	if !ok {
		return nil, false
	}
	return p.ElementByID(id)
}

func (p *FixtureProvider) QueryAll(selector string) []Element {
	// Batch queries are not part of the fixture surface; callers get an
	// empty slice rather than nil so range loops stay safe.
	return []Element{}
}

var (
	_ Element  = (*FixtureElement)(nil)
	_ Provider = (*FixtureProvider)(nil)
)
