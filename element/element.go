package element

import "strings"

// Listener receives a dispatched event.
type Listener func(Event)

// Event is the payload passed to listeners. Cancellation state is
// event-local; dispatch never propagates past the target element.
type Event interface {
	// Type is the event name, e.g. "change" or "click".
	Type() string
	// Detail carries arbitrary payload data, possibly nil.
	Detail() any
	PreventDefault()
	StopPropagation()
	DefaultPrevented() bool
}

// Element is a single page element. Setters are side effects with no
// return; getters on a detached or failed element return zero values.
type Element interface {
	ID() string

	Value() string
	SetValue(v string)
	Text() string
	SetText(t string)
	HTML() string
	SetHTML(h string)

	// ClassName is the space-joined class list, kept in sync with the
	// class operations below.
	ClassName() string
	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool

	AddEventListener(typ string, fn Listener)
	// Dispatch delivers ev to listeners registered on this element, in
	// registration order. Target only; there is no bubbling.
	Dispatch(ev Event)
}

// Provider resolves elements. Lookups report absence with a false
// second return instead of an error.
type Provider interface {
	ElementByID(id string) (Element, bool)
	// Query resolves a selector. Only the bare "#id" form is supported;
	// any other selector yields (nil, false).
	Query(selector string) (Element, bool)
	// QueryAll returns all matches. The slice is never nil.
	QueryAll(selector string) []Element
}

// NewEvent builds a plain event with working cancellation flags.
func NewEvent(typ string, detail any) Event {
	return &basicEvent{typ: typ, detail: detail}
}

type basicEvent struct {
	typ       string
	detail    any
	prevented bool
}

func (e *basicEvent) Type() string           { return e.typ }
func (e *basicEvent) Detail() any            { return e.detail }
func (e *basicEvent) PreventDefault()        { e.prevented = true }
func (e *basicEvent) StopPropagation()       {}
func (e *basicEvent) DefaultPrevented() bool { return e.prevented }

// idFromSelector extracts the id from a bare "#id" selector. Compound
// selectors (spaces, combinators, extra hashes) do not qualify.
func idFromSelector(sel string) (string, bool) {
	if !strings.HasPrefix(sel, "#") {
		return "", false
	}
	id := sel[1:]
	if id == "" || strings.ContainsAny(id, " \t>#.[:,") {
		return "", false
	}
	return id, true
}
