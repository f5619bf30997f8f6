package element

import (
	"sync"

	"github.com/go-rod/rod"
	"go.uber.org/zap"
)

// PageConfig configures a PageProvider. Page is required; a nil Logger
// falls back to a no-op logger.
type PageConfig struct {
	Page   *rod.Page
	Logger *zap.Logger
}

// PageProvider resolves elements against a live Chromium page. Page
// failures degrade to absence or zero values; they are logged, not
// returned, so page-backed and fixture-backed code paths stay identical.
type PageProvider struct {
	page   *rod.Page
	logger *zap.Logger
}

// NewPageProvider creates a provider over a live page.
func NewPageProvider(cfg PageConfig) *PageProvider {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageProvider{page: cfg.Page, logger: logger}
}

func (p *PageProvider) ElementByID(id string) (Element, bool) {
	if p.page == nil || id == "" {
		return nil, false
	}
	has, el, err := p.page.Has("#" + id)
	if err != nil {
		p.logger.Debug("element lookup failed", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	if !has {
		return nil, false
	}
	return &pageElement{id: id, el: el, logger: p.logger, listeners: map[string][]Listener{}}, true
}

func (p *PageProvider) Query(selector string) (Element, bool) {
	id, ok := idFromSelector(selector)
	if !ok {
		return nil, false
	}
	return p.ElementByID(id)
}

func (p *PageProvider) QueryAll(selector string) []Element {
	return []Element{}
}

// pageElement adapts a rod element. Listener registration is Go-side;
// Dispatch invokes those listeners and fires a CustomEvent on the page.
type pageElement struct {
	id     string
	el     *rod.Element
	logger *zap.Logger

	mu        sync.Mutex
	listeners map[string][]Listener
}

func (e *pageElement) ID() string { return e.id }

// evalStr runs js against the element and returns the string result,
// or "" on failure.
func (e *pageElement) evalStr(js string, args ...any) string {
	res, err := e.el.Eval(js, args...)
	if err != nil {
		e.logger.Debug("element eval failed", zap.String("id", e.id), zap.Error(err))
		return ""
	}
	return res.Value.Str()
}

// evalDo runs js for its side effect.
func (e *pageElement) evalDo(js string, args ...any) {
	if _, err := e.el.Eval(js, args...); err != nil {
		e.logger.Debug("element eval failed", zap.String("id", e.id), zap.Error(err))
	}
}

func (e *pageElement) Value() string     { return e.evalStr(`() => String(this.value ?? "")`) }
func (e *pageElement) SetValue(v string) { e.evalDo(`v => { this.value = v }`, v) }
func (e *pageElement) Text() string      { return e.evalStr(`() => this.textContent ?? ""`) }
func (e *pageElement) SetText(t string)  { e.evalDo(`t => { this.textContent = t }`, t) }
func (e *pageElement) HTML() string      { return e.evalStr(`() => this.innerHTML`) }
func (e *pageElement) SetHTML(h string)  { e.evalDo(`h => { this.innerHTML = h }`, h) }
func (e *pageElement) ClassName() string { return e.evalStr(`() => this.className`) }

func (e *pageElement) AddClass(name string) {
	e.evalDo(`n => this.classList.add(n)`, name)
}
func (e *pageElement) RemoveClass(name string) {
	e.evalDo(`n => this.classList.remove(n)`, name)
}

func (e *pageElement) HasClass(name string) bool {
	res, err := e.el.Eval(`n => this.classList.contains(n)`, name)
	if err != nil {
		e.logger.Debug("element eval failed", zap.String("id", e.id), zap.Error(err))
		return false
	}
	return res.Value.Bool()
}

func (e *pageElement) AddEventListener(typ string, fn Listener) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.listeners[typ] = append(e.listeners[typ], fn)
	e.mu.Unlock()
}

func (e *pageElement) Dispatch(ev Event) {
	if ev == nil {
		return
	}
	e.mu.Lock()
	fns := append([]Listener(nil), e.listeners[ev.Type()]...)
	e.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
	e.evalDo(`(t, d) => { this.dispatchEvent(new CustomEvent(t, { detail: d })) }`,
		ev.Type(), ev.Detail())
}

var (
	_ Element  = (*pageElement)(nil)
	_ Provider = (*PageProvider)(nil)
)
