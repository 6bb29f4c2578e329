// Package engine dispatches a request to the route handlers of the app.
//
// A request flagged as live is offered to the live side of every handler
// before any page renders. A live request that no handler patches falls back
// to a full page, so a live header sent to a page-only route still gets HTML.
package engine

import (
	"errors"
	"net/http"

	"docsearch/framework"
	"github.com/a-h/templ"
)

// Mode reports how Dispatch answered a request.
type Mode int

const (
	ModeNone Mode = iota
	ModePage
	ModeLive
)

func (m Mode) String() string {
	switch m {
	case ModePage:
		return "page"
	case ModeLive:
		return "live"
	default:
		return "none"
	}
}

// Config wires the engine to its transport. Only RenderPage is required;
// the other hooks fall back to plain net/http responses.
type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	IsLiveRequest func(r *http.Request) bool
	RenderPage    func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	PatchLive     func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error

	IsNotFoundError   func(err error) bool
	HandleNotFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	HandleBadRequest  func(w http.ResponseWriter, r *http.Request, message string)
	HandleServerError func(w http.ResponseWriter, r *http.Request, err error)
}

type Engine[C interface{}] struct {
	appContext C
	handlers   []framework.RouteHandler[C]
	hooks      Config[C]
}

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.RenderPage == nil {
		return nil, errors.New("render page callback is required")
	}

	return &Engine[C]{
		appContext: cfg.AppContext,
		handlers:   cfg.Handlers,
		hooks:      withDefaultHooks(cfg),
	}, nil
}

func withDefaultHooks[C interface{}](cfg Config[C]) Config[C] {
	if cfg.IsLiveRequest == nil {
		cfg.IsLiveRequest = func(*http.Request) bool { return false }
	}
	if cfg.PatchLive == nil {
		cfg.PatchLive = func(http.ResponseWriter, *http.Request, string, templ.Component) error {
			return errors.New("live patching is not configured")
		}
	}
	if cfg.IsNotFoundError == nil {
		cfg.IsNotFoundError = func(error) bool { return false }
	}
	if cfg.HandleNotFound == nil {
		cfg.HandleNotFound = func(w http.ResponseWriter, r *http.Request, _ framework.NotFoundContext) {
			http.NotFound(w, r)
		}
	}
	if cfg.HandleBadRequest == nil {
		cfg.HandleBadRequest = func(w http.ResponseWriter, _ *http.Request, message string) {
			http.Error(w, message, http.StatusBadRequest)
		}
	}
	if cfg.HandleServerError == nil {
		cfg.HandleServerError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
	return cfg
}

// Dispatch answers r with the first handler that claims it. ModeNone means
// nothing was written and the caller owns the response.
func (engine *Engine[C]) Dispatch(w http.ResponseWriter, r *http.Request) Mode {
	if engine.hooks.IsLiveRequest(r) {
		for _, handler := range engine.handlers {
			if handler.TryServeLive(engine, w, r) {
				return ModeLive
			}
		}
	}

	for _, handler := range engine.handlers {
		if handler.TryServePage(engine, w, r) {
			return ModePage
		}
	}

	return ModeNone
}

func (engine *Engine[C]) AppContext() C {
	return engine.appContext
}

func (engine *Engine[C]) RenderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error {
	return engine.hooks.RenderPage(r, w, component)
}

func (engine *Engine[C]) PatchLive(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error {
	return engine.hooks.PatchLive(w, r, selectorID, component)
}

func (engine *Engine[C]) IsNotFound(err error) bool {
	return engine.hooks.IsNotFoundError(err)
}

func (engine *Engine[C]) RespondNotFound(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext) {
	engine.hooks.HandleNotFound(w, r, notFoundContext)
}

func (engine *Engine[C]) RespondBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	engine.hooks.HandleBadRequest(w, r, message)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, r *http.Request, err error) {
	engine.hooks.HandleServerError(w, r, err)
}
