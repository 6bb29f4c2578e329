package framework

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
)

type EmptyParams struct{}

type IDParams struct {
	ID string
}

type ParamsParser[P interface{}] func(path string) (P, bool)

type PageLoader[C interface{}, P interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	params P,
) (VM, error)

type LiveStateParser[S interface{}] func(r *http.Request) (S, error)

type LiveLoader[C interface{}, P interface{}, S interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	params P,
	state S,
) (VM, error)

type PageRenderer[VM interface{}] func(view VM) templ.Component

type LayoutRenderer[VM interface{}] func(view VM, child templ.Component) templ.Component

type PageModule[C interface{}, P interface{}, VM interface{}] struct {
	Pattern     string
	ParseParams ParamsParser[P]
	Load        PageLoader[C, P, VM]
	Render      PageRenderer[VM]
	Layouts     []LayoutRenderer[VM]
}

// LiveModule answers a live request on a page's path by patching the element
// with SelectorID instead of rendering the whole page.
type LiveModule[C interface{}, P interface{}, S interface{}, VM interface{}] struct {
	SelectorID string
	ParseState LiveStateParser[S]
	Load       LiveLoader[C, P, S, VM]
	Render     PageRenderer[VM]
}

type RuntimeContext[C interface{}] interface {
	AppContext() C
	RenderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error
	PatchLive(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error
	IsNotFound(err error) bool
	RespondNotFound(w http.ResponseWriter, r *http.Request, notFoundContext NotFoundContext)
	RespondBadRequest(w http.ResponseWriter, r *http.Request, message string)
	RespondServerError(w http.ResponseWriter, r *http.Request, err error)
}

type NotFoundSource string

const (
	NotFoundSourcePageLoad       NotFoundSource = "page_load"
	NotFoundSourceUnmatchedRoute NotFoundSource = "unmatched_route"
)

type NotFoundContext struct {
	RequestPath         string
	MatchedRoutePattern string
	Source              NotFoundSource
}

// RouteHandler is offered each request twice at most. TryServeLive is only
// called for requests the runtime already classified as live.
type RouteHandler[C interface{}] interface {
	TryServeLive(runtime RuntimeContext[C], w http.ResponseWriter, r *http.Request) bool
	TryServePage(runtime RuntimeContext[C], w http.ResponseWriter, r *http.Request) bool
}

type PageOnlyRouteHandler[C interface{}, P interface{}, VM interface{}] struct {
	Page PageModule[C, P, VM]
}

func (h PageOnlyRouteHandler[C, P, VM]) TryServeLive(RuntimeContext[C], http.ResponseWriter, *http.Request) bool {
	return false
}

func (h PageOnlyRouteHandler[C, P, VM]) TryServePage(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	return servePageModule(runtime, w, r, h.Page)
}

type LiveRouteHandler[C interface{}, P interface{}, S interface{}, VM interface{}] struct {
	Page PageModule[C, P, VM]
	Live LiveModule[C, P, S, VM]
}

func (h LiveRouteHandler[C, P, S, VM]) TryServeLive(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	params, ok := h.Page.ParseParams(r.URL.Path)
	if !ok {
		return false
	}

	state, err := h.Live.ParseState(r)
	if err != nil {
		runtime.RespondBadRequest(w, r, err.Error())
		return true
	}

	view, err := h.Live.Load(r.Context(), runtime.AppContext(), r, params, state)
	if err != nil {
		handleLoadError(runtime, w, r, err, h.Page.Pattern, NotFoundSourcePageLoad)
		return true
	}

	if err := runtime.PatchLive(w, r, h.Live.SelectorID, h.Live.Render(view)); err != nil {
		runtime.RespondServerError(w, r, fmt.Errorf("patch route %q: %w", h.Page.Pattern, err))
	}
	return true
}

func (h LiveRouteHandler[C, P, S, VM]) TryServePage(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	return servePageModule(runtime, w, r, h.Page)
}

func applyLayouts[VM interface{}](
	layouts []LayoutRenderer[VM],
	view VM,
	child templ.Component,
) templ.Component {
	wrapped := child
	for idx := len(layouts) - 1; idx >= 0; idx-- {
		wrapped = layouts[idx](view, wrapped)
	}
	return wrapped
}

func servePageModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	module PageModule[C, P, VM],
) bool {
	params, ok := module.ParseParams(r.URL.Path)
	if !ok {
		return false
	}

	view, err := module.Load(r.Context(), runtime.AppContext(), r, params)
	if err != nil {
		handleLoadError(runtime, w, r, err, module.Pattern, NotFoundSourcePageLoad)
		return true
	}

	component := applyLayouts(module.Layouts, view, module.Render(view))
	if err := runtime.RenderPage(r, w, component); err != nil {
		runtime.RespondServerError(w, r, fmt.Errorf("render route %q: %w", module.Pattern, err))
	}
	return true
}

func handleLoadError[C interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	err error,
	routePattern string,
	source NotFoundSource,
) {
	if runtime.IsNotFound(err) {
		runtime.RespondNotFound(w, r, NotFoundContext{
			RequestPath:         r.URL.Path,
			MatchedRoutePattern: routePattern,
			Source:              source,
		})
		return
	}

	runtime.RespondServerError(w, r, fmt.Errorf("load route %q: %w", routePattern, err))
}
