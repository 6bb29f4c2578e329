package web

import (
	"strings"

	"docsearch/framework"
	"docsearch/framework/router"
	"docsearch/internal/web/appcore"
	"docsearch/internal/web/views"
	"github.com/a-h/templ"
)

// Handlers wires every route of the table to its loader and view. Search and
// browse also answer live requests with a patch of their result list.
func Handlers() []framework.RouteHandler[*appcore.Context] {
	table := appcore.Router()

	return []framework.RouteHandler[*appcore.Context]{
		framework.PageOnlyRouteHandler[*appcore.Context, framework.EmptyParams, appcore.HomePageView]{
			Page: framework.PageModule[*appcore.Context, framework.EmptyParams, appcore.HomePageView]{
				Pattern:     pattern(table, appcore.RouteHome),
				ParseParams: emptyParams(table, appcore.RouteHome),
				Load:        appcore.LoadHomePage,
				Render:      views.HomePage,
				Layouts:     []framework.LayoutRenderer[appcore.HomePageView]{layout[appcore.HomePageView]},
			},
		},
		framework.LiveRouteHandler[*appcore.Context, framework.EmptyParams, appcore.SearchSignalState, appcore.SearchPageView]{
			Page: framework.PageModule[*appcore.Context, framework.EmptyParams, appcore.SearchPageView]{
				Pattern:     pattern(table, appcore.RouteSearch),
				ParseParams: emptyParams(table, appcore.RouteSearch),
				Load:        appcore.LoadSearchPage,
				Render:      views.SearchPage,
				Layouts:     []framework.LayoutRenderer[appcore.SearchPageView]{layout[appcore.SearchPageView]},
			},
			Live: framework.LiveModule[*appcore.Context, framework.EmptyParams, appcore.SearchSignalState, appcore.SearchPageView]{
				SelectorID: appcore.SearchResultsSelectorID,
				ParseState: appcore.ParseSearchLiveState,
				Load:       appcore.LoadSearchLive,
				Render:     views.SearchResults,
			},
		},
		framework.PageOnlyRouteHandler[*appcore.Context, framework.IDParams, appcore.DocumentPageView]{
			Page: framework.PageModule[*appcore.Context, framework.IDParams, appcore.DocumentPageView]{
				Pattern:     pattern(table, appcore.RouteDocument),
				ParseParams: idParams(table, appcore.RouteDocument),
				Load:        appcore.LoadDocumentPage,
				Render:      views.DocumentPage,
				Layouts:     []framework.LayoutRenderer[appcore.DocumentPageView]{layout[appcore.DocumentPageView]},
			},
		},
		framework.LiveRouteHandler[*appcore.Context, framework.EmptyParams, appcore.BrowseSignalState, appcore.BrowsePageView]{
			Page: framework.PageModule[*appcore.Context, framework.EmptyParams, appcore.BrowsePageView]{
				Pattern:     pattern(table, appcore.RouteBrowse),
				ParseParams: emptyParams(table, appcore.RouteBrowse),
				Load:        appcore.LoadBrowsePage,
				Render:      views.BrowsePage,
				Layouts:     []framework.LayoutRenderer[appcore.BrowsePageView]{layout[appcore.BrowsePageView]},
			},
			Live: framework.LiveModule[*appcore.Context, framework.EmptyParams, appcore.BrowseSignalState, appcore.BrowsePageView]{
				SelectorID: appcore.BrowseListSelectorID,
				ParseState: appcore.ParseBrowseLiveState,
				Load:       appcore.LoadBrowseLive,
				Render:     views.BrowseList,
			},
		},
	}
}

func NotFoundPage(notFoundContext framework.NotFoundContext) templ.Component {
	path := strings.TrimSpace(notFoundContext.RequestPath)
	if path == "" {
		path = "/"
	}

	view := appcore.NotFoundView{Path: path}
	return views.Layout(view, views.NotFound(view))
}

func ErrorPage(status int) templ.Component {
	return views.ErrorPage(status)
}

func layout[VM appcore.LayoutView](view VM, child templ.Component) templ.Component {
	return views.Layout(view, child)
}

func pattern(table *router.Router, name string) string {
	route, ok := table.Lookup(name)
	if !ok {
		return ""
	}
	return route.Pattern
}

func emptyParams(table *router.Router, name string) framework.ParamsParser[framework.EmptyParams] {
	return func(path string) (framework.EmptyParams, bool) {
		_, ok := table.MatchRoute(name, path)
		return framework.EmptyParams{}, ok
	}
}

func idParams(table *router.Router, name string) framework.ParamsParser[framework.IDParams] {
	return func(path string) (framework.IDParams, bool) {
		match, ok := table.MatchRoute(name, path)
		if !ok {
			return framework.IDParams{}, false
		}

		id, ok := match.Props()["id"]
		if !ok || id == "" {
			return framework.IDParams{}, false
		}
		return framework.IDParams{ID: id}, true
	}
}
