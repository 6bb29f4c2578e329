package appcore

import (
	"net/url"
	"strconv"
	"strings"

	"docsearch/framework/router"
)

const (
	RouteHome     = "Home"
	RouteSearch   = "Search"
	RouteDocument = "Document"
	RouteBrowse   = "Browse"
)

const (
	ViewHome     = "home"
	ViewSearch   = "search"
	ViewDocument = "document"
	ViewBrowse   = "browse"
)

const (
	SearchResultsSelectorID = "search-results"
	BrowseListSelectorID    = "browse-list"
)

var routeTable = router.MustNew(RouteTable())

// RouteTable lists every page of the site. The document id is a catch-all so
// identifiers containing "/" reach the document view intact.
func RouteTable() []router.Route {
	return []router.Route{
		{Pattern: "/", Name: RouteHome, View: ViewHome},
		{Pattern: "/search", Name: RouteSearch, View: ViewSearch},
		{Pattern: "/document/[...id]", Name: RouteDocument, View: ViewDocument, Props: true},
		{Pattern: "/browse", Name: RouteBrowse, View: ViewBrowse},
	}
}

func Router() *router.Router {
	return routeTable
}

func DocumentPath(id string) string {
	target, err := routeTable.Path(RouteDocument, map[string]string{"id": id})
	if err != nil {
		return "/"
	}
	return target
}

func BuildSearchURL(query string, topK int) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return "/search"
	}

	q := make(url.Values)
	q.Set("q", query)
	if topK > 0 {
		q.Set("top_k", strconv.Itoa(topK))
	}
	return "/search?" + q.Encode()
}

func BuildBrowseURL(page int, perPage int) string {
	if page < 1 {
		page = 1
	}

	q := make(url.Values)
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}

	encoded := q.Encode()
	if encoded == "" {
		return "/browse"
	}
	return "/browse?" + encoded
}
