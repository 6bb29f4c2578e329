package router

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
)

var paramNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

type segmentKind int

const (
	segmentStatic segmentKind = iota
	segmentParam
	segmentCatchAll
)

type pathSegment struct {
	name string
	kind segmentKind
}

// Route is one entry of the route table. Pattern segments are static text,
// "[name]" for a single segment or "[...name]" for the rest of the path.
// When Props is set the captured params are handed to the view.
type Route struct {
	Pattern string
	Name    string
	View    string
	Props   bool
}

type compiledRoute struct {
	route       Route
	segments    []pathSegment
	staticCount int
	catchAll    bool
	patternKey  string
}

type Match struct {
	Route  Route
	Params map[string]string
}

func (m Match) Param(name string) (string, bool) {
	if m.Params == nil {
		return "", false
	}

	value, ok := m.Params[name]
	return value, ok
}

// Props returns the params passed to the view, or an empty map when the
// route does not pass props.
func (m Match) Props() map[string]string {
	if !m.Route.Props || len(m.Params) == 0 {
		return map[string]string{}
	}

	props := make(map[string]string, len(m.Params))
	for key, value := range m.Params {
		props[key] = value
	}
	return props
}

type Router struct {
	routes []compiledRoute
	byName map[string]compiledRoute
}

func New(routes []Route) (*Router, error) {
	if len(routes) == 0 {
		return nil, errors.New("route table cannot be empty")
	}

	compiled := make([]compiledRoute, 0, len(routes))
	byName := make(map[string]compiledRoute, len(routes))
	seenPattern := make(map[string]string, len(routes))

	for _, route := range routes {
		name := strings.TrimSpace(route.Name)
		if name == "" {
			return nil, fmt.Errorf("route %q has no name", route.Pattern)
		}
		if _, ok := byName[name]; ok {
			return nil, fmt.Errorf("duplicate route name %q", name)
		}

		entry, err := compileRoute(route)
		if err != nil {
			return nil, err
		}

		if existing, ok := seenPattern[entry.patternKey]; ok {
			return nil, fmt.Errorf("route pattern conflict: %q and %q", existing, route.Name)
		}
		seenPattern[entry.patternKey] = route.Name

		compiled = append(compiled, entry)
		byName[name] = entry
	}

	sort.SliceStable(compiled, func(i int, j int) bool {
		left := compiled[i]
		right := compiled[j]

		if left.staticCount != right.staticCount {
			return left.staticCount > right.staticCount
		}
		if left.catchAll != right.catchAll {
			return !left.catchAll
		}
		if len(left.segments) != len(right.segments) {
			return len(left.segments) > len(right.segments)
		}
		return left.route.Name < right.route.Name
	})

	return &Router{routes: compiled, byName: byName}, nil
}

func MustNew(routes []Route) *Router {
	router, err := New(routes)
	if err != nil {
		panic(err)
	}
	return router
}

func compileRoute(route Route) (compiledRoute, error) {
	pattern := strings.TrimSpace(route.Pattern)
	if !strings.HasPrefix(pattern, "/") {
		return compiledRoute{}, fmt.Errorf("route %q: pattern %q must start with /", route.Name, route.Pattern)
	}

	parts := splitPathSegments(pattern)
	segments := make([]pathSegment, 0, len(parts))
	keyParts := make([]string, 0, len(parts))
	staticCount := 0
	catchAll := false

	for idx, part := range parts {
		segment, err := parseSegment(part)
		if err != nil {
			return compiledRoute{}, fmt.Errorf("route %q: %w", route.Name, err)
		}

		switch segment.kind {
		case segmentCatchAll:
			if idx != len(parts)-1 {
				return compiledRoute{}, fmt.Errorf("route %q: catch-all %q must be the last segment", route.Name, part)
			}
			catchAll = true
			keyParts = append(keyParts, "*")
		case segmentParam:
			keyParts = append(keyParts, ":")
		default:
			staticCount++
			keyParts = append(keyParts, part)
		}
		segments = append(segments, segment)
	}

	return compiledRoute{
		route:       route,
		segments:    segments,
		staticCount: staticCount,
		catchAll:    catchAll,
		patternKey:  "/" + strings.Join(keyParts, "/"),
	}, nil
}

func parseSegment(segment string) (pathSegment, error) {
	if strings.HasPrefix(segment, "[") || strings.HasSuffix(segment, "]") {
		if !strings.HasPrefix(segment, "[") || !strings.HasSuffix(segment, "]") {
			return pathSegment{}, fmt.Errorf("invalid param segment %q", segment)
		}

		inner := strings.TrimSpace(segment[1 : len(segment)-1])
		kind := segmentParam
		if strings.HasPrefix(inner, "...") {
			kind = segmentCatchAll
			inner = strings.TrimPrefix(inner, "...")
		}
		if !paramNamePattern.MatchString(inner) {
			return pathSegment{}, fmt.Errorf("invalid param name %q", inner)
		}

		return pathSegment{name: inner, kind: kind}, nil
	}

	if strings.ContainsAny(segment, "[]") {
		return pathSegment{}, fmt.Errorf("invalid static segment %q", segment)
	}

	return pathSegment{name: segment, kind: segmentStatic}, nil
}

// Match selects the route for requestPath. Static segments win over params,
// params win over catch-all, and longer patterns win over shorter ones.
func (router *Router) Match(requestPath string) (Match, bool) {
	requestSegments := splitRequestPath(requestPath)

	for _, route := range router.routes {
		if params, ok := matchSegments(route.segments, requestSegments); ok {
			return Match{Route: route.route, Params: params}, true
		}
	}

	return Match{}, false
}

// MatchRoute reports whether requestPath resolves to the route called name.
func (router *Router) MatchRoute(name string, requestPath string) (Match, bool) {
	match, ok := router.Match(requestPath)
	if !ok || match.Route.Name != name {
		return Match{}, false
	}
	return match, true
}

func (router *Router) Lookup(name string) (Route, bool) {
	entry, ok := router.byName[name]
	return entry.route, ok
}

// Routes returns the table in match order.
func (router *Router) Routes() []Route {
	out := make([]Route, 0, len(router.routes))
	for _, entry := range router.routes {
		out = append(out, entry.route)
	}
	return out
}

// Path builds the URL path for the named route. Param values are escaped per
// segment; a catch-all value keeps its "/" separators.
func (router *Router) Path(name string, params map[string]string) (string, error) {
	entry, ok := router.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown route %q", name)
	}

	if len(entry.segments) == 0 {
		return "/", nil
	}

	parts := make([]string, 0, len(entry.segments))
	for _, segment := range entry.segments {
		if segment.kind == segmentStatic {
			parts = append(parts, segment.name)
			continue
		}

		value := params[segment.name]
		if strings.Trim(value, "/") == "" {
			return "", fmt.Errorf("route %q: missing param %q", name, segment.name)
		}

		if segment.kind == segmentParam {
			parts = append(parts, url.PathEscape(value))
			continue
		}

		pieces := strings.Split(strings.TrimPrefix(value, "/"), "/")
		for idx, piece := range pieces {
			pieces[idx] = url.PathEscape(piece)
		}
		parts = append(parts, strings.Join(pieces, "/"))
	}

	return "/" + strings.Join(parts, "/"), nil
}

// MatchPathPattern matches a single pattern without building a table.
func MatchPathPattern(pattern string, requestPath string) (map[string]string, bool) {
	patternParts := splitPathSegments(pattern)
	segments := make([]pathSegment, 0, len(patternParts))
	for _, part := range patternParts {
		segment, err := parseSegment(part)
		if err != nil {
			return nil, false
		}
		segments = append(segments, segment)
	}

	return matchSegments(segments, splitRequestPath(requestPath))
}

// matchSegments compares raw request segments against a compiled pattern.
// A catch-all takes the remaining segments verbatim, empty ones included.
// Other patterns tolerate a single trailing slash.
func matchSegments(segments []pathSegment, requestSegments []string) (map[string]string, bool) {
	catchAll := len(segments) > 0 && segments[len(segments)-1].kind == segmentCatchAll
	if catchAll {
		if len(requestSegments) < len(segments) {
			return nil, false
		}
	} else {
		if len(requestSegments) == len(segments)+1 && requestSegments[len(requestSegments)-1] == "" {
			requestSegments = requestSegments[:len(segments)]
		}
		if len(segments) != len(requestSegments) {
			return nil, false
		}
	}

	params := make(map[string]string, 2)
	for idx, segment := range segments {
		requestValue := requestSegments[idx]
		switch segment.kind {
		case segmentCatchAll:
			value := strings.Join(requestSegments[idx:], "/")
			if strings.Trim(value, "/") == "" {
				return nil, false
			}
			params[segment.name] = value
		case segmentParam:
			if requestValue == "" {
				return nil, false
			}
			params[segment.name] = requestValue
		default:
			if segment.name != requestValue {
				return nil, false
			}
		}
	}

	if len(params) == 0 {
		return nil, true
	}
	return params, true
}

// splitPathSegments normalises a route pattern.
func splitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	if cleaned == "/" {
		return []string{}
	}

	trimmed := strings.Trim(cleaned, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}

// splitRequestPath drops only the leading slash, so "//", ".." and trailing
// slashes reach the matcher unchanged.
func splitRequestPath(raw string) []string {
	trimmed := strings.TrimPrefix(raw, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}
