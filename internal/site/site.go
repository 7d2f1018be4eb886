// Package site holds the page route table. It has a single entry for the
// lifetime of the process: GET / renders the home page.
package site

import "net/http"

const RouteHome = "home"

type Route struct {
	Method  string
	Pattern string
	Name    string
	Handler http.Handler
}

// Routes returns the page route table.
func Routes(home http.Handler) []Route {
	return []Route{
		{Method: http.MethodGet, Pattern: "/", Name: RouteHome, Handler: home},
	}
}

// Register binds each route on mux with an exact-path method pattern. A
// trailing-slash pattern would otherwise catch every unmatched path.
// Middleware, when non-nil, wraps each handler and receives the route name.
func Register(mux *http.ServeMux, routes []Route, middleware func(name string, next http.Handler) http.Handler) {
	for _, route := range routes {
		h := route.Handler
		if middleware != nil {
			h = middleware(route.Name, h)
		}
		mux.Handle(muxPattern(route), h)
	}
}

func muxPattern(route Route) string {
	pattern := route.Pattern
	if len(pattern) > 0 && pattern[len(pattern)-1] == '/' {
		pattern += "{$}"
	}
	return route.Method + " " + pattern
}
