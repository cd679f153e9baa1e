package middleware

import (
	"context"
	"net/http"
	"strings"
)

type routeKey struct{}

type route struct {
	pattern string
	params  map[string]string
}

// RoutePattern resolves the mux pattern before any middleware runs so logs and metrics can use
// it. Middleware copies the request, so the Pattern and path values the mux sets are not visible to them.
func RoutePattern(mux *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, pattern := mux.Handler(r)
			matched := route{pattern: pattern}
			if pattern == "" {
				matched.pattern = "unmatched"
			} else {
				matched.params = pathParams(pattern, r.URL.Path)
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), routeKey{}, matched)))
		})
	}
}

// RouteFromContext returns the pattern stored by RoutePattern, or the raw path.
func RouteFromContext(r *http.Request) string {
	if matched, ok := r.Context().Value(routeKey{}).(route); ok {
		return matched.pattern
	}
	return r.URL.Path
}

// RouteParam returns a path wildcard of the matched route, or "".
func RouteParam(r *http.Request, name string) string {
	matched, _ := r.Context().Value(routeKey{}).(route)
	return matched.params[name]
}

// pathParams lines up "{name}" segments of a mux pattern with the request path.
func pathParams(pattern, path string) map[string]string {
	// Drop the method and host parts of patterns such as "GET example.com/a/{id}"
	if i := strings.IndexByte(pattern, ' '); i >= 0 {
		pattern = strings.TrimLeft(pattern[i+1:], " ")
	}
	if i := strings.IndexByte(pattern, '/'); i > 0 {
		pattern = pattern[i:]
	}

	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	var params map[string]string
	for i, part := range patternParts {
		if i >= len(pathParts) || !strings.HasPrefix(part, "{") || !strings.HasSuffix(part, "}") {
			continue
		}
		name := strings.TrimSuffix(strings.TrimSuffix(part[1:len(part)-1], "..."), "$")
		if name == "" {
			continue
		}
		value := pathParts[i]
		if strings.HasSuffix(part, "...}") {
			value = strings.Join(pathParts[i:], "/")
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[name] = value
	}
	return params
}
