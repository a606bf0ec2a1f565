package middleware

import (
	"net/http"
	"strings"
)

const MethodOverrideParam = "_method"

var overridable = map[string]struct{}{
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// MethodOverride lets HTML forms reach PUT and DELETE routes: a POST with
// ?_method=PUT|PATCH|DELETE is routed as that method. It wraps the router
// because routing happens before gin middleware runs.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			m := strings.ToUpper(r.URL.Query().Get(MethodOverrideParam))
			if _, ok := overridable[m]; ok {
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}
