package httptools

import (
	"net/http"
	"path"
	"slices"
	"strings"
)

// Skip bypasses mw for requests matching one of the patterns. A pattern is
// a path.Match glob, optionally prefixed with a method: "POST /v1/webhook/*/*".
func Skip(mw Middleware, patterns ...string) Middleware {
	rules := make([]skipRule, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, parseSkipRule(p))
	}

	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.ContainsFunc(rules, func(rule skipRule) bool { return rule.matches(r) }) {
				next.ServeHTTP(w, r)
				return
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}

type skipRule struct {
	method  string
	pattern string
}

func parseSkipRule(p string) skipRule {
	if method, rest, ok := strings.Cut(p, " "); ok {
		return skipRule{method: method, pattern: strings.TrimSpace(rest)}
	}
	return skipRule{pattern: p}
}

func (s skipRule) matches(r *http.Request) bool {
	if s.method != "" && s.method != r.Method {
		return false
	}
	ok, _ := path.Match(s.pattern, r.URL.Path)
	return ok
}
