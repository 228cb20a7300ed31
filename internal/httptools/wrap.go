package httptools

import "net/http"

// Chain is an ordered list of middlewares. The first one sees the request first.
type Chain []Middleware

// Then wraps h. A nil h is passed to the innermost middleware as is.
func (c Chain) Then(h http.Handler) http.Handler {
	for i := len(c) - 1; i >= 0; i-- {
		h = c[i](h)
	}
	return h
}

func Wrap(h http.Handler, mw ...Middleware) http.HandlerFunc {
	return Chain(mw).Then(h).ServeHTTP
}
