package httptools

import (
	"net"
	"net/http"
	"net/netip"
)

// IsLocalNetworkReq reports whether r came straight from a loopback or
// private address. Anything relayed through a proxy counts as external.
func IsLocalNetworkReq(r *http.Request) bool {
	if r.Header.Get("X-Real-IP") != "" || r.Header.Get("X-Forwarded-For") != "" {
		return false
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate()
}

// LocalOnly answers status with an empty body to requests from outside the
// local network, hiding operational endpoints such as metrics and probes.
func LocalOnly(status int) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsLocalNetworkReq(r) {
				w.WriteHeader(status)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
