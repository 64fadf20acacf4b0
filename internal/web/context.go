package web

import (
	"net"
	"net/http"

	"github.com/JonMunkholm/catalog/internal/core"
)

// originContext records the client address for rate limiting and for the
// order and import logs.
// It runs after TrustedRealIP, so proxied requests carry the real client.
func originContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(core.WithOrigin(r.Context(), requestOrigin(r))))
	})
}

func requestOrigin(r *http.Request) core.Origin {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return core.Origin{IP: ip, UserAgent: r.UserAgent()}
}
