package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JonMunkholm/catalog/internal/core"
)

func TestOriginContext(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		wantIP     string
	}{
		{"host and port", "203.0.113.7:51234", "203.0.113.7"},
		{"ipv6", "[2001:db8::1]:443", "2001:db8::1"},
		{"bare address", "203.0.113.7", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got core.Origin
			h := originContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = core.OriginFrom(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("User-Agent", "scanner/1.0")
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, core.Origin{IP: tt.wantIP, UserAgent: "scanner/1.0"}, got)
		})
	}
}
