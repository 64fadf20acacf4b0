package core

import (
	"context"
	"log/slog"
)

type contextKey string

const ctxKeyOrigin contextKey = "origin"

// Origin identifies where a request came from, for order and import logs.
type Origin struct {
	IP        string
	UserAgent string
}

// WithOrigin attaches o to ctx.
func WithOrigin(ctx context.Context, o Origin) context.Context {
	return context.WithValue(ctx, ctxKeyOrigin, o)
}

// OriginFrom returns the Origin on ctx, or the zero value.
func OriginFrom(ctx context.Context) Origin {
	o, _ := ctx.Value(ctxKeyOrigin).(Origin)
	return o
}

// originAttrs renders the Origin as log attributes; empty fields are left out.
func originAttrs(ctx context.Context) []any {
	o := OriginFrom(ctx)
	var attrs []any
	if o.IP != "" {
		attrs = append(attrs, slog.String("client_ip", o.IP))
	}
	if o.UserAgent != "" {
		attrs = append(attrs, slog.String("user_agent", o.UserAgent))
	}
	return attrs
}
