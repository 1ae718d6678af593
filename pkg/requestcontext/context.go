// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets the values; services read them without importing net/http.
//
//	screeningID := requestcontext.ScreeningID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "lexscreen/pkg/domain"
)

type (
	screeningIDKey struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	referrerKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// ScreeningID returns the screening bound by a verified resume token.
// Returns the nil id if not set.
func ScreeningID(ctx context.Context) id.ScreeningID {
	if v, ok := ctx.Value(screeningIDKey{}).(id.ScreeningID); ok {
		return v
	}
	return id.ScreeningID{}
}

func WithScreeningID(ctx context.Context, screeningID id.ScreeningID) context.Context {
	return context.WithValue(ctx, screeningIDKey{}, screeningID)
}

// ClientIP retrieves the client IP address from the context.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// UserAgent retrieves the User-Agent from the context.
func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// Referrer retrieves the Referer header from the context.
func Referrer(ctx context.Context) string {
	if ref, ok := ctx.Value(referrerKey{}).(string); ok {
		return ref
	}
	return ""
}

// WithClientMetadata injects client IP, User-Agent and referrer into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent, referrer string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	ctx = context.WithValue(ctx, userAgentKey{}, userAgent)
	return context.WithValue(ctx, referrerKey{}, referrer)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request-scoped time, or time.Now() outside a request.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request-scoped time.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
