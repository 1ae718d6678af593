package testutil

import (
	"net/http"
	"time"

	id "lexscreen/pkg/domain"
	"lexscreen/pkg/requestcontext"
)

// WithScreeningID binds a screening to the request the way the resume token
// middleware does.
func WithScreeningID(req *http.Request, screeningID id.ScreeningID) *http.Request {
	return req.WithContext(requestcontext.WithScreeningID(req.Context(), screeningID))
}

// WithTime pins the request clock.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithClient sets the client metadata normally derived from headers.
func WithClient(req *http.Request, ip, userAgent, referrer string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, userAgent, referrer))
}
