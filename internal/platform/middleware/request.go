package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"lexscreen/pkg/requestcontext"
)

// RequestID copies chi's request id onto the request context and echoes it
// in the response. Mount after chimw.RequestID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimw.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
