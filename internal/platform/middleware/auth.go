package middleware

import (
	"log/slog"
	"net/http"

	id "lexscreen/pkg/domain"
	"lexscreen/pkg/platform/httputil"
	"lexscreen/pkg/requestcontext"
)

// ResumeTokenHeader carries the token returned when a screening starts.
const ResumeTokenHeader = "X-Screening-Token"

// ResumeTokenValidator resolves a resume token to the screening it binds.
type ResumeTokenValidator interface {
	ValidateToken(tokenString string) (id.ScreeningID, error)
}

// RequireResumeToken rejects requests without a valid resume token and
// stores the bound screening id on the request context.
func RequireResumeToken(validator ResumeTokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get(ResumeTokenHeader)
			if token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing resume token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
					Error:       "unauthorized",
					Description: "missing " + ResumeTokenHeader + " header",
				})
				return
			}

			screeningID, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid resume token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithScreeningID(ctx, screeningID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
