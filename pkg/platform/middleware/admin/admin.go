package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/platform/httputil"
	"lexscreen/pkg/requestcontext"
)

// AdminTokenHeader carries the shared staff token.
const AdminTokenHeader = "X-Admin-Token"

var errAdminToken = dErrors.New(dErrors.CodeUnauthorized, "admin token required")

// RequireAdminToken lets a request through only when it presents the
// configured staff token. With no token configured the staff surface is
// closed entirely.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	want := []byte(expectedToken)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(AdminTokenHeader))
			if len(want) > 0 && subtle.ConstantTimeCompare(got, want) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			logger.WarnContext(ctx, "staff request rejected",
				"request_id", requestcontext.RequestID(ctx),
				"client_ip", requestcontext.ClientIP(ctx),
				"path", r.URL.Path,
				"token_present", len(got) > 0,
			)
			httputil.WriteError(w, errAdminToken)
		})
	}
}
