// Package handler exposes the screening wizard and the staff views over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/present"
	"lexscreen/internal/screening/rules"
	"lexscreen/internal/screening/service"
	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/platform/httputil"
	"lexscreen/pkg/requestcontext"
)

// Service is the screening behaviour the handler drives.
type Service interface {
	Start(ctx context.Context, variant intake.Variant) (*service.View, error)
	Get(ctx context.Context, screeningID id.ScreeningID) (*service.View, error)
	Next(ctx context.Context, screeningID id.ScreeningID, answers map[intake.FieldKey]intake.Answer) (*service.View, error)
	Back(ctx context.Context, screeningID id.ScreeningID, answers map[intake.FieldKey]intake.Answer) (*service.View, error)
	Submit(ctx context.Context, screeningID id.ScreeningID, answers map[intake.FieldKey]intake.Answer) (*service.View, error)
	FinalizeByID(ctx context.Context, screeningID id.ScreeningID, contact models.Contact) (*models.Record, error)
	Classify(ctx context.Context, facts intake.Facts) (rules.Classification, error)
	Rules(ctx context.Context, variant intake.Variant) (rules.TableInfo, error)
	GetRecord(ctx context.Context, recordID id.RecordID) (*models.Record, error)
	ListRecords(ctx context.Context, filter models.RecordFilter) ([]*models.Record, error)
	Stats(ctx context.Context) ([]models.VariantStats, error)
}

// TokenIssuer mints the resume token handed out when a screening starts.
type TokenIssuer interface {
	Issue(screeningID id.ScreeningID, variant string, now time.Time) (string, time.Time, error)
}

type Handler struct {
	service   Service
	tokens    TokenIssuer
	presenter *present.Presenter
	logger    *slog.Logger
}

func New(svc Service, tokens TokenIssuer, presenter *present.Presenter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service:   svc,
		tokens:    tokens,
		presenter: presenter,
		logger:    logger,
	}
}

// Register mounts the public wizard routes. resume guards every route that
// acts on an existing screening.
func (h *Handler) Register(r chi.Router, resume func(http.Handler) http.Handler) {
	r.Get("/variants", h.handleListVariants)
	r.Get("/variants/{variant}/flow", h.handleGetFlow)
	r.Post("/screenings", h.handleStart)

	r.Group(func(r chi.Router) {
		r.Use(resume)
		r.Get("/screenings/{screeningID}", h.handleGet)
		r.Post("/screenings/{screeningID}/next", h.handleNext)
		r.Post("/screenings/{screeningID}/back", h.handleBack)
		r.Post("/screenings/{screeningID}/submit", h.handleSubmit)
		r.Post("/screenings/{screeningID}/finalize", h.handleFinalize)
	})
}

// RegisterAdmin mounts the staff routes. Callers wrap r with admin auth.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/records", h.handleListRecords)
	r.Get("/admin/records/{recordID}", h.handleGetRecord)
	r.Get("/admin/stats", h.handleStats)
	r.Get("/admin/rules/{variant}", h.handleRules)
	r.Post("/admin/classify/{variant}", h.handleClassify)
}

// screeningFromPath parses the path id and checks it against the id bound by
// the resume token.
func screeningFromPath(r *http.Request) (id.ScreeningID, error) {
	screeningID, err := id.ParseScreeningID(chi.URLParam(r, "screeningID"))
	if err != nil {
		return id.ScreeningID{}, err
	}
	if requestcontext.ScreeningID(r.Context()) != screeningID {
		return id.ScreeningID{}, dErrors.New(dErrors.CodeForbidden, "resume token does not match screening")
	}
	return screeningID, nil
}

func variantFromPath(r *http.Request) (intake.Variant, error) {
	return intake.ParseVariant(chi.URLParam(r, "variant"))
}

// language picks the contact's language, then the first Accept-Language tag.
func language(preferred string, r *http.Request) string {
	if preferred != "" {
		return preferred
	}
	accept := r.Header.Get("Accept-Language")
	if accept == "" {
		return ""
	}
	first, _, _ := strings.Cut(accept, ",")
	tag, _, _ := strings.Cut(first, ";")
	return strings.TrimSpace(tag)
}

// writeError logs server-side failures before replying.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	code := dErrors.CodeOf(err)
	if dErrors.ToHTTPStatus(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, op+" failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	} else {
		h.logger.DebugContext(ctx, op+" rejected",
			"request_id", requestcontext.RequestID(ctx),
			"code", string(code),
		)
	}
	httputil.WriteError(w, err)
}
