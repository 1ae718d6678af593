package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/rules"
	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/platform/httputil"
)

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter, err := parseRecordFilter(r)
	if err != nil {
		h.writeError(ctx, w, "list records", err)
		return
	}
	records, err := h.service.ListRecords(ctx, filter)
	if err != nil {
		h.writeError(ctx, w, "list records", err)
		return
	}
	summaries := h.presenter.Summaries(records)
	httputil.WriteJSON(w, http.StatusOK, RecordListResponse{Records: summaries, Count: len(summaries)})
}

func parseRecordFilter(r *http.Request) (models.RecordFilter, error) {
	q := r.URL.Query()
	var filter models.RecordFilter
	if v := q.Get("variant"); v != "" {
		variant, err := intake.ParseVariant(v)
		if err != nil {
			return filter, err
		}
		filter.Variant = variant
	}
	if v := q.Get("risk"); v != "" {
		switch risk := rules.RiskLevel(v); risk {
		case rules.RiskLow, rules.RiskModerate, rules.RiskHigh:
			filter.Risk = risk
		default:
			return filter, dErrors.New(dErrors.CodeInvalidInput, "risk must be low, moderate or high")
		}
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return filter, dErrors.New(dErrors.CodeInvalidInput, "limit must be a non-negative integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recordID, err := id.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		h.writeError(ctx, w, "get record", err)
		return
	}
	rec, err := h.service.GetRecord(ctx, recordID)
	if err != nil {
		h.writeError(ctx, w, "get record", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.presenter.Staff(rec))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.writeError(ctx, w, "record stats", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatsResponse{Variants: stats})
}

func (h *Handler) handleRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	variant, err := variantFromPath(r)
	if err != nil {
		h.writeError(ctx, w, "describe rules", err)
		return
	}
	info, err := h.service.Rules(ctx, variant)
	if err != nil {
		h.writeError(ctx, w, "describe rules", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, info)
}

// handleClassify runs the classifier over ad hoc answers without touching any
// stored screening. Missing answers stay unknown.
func (h *Handler) handleClassify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	variant, err := variantFromPath(r)
	if err != nil {
		h.writeError(ctx, w, "classify", err)
		return
	}
	req, err := httputil.DecodeJSON[AnswersRequest](r)
	if err != nil {
		h.writeError(ctx, w, "classify", err)
		return
	}
	schema, ok := intake.SchemaFor(variant)
	if !ok {
		h.writeError(ctx, w, "classify", dErrors.New(dErrors.CodeNotFound, "unknown variant"))
		return
	}
	answers, err := schema.ParseAnswers(req.Answers)
	if err != nil {
		h.writeError(ctx, w, "classify", err)
		return
	}
	facts, err := intake.New(variant).Merge(answers)
	if err != nil {
		h.writeError(ctx, w, "classify", err)
		return
	}
	c, err := h.service.Classify(ctx, facts)
	if err != nil {
		h.writeError(ctx, w, "classify", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}
