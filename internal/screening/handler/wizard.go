package handler

import (
	"context"
	"net/http"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/service"
	"lexscreen/internal/screening/wizard"
	id "lexscreen/pkg/domain"
	dErrors "lexscreen/pkg/domain-errors"
	"lexscreen/pkg/platform/httputil"
	"lexscreen/pkg/requestcontext"
)

func (h *Handler) handleListVariants(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string][]intake.Variant{"variants": intake.Variants()})
}

func (h *Handler) handleGetFlow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	variant, err := variantFromPath(r)
	if err != nil {
		h.writeError(ctx, w, "get flow", err)
		return
	}
	flow, ok := wizard.FlowFor(variant)
	schema, hasSchema := intake.SchemaFor(variant)
	if !ok || !hasSchema {
		h.writeError(ctx, w, "get flow", dErrors.New(dErrors.CodeNotFound, "unknown variant"))
		return
	}
	resp := FlowResponse{Variant: variant, Steps: make([]StepView, 0, len(flow.Steps))}
	for _, s := range flow.Steps {
		resp.Steps = append(resp.Steps, stepView(schema, s))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[StartRequest](r)
	if err != nil {
		h.writeError(ctx, w, "start screening", err)
		return
	}
	variant, err := intake.ParseVariant(req.Variant)
	if err != nil {
		h.writeError(ctx, w, "start screening", err)
		return
	}
	view, err := h.service.Start(ctx, variant)
	if err != nil {
		h.writeError(ctx, w, "start screening", err)
		return
	}
	token, expiresAt, err := h.tokens.Issue(view.Progress.ID, string(variant), requestcontext.Now(ctx))
	if err != nil {
		h.writeError(ctx, w, "start screening", dErrors.Wrap(err, dErrors.CodeInternal, "issue resume token"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, StartResponse{
		ResumeToken: token,
		ExpiresAt:   expiresAt,
		Progress:    h.progressResponse(view, language("", r)),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	screeningID, err := screeningFromPath(r)
	if err != nil {
		h.writeError(ctx, w, "get screening", err)
		return
	}
	view, err := h.service.Get(ctx, screeningID)
	if err != nil {
		h.writeError(ctx, w, "get screening", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.progressResponse(view, language("", r)))
}

type navigate func(context.Context, id.ScreeningID, map[intake.FieldKey]intake.Answer) (*service.View, error)

func (h *Handler) handleNext(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, "next step", h.service.Next)
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, "previous step", h.service.Back)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, "submit screening", h.service.Submit)
}

// navigate parses answers against the screening's own schema, then applies
// the transition.
func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, op string, move navigate) {
	ctx := r.Context()
	screeningID, err := screeningFromPath(r)
	if err != nil {
		h.writeError(ctx, w, op, err)
		return
	}
	req, err := httputil.DecodeJSON[AnswersRequest](r)
	if err != nil {
		h.writeError(ctx, w, op, err)
		return
	}
	current, err := h.service.Get(ctx, screeningID)
	if err != nil {
		h.writeError(ctx, w, op, err)
		return
	}
	schema, ok := intake.SchemaFor(current.Progress.Variant)
	if !ok {
		h.writeError(ctx, w, op, dErrors.New(dErrors.CodeInternal, "screening has unknown variant"))
		return
	}
	answers, err := schema.ParseAnswers(req.Answers)
	if err != nil {
		h.writeError(ctx, w, op, err)
		return
	}
	view, err := move(ctx, screeningID, answers)
	if err != nil {
		h.writeError(ctx, w, op, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.progressResponse(view, language("", r)))
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	screeningID, err := screeningFromPath(r)
	if err != nil {
		h.writeError(ctx, w, "finalize screening", err)
		return
	}
	req, err := httputil.DecodeJSON[FinalizeRequest](r)
	if err != nil {
		h.writeError(ctx, w, "finalize screening", err)
		return
	}
	rec, err := h.service.FinalizeByID(ctx, screeningID, req.Contact)
	if err != nil {
		h.writeError(ctx, w, "finalize screening", err)
		return
	}
	sub := models.Submission{
		ScreeningID:    rec.ScreeningID,
		Variant:        rec.Variant,
		Facts:          rec.Facts,
		Classification: rec.Classification,
		Unanswered:     rec.Unanswered,
		StartedAt:      rec.StartedAt,
		CompletedAt:    rec.SubmittedAt,
	}
	httputil.WriteJSON(w, http.StatusCreated, FinalizeResponse{
		RecordID:    rec.ID.String(),
		SubmittedAt: rec.SubmittedAt,
		Result:      h.presenter.Submitter(sub, language(rec.Contact.Language, r)),
	})
}
