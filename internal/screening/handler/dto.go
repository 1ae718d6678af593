package handler

import (
	"encoding/json"
	"time"

	"lexscreen/internal/screening/intake"
	"lexscreen/internal/screening/models"
	"lexscreen/internal/screening/present"
	"lexscreen/internal/screening/service"
	"lexscreen/internal/screening/wizard"
)

type StartRequest struct {
	Variant string `json:"variant"`
}

// AnswersRequest carries answers in their natural JSON form: booleans for
// yes/no fields, strings for choices, numbers and arrays of tags. A null
// leaves a field as it was.
type AnswersRequest struct {
	Answers map[string]json.RawMessage `json:"answers"`
}

type FinalizeRequest struct {
	Contact models.Contact `json:"contact"`
}

type FieldView struct {
	Key      intake.FieldKey `json:"key"`
	Kind     string          `json:"kind"`
	Options  []string        `json:"options,omitempty"`
	Max      float64         `json:"max,omitempty"`
	Required bool            `json:"required"`
}

type StepView struct {
	ID     models.StepID `json:"id"`
	Fields []FieldView   `json:"fields"`
}

// ProgressResponse is a run as the wizard client renders it.
type ProgressResponse struct {
	ScreeningID string                 `json:"screening_id"`
	Variant     intake.Variant         `json:"variant"`
	Step        StepView               `json:"step"`
	Index       int                    `json:"index"`
	Total       int                    `json:"total"`
	IsFinal     bool                   `json:"is_final"`
	Answers     intake.Facts           `json:"answers"`
	Completed   bool                   `json:"completed"`
	Result      *present.SubmitterView `json:"result,omitempty"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type StartResponse struct {
	ResumeToken string           `json:"resume_token"`
	ExpiresAt   time.Time        `json:"expires_at"`
	Progress    ProgressResponse `json:"progress"`
}

type FinalizeResponse struct {
	RecordID    string                `json:"record_id"`
	SubmittedAt time.Time             `json:"submitted_at"`
	Result      present.SubmitterView `json:"result"`
}

type FlowResponse struct {
	Variant intake.Variant `json:"variant"`
	Steps   []StepView     `json:"steps"`
}

type RecordListResponse struct {
	Records []present.StaffSummary `json:"records"`
	Count   int                    `json:"count"`
}

type StatsResponse struct {
	Variants []models.VariantStats `json:"variants"`
}

func stepView(schema *intake.Schema, s wizard.Step) StepView {
	required := make(map[intake.FieldKey]bool, len(s.Required))
	for _, k := range s.Required {
		required[k] = true
	}
	out := StepView{ID: s.ID, Fields: make([]FieldView, 0, len(s.Fields))}
	for _, key := range s.Fields {
		f, _ := schema.Field(key)
		out.Fields = append(out.Fields, FieldView{
			Key:      key,
			Kind:     f.Kind.String(),
			Options:  f.Options,
			Max:      f.Max,
			Required: required[key],
		})
	}
	return out
}

func (h *Handler) progressResponse(v *service.View, lang string) ProgressResponse {
	p := v.Progress
	schema, _ := intake.SchemaFor(p.Variant)
	resp := ProgressResponse{
		ScreeningID: p.ID.String(),
		Variant:     p.Variant,
		Step:        stepView(schema, v.Position.Step),
		Index:       v.Position.Index,
		Total:       v.Position.Total,
		IsFinal:     v.Position.IsFinal,
		Answers:     p.Facts,
		Completed:   p.Completed,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Submission != nil {
		result := h.presenter.Submitter(*p.Submission, lang)
		resp.Result = &result
	}
	return resp
}
