package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "lexscreen/internal/jwt_token"
	"lexscreen/internal/platform/middleware"
	"lexscreen/internal/screening/rules"
	"lexscreen/internal/screening/service"
	"lexscreen/internal/screening/store/progress"
	"lexscreen/internal/screening/store/record"
	"lexscreen/internal/screening/wizard"
	"lexscreen/pkg/testutil"
)

// TestWaiverRunEndToEnd drives a waiver screening through the real service,
// stores and resume token middleware.
func TestWaiverRunEndToEnd(t *testing.T) {
	svc, err := service.New(rules.MustNew(), record.NewInMemory(), progress.NewCache(time.Hour),
		service.WithLogger(discardLogger()))
	require.NoError(t, err)
	tokens := jwttoken.NewJWTService("test-secret", "lexscreen", "lexscreen-wizard", time.Hour)

	h := New(svc, tokens, presenter, discardLogger())
	router := chi.NewRouter()
	h.Register(router, middleware.RequireResumeToken(tokens, discardLogger()))
	h.RegisterAdmin(router)

	call := func(method, path, token string, body any) *httptest.ResponseRecorder {
		t.Helper()
		req := testutil.NewJSONRequest(t, method, path, body)
		if token != "" {
			req.Header.Set(middleware.ResumeTokenHeader, token)
		}
		return testutil.DoRequest(router, req)
	}

	rec := call(http.MethodPost, "/screenings", "", StartRequest{Variant: "waiver"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var started StartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	base := "/screenings/" + started.Progress.ScreeningID
	token := started.ResumeToken

	rec = call(http.MethodGet, base, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "token required")

	steps := []map[string]any{
		{"location.inside_us": true, "location.entry_type": "inspected"},
		{"family.citizen_spouse": true, "family.lpr_spouse": false, "family.citizen_parent": false, "family.lpr_parent": false},
		{"history.overstayed": true, "history.prior_removal": false, "history.unlawful_presence": "1y+"},
		{"departure.departed": false},
		{"fraud.false_statements": false, "fraud.false_citizenship_claim": false, "fraud.document_fraud": false},
		{"criminal.convictions": false},
		{"hardship.factors": []string{"medical", "family_separation"}},
	}

	rec = call(http.MethodPost, base+"/submit", token, AnswersRequest{})
	assert.Equal(t, http.StatusConflict, rec.Code, "submit before the last step")

	var last ProgressResponse
	for i, answers := range steps {
		rec = call(http.MethodPost, base+"/next", token, map[string]any{"answers": answers})
		require.Equal(t, http.StatusOK, rec.Code, "step %d: %s", i, rec.Body.String())
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &last))
	}
	assert.True(t, last.IsFinal)
	assert.Equal(t, wizard.StepHardship, last.Step.ID)

	rec = call(http.MethodPost, base+"/finalize", token, FinalizeRequest{})
	assert.Equal(t, http.StatusConflict, rec.Code, "finalize before submit")

	rec = call(http.MethodPost, base+"/submit", token, AnswersRequest{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var submitted ProgressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	require.True(t, submitted.Completed)
	require.NotNil(t, submitted.Result)
	require.Len(t, submitted.Result.Remedies, 1)
	assert.Equal(t, rules.RemedyProvisionalWaiver, submitted.Result.Remedies[0].Code)
	assert.NotContains(t, rec.Body.String(), "risk_level")

	rec = call(http.MethodPost, base+"/next", token, AnswersRequest{})
	testutil.AssertError(t, rec, http.StatusConflict, "invalid_state")

	contact := map[string]any{"contact": map[string]any{"name": "Ana Diaz", "email": "ana@example.test"}}
	rec = call(http.MethodPost, base+"/finalize", token, contact)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first FinalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = call(http.MethodPost, base+"/finalize", token, contact)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var again FinalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, first.RecordID, again.RecordID, "finalize is idempotent")

	rec = call(http.MethodGet, "/admin/records/"+first.RecordID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "risk_level")

	rec = call(http.MethodGet, "/admin/records?variant=waiver", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list RecordListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
}
