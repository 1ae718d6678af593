package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lexscreen/pkg/domain-errors"
)

// TestParseScreeningID_Invariants validates "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseScreeningID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseScreeningID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseScreeningID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseScreeningID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		u := uuid.New()
		id, err := ParseScreeningID(u.String())
		require.NoError(t, err)
		assert.Equal(t, ScreeningID(u), id)
	})
}

func TestParseID_TrustBoundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE screening_records;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errScreening := ParseScreeningID(tt.input)
			_, errRecord := ParseRecordID(tt.input)
			if tt.wantErr {
				require.Error(t, errScreening)
				require.Error(t, errRecord)
				return
			}
			require.NoError(t, errScreening)
			require.NoError(t, errRecord)
		})
	}
}

func TestScreeningID_JSON(t *testing.T) {
	id := NewScreeningID()
	b, err := json.Marshal(struct {
		ID ScreeningID `json:"id"`
	}{id})
	require.NoError(t, err)
	assert.Contains(t, string(b), id.String())

	var decoded struct {
		ID ScreeningID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, id, decoded.ID)

	err = json.Unmarshal([]byte(`{"id":"00000000-0000-0000-0000-000000000000"}`), &decoded)
	assert.Error(t, err)
}
