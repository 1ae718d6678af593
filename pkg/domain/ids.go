// Package domain holds identifier types shared across screening packages.
//
// Typed IDs keep a screening's submission id from being passed where a record id
// is expected. Both wrap uuid.UUID and share one parsing rule: the input must be
// a non-nil UUID.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "lexscreen/pkg/domain-errors"
)

// ScreeningID identifies one wizard run. It is generated when the wizard starts
// and doubles as the idempotency key for persisting the finished record.
type ScreeningID uuid.UUID

// RecordID identifies a persisted screening record.
type RecordID uuid.UUID

func NewScreeningID() ScreeningID { return ScreeningID(uuid.New()) }

func NewRecordID() RecordID { return RecordID(uuid.New()) }

func (id ScreeningID) String() string { return uuid.UUID(id).String() }

func (id ScreeningID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id RecordID) String() string { return uuid.UUID(id).String() }

func (id RecordID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id ScreeningID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *ScreeningID) UnmarshalText(b []byte) error {
	parsed, err := ParseScreeningID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id RecordID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *RecordID) UnmarshalText(b []byte) error {
	parsed, err := ParseRecordID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseScreeningID parses a screening id at a trust boundary.
func ParseScreeningID(s string) (ScreeningID, error) {
	u, err := parseUUID(s, "screening id")
	return ScreeningID(u), err
}

// ParseRecordID parses a record id at a trust boundary.
func ParseRecordID(s string) (RecordID, error) {
	u, err := parseUUID(s, "record id")
	return RecordID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
