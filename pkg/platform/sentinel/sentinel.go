package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors:
//   - ErrNotFound: no record or progress under the key
//   - ErrConflict: a record already exists for the screening id
//   - ErrExpired: saved progress or a resume token outlived its TTL
//   - ErrUnavailable: backing store or broker temporarily unreachable
//
// Input validation uses pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
