package record

import (
	"context"
	"slices"
	"sync"

	"lexscreen/internal/screening/models"
	id "lexscreen/pkg/domain"
	"lexscreen/pkg/platform/sentinel"
)

// InMemory keeps records in process. Suitable for single-node deployments and
// tests; records are lost on restart.
type InMemory struct {
	mu          sync.RWMutex
	byID        map[id.RecordID]*models.Record
	byScreening map[id.ScreeningID]id.RecordID
	order       []id.RecordID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:        make(map[id.RecordID]*models.Record),
		byScreening: make(map[id.ScreeningID]id.RecordID),
	}
}

// Save stores the record unless one already exists for its screening id, in
// which case the existing record is returned with created=false.
func (s *InMemory) Save(_ context.Context, record *models.Record) (*models.Record, bool, error) {
	if record == nil {
		return nil, false, errNilRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byScreening[record.ScreeningID]; ok {
		stored := *s.byID[existing]
		return &stored, false, nil
	}
	stored := *record
	s.byID[record.ID] = &stored
	s.byScreening[record.ScreeningID] = record.ID
	s.order = append(s.order, record.ID)

	out := stored
	return &out, true, nil
}

func (s *InMemory) FindByID(_ context.Context, recordID id.RecordID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[recordID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *InMemory) FindByScreeningID(_ context.Context, screeningID id.ScreeningID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recordID, ok := s.byScreening[screeningID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.byID[recordID]
	return &out, nil
}

// List returns matching records, newest first.
func (s *InMemory) List(_ context.Context, filter models.RecordFilter) ([]*models.Record, error) {
	filter = filter.Normalize()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Record, 0, min(filter.Limit, len(s.order)))
	for _, recordID := range slices.Backward(s.order) {
		r := s.byID[recordID]
		if !filter.Matches(r) {
			continue
		}
		cp := *r
		out = append(out, &cp)
		if len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}
