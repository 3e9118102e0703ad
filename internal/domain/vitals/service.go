package vitals

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrMissingPatientID rejects a record created without its one required
// field.
var ErrMissingPatientID = errors.New("patient_id is required")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists one record. A missing timestamp is filled with the
// current UTC instant here, before the insert, so the confirmation and
// any immediate re-read agree on the value. A client-supplied identifier
// is discarded.
func (s *Service) Create(ctx context.Context, r *Record) (string, error) {
	if r.PatientID == "" {
		return "", ErrMissingPatientID
	}
	r.ID = primitive.NilObjectID
	if r.Timestamp == nil {
		now := time.Now().UTC()
		r.Timestamp = &now
	}
	return s.repo.Insert(ctx, r)
}

// ListByPatient returns a patient's history, newest first. Zero records
// is ErrNotFound: the surface makes no distinction between an unknown
// patient and a known one with no readings.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Record, error) {
	recs, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNotFound
	}
	return recs, nil
}

func (s *Service) LatestByPatient(ctx context.Context, patientID string) (*Record, error) {
	return s.repo.LatestByPatient(ctx, patientID)
}
