package vitals

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a patient has no stored records.
var ErrNotFound = errors.New("no vitals found")

type Repository interface {
	// Insert stores one record and returns the database-assigned
	// identifier as an opaque string.
	Insert(ctx context.Context, r *Record) (string, error)
	// ListByPatient returns all records for a patient, newest timestamp
	// first. An empty slice is not an error.
	ListByPatient(ctx context.Context, patientID string) ([]*Record, error)
	// LatestByPatient returns the record with the maximum timestamp for
	// a patient, or ErrNotFound.
	LatestByPatient(ctx context.Context, patientID string) (*Record, error)
}
