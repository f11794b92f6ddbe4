package ports

import (
	"context"

	"dossier/internal/domain"
)

// ErrNotFound is returned when a job record cannot be located.
var ErrNotFound = errString("not found")

type errString string

func (e errString) Error() string { return string(e) }

// JobRepository is the single shared mutable resource of the pipeline:
// the persisted JobRecord store. Writes are read-modify-write per job id
// with no optimistic-concurrency check; the last write wins.
type JobRepository interface {
	Create(ctx context.Context, rec *domain.JobRecord) error
	FindByID(ctx context.Context, id string) (*domain.JobRecord, error)
	FindByToken(ctx context.Context, token string) (*domain.JobRecord, error)
	List(ctx context.Context) ([]domain.JobRecord, error)
	Delete(ctx context.Context, id string) error

	// ClaimNext atomically picks the oldest UPLOADED job and transitions it
	// to EXTRACTING, so concurrent workers never double-claim.
	ClaimNext(ctx context.Context) (rec *domain.JobRecord, found bool, err error)
	UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error
	SetExtractedText(ctx context.Context, id, text string) error
	SetValidationRemarks(ctx context.Context, id, remarks string) error
	MarkCompleted(ctx context.Context, id, analysisResult string) error
	MarkFailed(ctx context.Context, id, remarks string) error
}
