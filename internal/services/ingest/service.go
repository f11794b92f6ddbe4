// Package ingest accepts uploads, creates job records, and answers the
// polling/list/delete calls. Processing itself is fire-and-forget: the
// worker runner claims the persisted record, and callers observe progress
// purely by reading persisted state.
package ingest

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"dossier/internal/domain"
	"dossier/internal/ports"
)

// ErrUnsupportedType rejects anything but PDF uploads.
var ErrUnsupportedType = errors.New("Only PDF files are allowed.")

type Service struct {
	jobs  ports.JobRepository
	files ports.FileStore
}

func New(jobs ports.JobRepository, files ports.FileStore) *Service {
	return &Service{jobs: jobs, files: files}
}

// Submit stores the file and creates an UPLOADED job record. The returned
// job token is the client's polling handle.
func (s *Service) Submit(ctx context.Context, filename, contentType string, file io.Reader) (string, error) {
	if contentType != "application/pdf" {
		return "", ErrUnsupportedType
	}

	ref, hash, err := s.files.Store(filename, file)
	if err != nil {
		return "", err
	}

	rec := &domain.JobRecord{
		ID:         uuid.NewString(),
		JobToken:   uuid.NewString(),
		Filename:   filename,
		StorageRef: ref,
		FileHash:   hash,
		Status:     domain.StatusUploaded,
	}
	if err := s.jobs.Create(ctx, rec); err != nil {
		_ = s.files.Delete(ref)
		return "", err
	}
	return rec.JobToken, nil
}

func (s *Service) Status(ctx context.Context, jobToken string) (*domain.JobRecord, error) {
	return s.jobs.FindByToken(ctx, jobToken)
}

func (s *Service) List(ctx context.Context) ([]domain.JobRecord, error) {
	return s.jobs.List(ctx)
}

// Delete removes the record and its stored file. The file removal races any
// in-flight pipeline run for the same record; the last write wins.
func (s *Service) Delete(ctx context.Context, jobToken string) error {
	rec, err := s.jobs.FindByToken(ctx, jobToken)
	if err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, rec.ID); err != nil {
		return err
	}
	if rec.StorageRef != "" {
		return s.files.Delete(rec.StorageRef)
	}
	return nil
}
