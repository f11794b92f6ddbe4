// Package evaluation exposes on-demand re-scrutiny of an already ingested
// document, bypassing the job state machine.
package evaluation

import (
	"context"

	"dossier/internal/domain"
	"dossier/internal/ports"
)

type Service struct {
	jobs        ports.JobRepository
	scrutinizer ports.Scrutinizer
}

func New(jobs ports.JobRepository, scrutinizer ports.Scrutinizer) *Service {
	return &Service{jobs: jobs, scrutinizer: scrutinizer}
}

// Scrutinize runs the guardrailed evaluation synchronously over the stored
// extracted text of the given document. Job state is untouched; if the text
// was never extracted the guardrail returns its uniform error result.
func (s *Service) Scrutinize(ctx context.Context, documentID string) (*domain.ScrutinyResult, error) {
	rec, err := s.jobs.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return s.scrutinizer.Scrutinize(ctx, rec.ID, rec.ExtractedText), nil
}
