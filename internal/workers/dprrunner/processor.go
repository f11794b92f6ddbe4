// Package dprrunner runs the per-job processing pipeline: extraction,
// structural segmentation, rule validation, guardrailed AI scrutiny, and the
// persisted state transitions between them.
package dprrunner

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"dossier/internal/domain"
	"dossier/internal/ports"
	"dossier/internal/rules"
	"dossier/internal/scoring"
	"dossier/internal/structmap"
)

// Processor is the job orchestrator. Each job runs the pipeline at most
// once; a caller wanting another attempt must resubmit, which creates a new
// JobRecord.
type Processor struct {
	jobs        ports.JobRepository
	files       ports.FileStore
	extractor   ports.TextExtractor
	scrutinizer ports.Scrutinizer
	log         *zap.Logger
}

func NewProcessor(jobs ports.JobRepository, files ports.FileStore, extractor ports.TextExtractor, scrutinizer ports.Scrutinizer, log *zap.Logger) *Processor {
	return &Processor{
		jobs:        jobs,
		files:       files,
		extractor:   extractor,
		scrutinizer: scrutinizer,
		log:         log,
	}
}

// Process drives one claimed job (already in EXTRACTING) to a terminal
// state. Extraction and scrutiny failures are terminal; rule findings are
// recorded as remarks but never fail the job on their own.
func (p *Processor) Process(ctx context.Context, rec *domain.JobRecord) {
	log := p.log.With(zap.String("job_token", rec.JobToken), zap.String("doc_id", rec.ID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panicked", zap.Any("panic", r))
			p.fail(ctx, rec.ID, fmt.Sprintf("Processing Error: %v", r))
		}
	}()

	log.Info("starting pipeline")

	// Extraction
	file, err := p.files.Load(rec.StorageRef)
	if err != nil {
		p.fail(ctx, rec.ID, fmt.Sprintf("Processing Error: %v", err))
		return
	}
	rawText, err := p.extractor.Extract(ctx, file)
	file.Close()
	if err != nil {
		log.Error("extraction failed", zap.Error(err))
		p.fail(ctx, rec.ID, fmt.Sprintf("Extraction Failed: %v", err))
		return
	}
	if err := p.jobs.SetExtractedText(ctx, rec.ID, rawText); err != nil {
		p.fail(ctx, rec.ID, fmt.Sprintf("Processing Error: %v", err))
		return
	}

	// Structure mapping and rule validation. Both are total functions; a
	// FAIL report is recorded for human review and processing continues.
	structured := structmap.Map(rec.ID, rawText)
	report := rules.Validate(structured)
	if err := p.jobs.SetValidationRemarks(ctx, rec.ID, report.Remarks()); err != nil {
		p.fail(ctx, rec.ID, fmt.Sprintf("Processing Error: %v", err))
		return
	}
	log.Info("rule validation recorded",
		zap.String("status", string(report.Status)), zap.Int("issues", len(report.Issues)))

	// AI scrutiny
	if err := p.jobs.UpdateStatus(ctx, rec.ID, domain.StatusAnalyzing); err != nil {
		p.fail(ctx, rec.ID, fmt.Sprintf("Processing Error: %v", err))
		return
	}
	result := p.scrutinizer.Scrutinize(ctx, rec.ID, rawText)
	if result.Failed() {
		log.Warn("scrutiny returned error result", zap.String("error", result.Error))
		p.fail(ctx, rec.ID, result.Error)
		return
	}

	scoreReport := scoring.Aggregate(result.DocumentAnalysis.Sections)
	serialized, err := json.Marshal(analysisRecord{ScrutinyResult: result, ScoreReport: scoreReport})
	if err != nil {
		p.fail(ctx, rec.ID, "Analysis Output Invalid")
		return
	}
	if err := p.jobs.MarkCompleted(ctx, rec.ID, string(serialized)); err != nil {
		p.fail(ctx, rec.ID, fmt.Sprintf("Processing Error: %v", err))
		return
	}
	log.Info("pipeline completed",
		zap.Int("final_score", scoreReport.FinalScore), zap.String("risk_level", scoreReport.RiskLevel))
}

// analysisRecord is the persisted analysis payload: the scrutiny result with
// the deterministic weighted score report alongside it.
type analysisRecord struct {
	*domain.ScrutinyResult
	ScoreReport scoring.Report `json:"scoreReport"`
}

// Failure text is surfaced verbatim as the job's remarks, capped so a noisy
// upstream error cannot bloat the record.
const maxRemarksLen = 2000

func (p *Processor) fail(ctx context.Context, id, remarks string) {
	if len(remarks) > maxRemarksLen {
		remarks = remarks[:maxRemarksLen]
	}
	if err := p.jobs.MarkFailed(ctx, id, remarks); err != nil {
		p.log.Error("failed to persist FAILED state", zap.String("doc_id", id), zap.Error(err))
	}
}
