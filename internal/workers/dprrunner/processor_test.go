package dprrunner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dossier/internal/domain"
	"dossier/internal/ports"
	"dossier/internal/scoring"
)

// fakeJobs is an in-memory ports.JobRepository recording every status
// transition per job.
type fakeJobs struct {
	mu          sync.Mutex
	recs        map[string]*domain.JobRecord
	transitions map[string][]domain.JobStatus
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{
		recs:        map[string]*domain.JobRecord{},
		transitions: map[string][]domain.JobStatus{},
	}
}

func (f *fakeJobs) Create(_ context.Context, rec *domain.JobRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *rec
	cp.CreatedAt = time.Now()
	f.recs[rec.ID] = &cp
	return nil
}

func (f *fakeJobs) FindByID(_ context.Context, id string) (*domain.JobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeJobs) FindByToken(_ context.Context, token string) (*domain.JobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.recs {
		if rec.JobToken == token {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeJobs) List(_ context.Context) ([]domain.JobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.JobRecord
	for _, rec := range f.recs {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeJobs) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.recs, id)
	return nil
}

func (f *fakeJobs) ClaimNext(_ context.Context) (*domain.JobRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.recs {
		if rec.Status == domain.StatusUploaded {
			rec.Status = domain.StatusExtracting
			f.transitions[rec.ID] = append(f.transitions[rec.ID], domain.StatusExtracting)
			cp := *rec
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeJobs) UpdateStatus(_ context.Context, id string, status domain.JobStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[id]
	if !ok {
		return ports.ErrNotFound
	}
	rec.Status = status
	f.transitions[id] = append(f.transitions[id], status)
	return nil
}

func (f *fakeJobs) SetExtractedText(_ context.Context, id, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[id].ExtractedText = text
	return nil
}

func (f *fakeJobs) SetValidationRemarks(_ context.Context, id, remarks string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs[id].ValidationRemarks = remarks
	return nil
}

func (f *fakeJobs) MarkCompleted(_ context.Context, id, analysisResult string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.recs[id]
	rec.Status = domain.StatusCompleted
	rec.AnalysisResult = analysisResult
	f.transitions[id] = append(f.transitions[id], domain.StatusCompleted)
	return nil
}

func (f *fakeJobs) MarkFailed(_ context.Context, id, remarks string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.recs[id]
	if !ok {
		return ports.ErrNotFound
	}
	rec.Status = domain.StatusFailed
	rec.ValidationRemarks = remarks
	f.transitions[id] = append(f.transitions[id], domain.StatusFailed)
	return nil
}

type fakeFiles struct {
	content string
	loadErr error
}

func (f *fakeFiles) Store(string, io.Reader) (string, string, error) { return "ref", "hash", nil }
func (f *fakeFiles) Delete(string) error                            { return nil }
func (f *fakeFiles) Load(string) (io.ReadCloser, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ context.Context, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	b, _ := io.ReadAll(r)
	return string(b), nil
}

type fakeScrutinizer struct {
	result *domain.ScrutinyResult
}

func (f *fakeScrutinizer) Scrutinize(_ context.Context, _, _ string) *domain.ScrutinyResult {
	return f.result
}

func okResult() *domain.ScrutinyResult {
	return &domain.ScrutinyResult{
		OverallScore: domain.OverallScore{Score: 74, RiskLevel: "LOW"},
		DocumentAnalysis: domain.DocumentAnalysis{Sections: []domain.SectionAssessment{
			{Section: "FINANCIALS", Status: "COMPLETE", Score: 80},
		}},
	}
}

const summaryOnlyText = `Executive Summary
This report covers only an introduction without any other mandatory material.`

func seedJob(t *testing.T, jobs *fakeJobs) *domain.JobRecord {
	t.Helper()
	rec := &domain.JobRecord{
		ID:         "doc-1",
		JobToken:   "token-1",
		Filename:   "report.pdf",
		StorageRef: "ref-1",
		Status:     domain.StatusUploaded,
	}
	require.NoError(t, jobs.Create(context.Background(), rec))
	return rec
}

func TestProcessCompletes(t *testing.T) {
	jobs := newFakeJobs()
	seedJob(t, jobs)
	p := NewProcessor(jobs, &fakeFiles{content: summaryOnlyText}, &fakeExtractor{}, &fakeScrutinizer{result: okResult()}, zap.NewNop())

	rec, found, err := jobs.ClaimNext(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	p.Process(context.Background(), rec)

	final, err := jobs.FindByID(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, final.Status)
	assert.Equal(t,
		[]domain.JobStatus{domain.StatusExtracting, domain.StatusAnalyzing, domain.StatusCompleted},
		jobs.transitions["doc-1"])

	// analysis result is the serialized scrutiny output plus the weighted
	// score report computed from its section assessments
	var parsed struct {
		domain.ScrutinyResult
		ScoreReport scoring.Report `json:"scoreReport"`
	}
	require.NoError(t, json.Unmarshal([]byte(final.AnalysisResult), &parsed))
	assert.Equal(t, 74, parsed.OverallScore.Score)
	assert.Equal(t, 80, parsed.ScoreReport.FinalScore)
	assert.Equal(t, "LOW", parsed.ScoreReport.RiskLevel)
	assert.Equal(t, 1, parsed.ScoreReport.AnalyzedSections)

	// rule findings are recorded but do not fail the job
	assert.Contains(t, final.ValidationRemarks, "Missing Mandatory Section: Objectives")
	assert.Contains(t, final.ValidationRemarks, "Missing Mandatory Section: Financials")
	assert.Equal(t, summaryOnlyText, final.ExtractedText)
}

func TestProcessExtractionFailure(t *testing.T) {
	jobs := newFakeJobs()
	seedJob(t, jobs)
	p := NewProcessor(jobs, &fakeFiles{}, &fakeExtractor{err: errors.New("document is unparsable")}, &fakeScrutinizer{result: okResult()}, zap.NewNop())

	rec, _, _ := jobs.ClaimNext(context.Background())
	p.Process(context.Background(), rec)

	final, _ := jobs.FindByID(context.Background(), "doc-1")
	assert.Equal(t, domain.StatusFailed, final.Status)
	assert.Contains(t, final.ValidationRemarks, "Extraction Failed")
	assert.Contains(t, final.ValidationRemarks, "document is unparsable")
	// never reached ANALYZING
	assert.Equal(t,
		[]domain.JobStatus{domain.StatusExtracting, domain.StatusFailed},
		jobs.transitions["doc-1"])
}

func TestProcessFileLoadFailure(t *testing.T) {
	jobs := newFakeJobs()
	seedJob(t, jobs)
	p := NewProcessor(jobs, &fakeFiles{loadErr: errors.New("no such file")}, &fakeExtractor{}, &fakeScrutinizer{result: okResult()}, zap.NewNop())

	rec, _, _ := jobs.ClaimNext(context.Background())
	p.Process(context.Background(), rec)

	final, _ := jobs.FindByID(context.Background(), "doc-1")
	assert.Equal(t, domain.StatusFailed, final.Status)
	assert.Contains(t, final.ValidationRemarks, "Processing Error")
}

func TestProcessScrutinyErrorResult(t *testing.T) {
	jobs := newFakeJobs()
	seedJob(t, jobs)
	errResult := &domain.ScrutinyResult{Error: "AI Analysis Failed"}
	p := NewProcessor(jobs, &fakeFiles{content: summaryOnlyText}, &fakeExtractor{}, &fakeScrutinizer{result: errResult}, zap.NewNop())

	rec, _, _ := jobs.ClaimNext(context.Background())
	p.Process(context.Background(), rec)

	final, _ := jobs.FindByID(context.Background(), "doc-1")
	assert.Equal(t, domain.StatusFailed, final.Status)
	assert.Equal(t, "AI Analysis Failed", final.ValidationRemarks)
	assert.Empty(t, final.AnalysisResult)
}

func TestProcessAlwaysTerminal(t *testing.T) {
	for name, tc := range map[string]struct {
		files       *fakeFiles
		extractor   *fakeExtractor
		scrutinizer *fakeScrutinizer
	}{
		"success":          {&fakeFiles{content: summaryOnlyText}, &fakeExtractor{}, &fakeScrutinizer{result: okResult()}},
		"load failure":     {&fakeFiles{loadErr: errors.New("gone")}, &fakeExtractor{}, &fakeScrutinizer{result: okResult()}},
		"extract failure":  {&fakeFiles{}, &fakeExtractor{err: errors.New("bad pdf")}, &fakeScrutinizer{result: okResult()}},
		"scrutiny failure": {&fakeFiles{content: summaryOnlyText}, &fakeExtractor{}, &fakeScrutinizer{result: &domain.ScrutinyResult{Error: "boom"}}},
	} {
		jobs := newFakeJobs()
		seedJob(t, jobs)
		p := NewProcessor(jobs, tc.files, tc.extractor, tc.scrutinizer, zap.NewNop())
		rec, _, _ := jobs.ClaimNext(context.Background())
		p.Process(context.Background(), rec)

		final, err := jobs.FindByID(context.Background(), "doc-1")
		require.NoError(t, err, name)
		assert.True(t, final.Status.Terminal(), "%s left job in %s", name, final.Status)
	}
}

func TestRunDrainsUploadedJobs(t *testing.T) {
	jobs := newFakeJobs()
	seedJob(t, jobs)
	p := NewProcessor(jobs, &fakeFiles{content: summaryOnlyText}, &fakeExtractor{}, &fakeScrutinizer{result: okResult()}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	Run(ctx, jobs, p, 2, 5*time.Millisecond, zap.NewNop())

	assert.Eventually(t, func() bool {
		rec, err := jobs.FindByID(context.Background(), "doc-1")
		return err == nil && rec.Status == domain.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}
