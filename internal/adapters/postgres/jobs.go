package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"dossier/internal/domain"
	"dossier/internal/ports"
)

const jobColumns = `id, job_token, filename, storage_ref, file_hash, status,
	COALESCE(validation_remarks, ''), COALESCE(analysis_result, ''),
	COALESCE(extracted_text, ''), created_at`

func scanJob(row pgx.Row) (*domain.JobRecord, error) {
	var rec domain.JobRecord
	err := row.Scan(&rec.ID, &rec.JobToken, &rec.Filename, &rec.StorageRef,
		&rec.FileHash, &rec.Status, &rec.ValidationRemarks,
		&rec.AnalysisResult, &rec.ExtractedText, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (db *DB) Create(ctx context.Context, rec *domain.JobRecord) error {
	return db.Pool.QueryRow(ctx, `
		INSERT INTO dpr_documents (id, job_token, filename, storage_ref, file_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, rec.ID, rec.JobToken, rec.Filename, rec.StorageRef, rec.FileHash, rec.Status).Scan(&rec.CreatedAt)
}

func (db *DB) FindByID(ctx context.Context, id string) (*domain.JobRecord, error) {
	return scanJob(db.Pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM dpr_documents WHERE id = $1`, id))
}

func (db *DB) FindByToken(ctx context.Context, token string) (*domain.JobRecord, error) {
	return scanJob(db.Pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM dpr_documents WHERE job_token = $1`, token))
}

func (db *DB) List(ctx context.Context) ([]domain.JobRecord, error) {
	rows, err := db.Pool.Query(ctx, `SELECT `+jobColumns+` FROM dpr_documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.JobRecord
	for rows.Next() {
		rec, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (db *DB) Delete(ctx context.Context, id string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM dpr_documents WHERE id = $1`, id)
	return err
}

// ClaimNext locks the oldest UPLOADED job with SKIP LOCKED and transitions
// it to EXTRACTING, so concurrent workers never double-claim.
func (db *DB) ClaimNext(ctx context.Context) (rec *domain.JobRecord, found bool, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	rec, err = scanJob(tx.QueryRow(ctx, `
		SELECT `+jobColumns+` FROM dpr_documents
		WHERE status = $1
		ORDER BY created_at
		FOR UPDATE SKIP LOCKED
		LIMIT 1
	`, domain.StatusUploaded))
	if errors.Is(err, ports.ErrNotFound) {
		err = nil
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE dpr_documents SET status = $2 WHERE id = $1
	`, rec.ID, domain.StatusExtracting); err != nil {
		return nil, false, err
	}
	rec.Status = domain.StatusExtracting
	return rec, true, nil
}

func (db *DB) UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error {
	_, err := db.Pool.Exec(ctx, `UPDATE dpr_documents SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (db *DB) SetExtractedText(ctx context.Context, id, text string) error {
	_, err := db.Pool.Exec(ctx, `UPDATE dpr_documents SET extracted_text = $2 WHERE id = $1`, id, text)
	return err
}

func (db *DB) SetValidationRemarks(ctx context.Context, id, remarks string) error {
	_, err := db.Pool.Exec(ctx, `UPDATE dpr_documents SET validation_remarks = $2 WHERE id = $1`, id, remarks)
	return err
}

func (db *DB) MarkCompleted(ctx context.Context, id, analysisResult string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.Pool.Exec(ctx, `
		UPDATE dpr_documents SET status = $2, analysis_result = $3 WHERE id = $1
	`, id, domain.StatusCompleted, analysisResult)
	return err
}

func (db *DB) MarkFailed(ctx context.Context, id, remarks string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := db.Pool.Exec(ctx, `
		UPDATE dpr_documents SET status = $2, validation_remarks = $3 WHERE id = $1
	`, id, domain.StatusFailed, remarks)
	return err
}
