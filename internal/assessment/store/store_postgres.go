package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"htb-gateway/internal/assessment"
	"htb-gateway/pkg/platform/sentinel"
	txcontext "htb-gateway/pkg/platform/tx"
)

// PostgresStore persists assessments in PostgreSQL. The full result is kept
// as JSONB; the columns beside it exist for lookups and the expiry sweep.
// Writes join the transaction carried by ctx when there is one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) conn(ctx context.Context) txcontext.Querier {
	return txcontext.QuerierFrom(ctx, s.db)
}

func (s *PostgresStore) Save(ctx context.Context, record *assessment.Record) error {
	payload, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("marshal assessment result: %w", err)
	}
	query := `
		INSERT INTO assessments (id, status, subject_id_hash, eligible, actual_grant, regulations_version,
			result, issued_at, valid_until, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := s.conn(ctx).ExecContext(ctx, query,
		record.Result.AssessmentID,
		string(record.Status),
		record.SubjectIDHash,
		record.Result.Eligible,
		record.Result.ActualGrantAmount,
		record.Result.RegulationsVersion,
		payload,
		record.Result.IssuedAt,
		record.Result.ValidUntil,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert assessment rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*assessment.Record, error) {
	query := `
		SELECT status, subject_id_hash, result, updated_at
		FROM assessments
		WHERE id = $1
	`
	var (
		record  assessment.Record
		status  string
		payload []byte
	)
	err := s.conn(ctx).QueryRowContext(ctx, query, id).Scan(&status, &record.SubjectIDHash, &payload, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find assessment: %w", err)
	}
	if err := json.Unmarshal(payload, &record.Result); err != nil {
		return nil, fmt.Errorf("decode assessment result: %w", err)
	}
	record.Status = assessment.Status(status)

	history, err := s.history(ctx, id)
	if err != nil {
		return nil, err
	}
	record.History = history
	return &record, nil
}

func (s *PostgresStore) history(ctx context.Context, id uuid.UUID) ([]assessment.StatusChange, error) {
	query := `
		SELECT from_status, to_status, note, actor, changed_at
		FROM assessment_status_history
		WHERE assessment_id = $1
		ORDER BY changed_at ASC, id ASC
	`
	rows, err := s.conn(ctx).QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query status history: %w", err)
	}
	defer rows.Close()

	history := []assessment.StatusChange{}
	for rows.Next() {
		var (
			change   assessment.StatusChange
			from, to string
		)
		if err := rows.Scan(&from, &to, &change.Note, &change.Actor, &change.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		change.From = assessment.Status(from)
		change.To = assessment.Status(to)
		history = append(history, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status history: %w", err)
	}
	return history, nil
}

// UpdateStatus applies change only if the row is still in change.From. It
// writes two statements, so callers run it inside a transaction.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id uuid.UUID, change assessment.StatusChange) error {
	conn := s.conn(ctx)
	res, err := conn.ExecContext(ctx, `
		UPDATE assessments
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`, id, string(change.From), string(change.To), change.ChangedAt)
	if err != nil {
		return fmt.Errorf("update assessment status: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update assessment status rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		err := conn.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM assessments WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check assessment exists: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO assessment_status_history (assessment_id, from_status, to_status, note, actor, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, string(change.From), string(change.To), change.Note, change.Actor, change.ChangedAt)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ExpireIssuedBefore expires and records history in a single statement.
func (s *PostgresStore) ExpireIssuedBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	query := `
		WITH expired AS (
			UPDATE assessments
			SET status = $2, updated_at = $1
			WHERE status = $3 AND valid_until < $1
			RETURNING id
		), logged AS (
			INSERT INTO assessment_status_history (assessment_id, from_status, to_status, note, actor, changed_at)
			SELECT id, $3, $2, $4, $5, $1 FROM expired
		)
		SELECT id FROM expired
	`
	rows, err := s.conn(ctx).QueryContext(ctx, query,
		cutoff,
		string(assessment.StatusExpired),
		string(assessment.StatusAssessed),
		expiryNote,
		expiryActor,
	)
	if err != nil {
		return nil, fmt.Errorf("expire assessments: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expired id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired ids: %w", err)
	}
	return ids, nil
}
