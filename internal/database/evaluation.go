package database

import (
	"context"
	"errors"
	"fmt"

	"git-repository-analyzer/internal/validation"

	"github.com/jackc/pgx/v5"
)

// GetEvaluation retrieves the evaluation of a repository
func (db *DB) GetEvaluation(ctx context.Context, repository string) (*EvaluationRecord, error) {
	query := `
		SELECT repository, data, created_at, updated_at
		FROM evaluations
		WHERE repository = $1
	`

	rec := &EvaluationRecord{}
	err := db.pool.QueryRow(ctx, query, repository).Scan(
		&rec.Repository,
		&rec.Data,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("evaluation for %s: %w", repository, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	return rec, nil
}

// UpsertEvaluation creates or replaces the evaluation of a repository
func (db *DB) UpsertEvaluation(ctx context.Context, rec *EvaluationRecord) error {
	query := `
		INSERT INTO evaluations (repository, data)
		VALUES ($1, $2)
		ON CONFLICT (repository) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := db.pool.QueryRow(ctx, query, rec.Repository, rec.Data).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save evaluation: %w", validation.ParseDatabaseError(err))
	}

	return nil
}

// DeleteEvaluation removes the evaluation of a repository
func (db *DB) DeleteEvaluation(ctx context.Context, repository string) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM evaluations WHERE repository = $1`, repository)
	if err != nil {
		return fmt.Errorf("failed to delete evaluation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("evaluation for %s: %w", repository, ErrNotFound)
	}
	return nil
}
