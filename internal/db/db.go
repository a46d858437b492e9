// Package db provides PostgreSQL storage for normalized profiles and their
// evaluations.
package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/profile-evaluator/internal/schemas"
	"github.com/jonathan/profile-evaluator/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the profile and evaluation tables if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SaveProfile stores or replaces the normalized profile for a user
func (db *DB) SaveProfile(ctx context.Context, userID uuid.UUID, profile *types.NormalizedProfile, source string) error {
	jsonBytes, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, profile, parser_source)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET profile = $2, parser_source = $3, updated_at = NOW()`,
		userID, jsonBytes, source,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile for %s: %w", userID, err)
	}
	return nil
}

// GetProfile retrieves the stored profile for a user. A user without a
// profile yields (nil, nil). Stored documents are checked against the
// profile schema before decoding.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (*types.NormalizedProfile, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT profile FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile for %s: %w", userID, err)
	}

	return decodeProfile(content)
}

func decodeProfile(content []byte) (*types.NormalizedProfile, error) {
	if err := schemas.ValidateProfileJSON(content); err != nil {
		return nil, fmt.Errorf("stored profile is invalid: %w", err)
	}
	var profile types.NormalizedProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode stored profile: %w", err)
	}
	return &profile, nil
}

// SaveEvaluation stores an evaluation output and returns its ID
func (db *DB) SaveEvaluation(ctx context.Context, userID uuid.UUID, out *types.EvaluationOutput) (uuid.UUID, error) {
	if out == nil {
		return uuid.Nil, fmt.Errorf("failed to save evaluation: nil output")
	}
	jsonBytes, err := json.Marshal(out)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO evaluations (user_id, version, persona, track, band, score, output)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		userID, out.Version, string(out.Persona), string(out.Track), out.Readiness.Band, out.Readiness.Score, jsonBytes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save evaluation: %w", err)
	}
	return id, nil
}

// GetEvaluation retrieves an evaluation by its UUID
func (db *DB) GetEvaluation(ctx context.Context, id uuid.UUID) (*EvaluationRecord, error) {
	var record EvaluationRecord
	var content []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, output, created_at FROM evaluations WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.UserID, &content, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}

	if err := json.Unmarshal(content, &record.Output); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation %s: %w", id, err)
	}
	return &record, nil
}

// ListEvaluations retrieves a user's most recent evaluations, newest first
func (db *DB) ListEvaluations(ctx context.Context, userID uuid.UUID, limit int) ([]EvaluationSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, version, persona, track, band, score, created_at
		 FROM evaluations WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	summaries := []EvaluationSummary{}
	for rows.Next() {
		var s EvaluationSummary
		if err := rows.Scan(&s.ID, &s.Version, &s.Persona, &s.Track, &s.Band, &s.Score, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return summaries, nil
}

// DeleteProfile removes a user's profile and evaluations
func (db *DB) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM evaluations WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete evaluations: %w", err)
	}
	result, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", userID)
	}
	return tx.Commit(ctx)
}
