package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/profile-evaluator/internal/types"
)

// EvaluationRecord is a stored evaluation with its full output
type EvaluationRecord struct {
	ID        uuid.UUID              `json:"id"`
	UserID    uuid.UUID              `json:"user_id"`
	Output    types.EvaluationOutput `json:"output"`
	CreatedAt time.Time              `json:"created_at"`
}

// EvaluationSummary is a lightweight view of an evaluation for listing
type EvaluationSummary struct {
	ID        uuid.UUID `json:"id"`
	Version   string    `json:"version"`
	Persona   string    `json:"persona"`
	Track     string    `json:"track"`
	Band      string    `json:"band"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// defaultListLimit bounds ListEvaluations when no limit is given
const defaultListLimit = 50
