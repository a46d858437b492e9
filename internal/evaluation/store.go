package evaluation

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/profile-evaluator/internal/types"
)

// ProfileStore persists profiles and evaluation results. GetProfile returns
// nil, nil when the user has no profile.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.NormalizedProfile, error)
	SaveEvaluation(ctx context.Context, userID uuid.UUID, out *types.EvaluationOutput) (uuid.UUID, error)
}

// Cache memoizes evaluation outputs by key
type Cache interface {
	Get(ctx context.Context, key string) (*types.EvaluationOutput, bool, error)
	Set(ctx context.Context, key string, out *types.EvaluationOutput) error
}

// StoredEvaluation is an evaluation saved in a MemoryStore
type StoredEvaluation struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Output types.EvaluationOutput
}

// MemoryStore is an in-process ProfileStore
type MemoryStore struct {
	mu          sync.RWMutex
	profiles    map[uuid.UUID]*types.NormalizedProfile
	evaluations map[uuid.UUID]StoredEvaluation
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:    make(map[uuid.UUID]*types.NormalizedProfile),
		evaluations: make(map[uuid.UUID]StoredEvaluation),
	}
}

// SaveProfile stores or replaces the profile for a user
func (m *MemoryStore) SaveProfile(_ context.Context, userID uuid.UUID, profile *types.NormalizedProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = profile
	return nil
}

// GetProfile returns the user's profile, or nil when there is none
func (m *MemoryStore) GetProfile(_ context.Context, userID uuid.UUID) (*types.NormalizedProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profiles[userID], nil
}

// SaveEvaluation records an evaluation and returns its new id
func (m *MemoryStore) SaveEvaluation(_ context.Context, userID uuid.UUID, out *types.EvaluationOutput) (uuid.UUID, error) {
	id := uuid.New()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluations[id] = StoredEvaluation{ID: id, UserID: userID, Output: *out}
	return id, nil
}

// Evaluation returns a saved evaluation by id
func (m *MemoryStore) Evaluation(id uuid.UUID) (StoredEvaluation, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.evaluations[id]
	return e, ok
}
