package reviews

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RateMyJudge/RMJ-Backend/internal/db"
	"gorm.io/gorm"
)

// Store persists reviews.
type Store interface {
	Insert(ctx context.Context, r *Review) error
	ListByJudge(ctx context.Context, slug string) ([]Review, error)
}

// GormStore is the Postgres-backed Store.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(d *gorm.DB) *GormStore {
	return &GormStore{DB: d}
}

func (s *GormStore) Insert(ctx context.Context, r *Review) error {
	err := s.DB.WithContext(ctx).Create(r).Error
	if db.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s", ErrJudgeNotFound, r.JudgeID)
	}
	return err
}

func (s *GormStore) ListByJudge(ctx context.Context, slug string) ([]Review, error) {
	var reviews []Review
	err := s.DB.WithContext(ctx).
		Where("judge_id = ?", slug).
		Order("created_at ASC, id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// MemStore is an in-memory Store for tests and local tooling.
type MemStore struct {
	mu      sync.Mutex
	reviews []Review

	// Err, when set, is returned by every call.
	Err error
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Insert(ctx context.Context, r *Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *MemStore) ListByJudge(ctx context.Context, slug string) ([]Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []Review
	for _, r := range m.reviews {
		if r.JudgeID == slug {
			out = append(out, r)
		}
	}
	return out, nil
}

// Len reports how many reviews are stored across all judges.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews)
}
