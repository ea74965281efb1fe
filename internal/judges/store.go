package judges

import (
	"context"
	"errors"
	"fmt"

	"github.com/RateMyJudge/RMJ-Backend/internal/db"
	"gorm.io/gorm"
)

// Store persists judges.
type Store interface {
	List(ctx context.Context) ([]Judge, error)
	ListSlugs(ctx context.Context) ([]string, error)
	FindBySlug(ctx context.Context, slug string) (Judge, error)
	Insert(ctx context.Context, j *Judge) error
	AppendCircuit(ctx context.Context, slug, circuit string) (Judge, error)
	RemoveCircuit(ctx context.Context, slug, circuit string) (Judge, error)
}

// GormStore is the Postgres-backed Store.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(d *gorm.DB) *GormStore {
	return &GormStore{DB: d}
}

func (s *GormStore) List(ctx context.Context) ([]Judge, error) {
	var judges []Judge
	if err := s.DB.WithContext(ctx).Order("timestamp ASC, id ASC").Find(&judges).Error; err != nil {
		return nil, err
	}
	return judges, nil
}

func (s *GormStore) ListSlugs(ctx context.Context) ([]string, error) {
	var slugs []string
	err := s.DB.WithContext(ctx).Model(&Judge{}).
		Order("timestamp ASC, id ASC").
		Pluck("slug", &slugs).Error
	if err != nil {
		return nil, err
	}
	return slugs, nil
}

func (s *GormStore) FindBySlug(ctx context.Context, slug string) (Judge, error) {
	var judge Judge
	err := s.DB.WithContext(ctx).Where("slug = ?", slug).First(&judge).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Judge{}, ErrNotFound
	}
	if err != nil {
		return Judge{}, err
	}
	return judge, nil
}

func (s *GormStore) Insert(ctx context.Context, j *Judge) error {
	err := s.DB.WithContext(ctx).Create(j).Error
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateSlug, j.Slug)
	}
	return err
}

// AppendCircuit adds circuit in a single statement so concurrent edits don't
// overwrite each other. Adding a tag that is already present is a no-op.
func (s *GormStore) AppendCircuit(ctx context.Context, slug, circuit string) (Judge, error) {
	err := s.DB.WithContext(ctx).Model(&Judge{}).
		Where("slug = ? AND NOT (?::text = ANY(circuits))", slug, circuit).
		Update("circuits", gorm.Expr("array_append(circuits, ?::text)", circuit)).Error
	if err != nil {
		return Judge{}, err
	}
	return s.FindBySlug(ctx, slug)
}

func (s *GormStore) RemoveCircuit(ctx context.Context, slug, circuit string) (Judge, error) {
	err := s.DB.WithContext(ctx).Model(&Judge{}).
		Where("slug = ?", slug).
		Update("circuits", gorm.Expr("array_remove(circuits, ?::text)", circuit)).Error
	if err != nil {
		return Judge{}, err
	}
	return s.FindBySlug(ctx, slug)
}
