package judges

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemStore is an in-memory Store that keeps insertion order. It enforces slug
// uniqueness like the Postgres index does. Used by tests and local tooling.
type MemStore struct {
	mu     sync.Mutex
	judges []Judge

	// Err, when set, is returned by every call.
	Err error
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) List(ctx context.Context) ([]Judge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]Judge, len(m.judges))
	for i, j := range m.judges {
		out[i] = clone(j)
	}
	return out, nil
}

func (m *MemStore) ListSlugs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]string, len(m.judges))
	for i, j := range m.judges {
		out[i] = j.Slug
	}
	return out, nil
}

func (m *MemStore) FindBySlug(ctx context.Context, slug string) (Judge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return Judge{}, m.Err
	}
	if i := m.index(slug); i >= 0 {
		return clone(m.judges[i]), nil
	}
	return Judge{}, ErrNotFound
}

func (m *MemStore) Insert(ctx context.Context, j *Judge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.index(j.Slug) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateSlug, j.Slug)
	}
	if j.Timestamp.IsZero() {
		j.Timestamp = time.Now().UTC()
	}
	if j.Circuits == nil {
		j.Circuits = []string{}
	}
	m.judges = append(m.judges, clone(*j))
	return nil
}

func (m *MemStore) AppendCircuit(ctx context.Context, slug, circuit string) (Judge, error) {
	return m.update(slug, func(j *Judge) {
		for _, c := range j.Circuits {
			if c == circuit {
				return
			}
		}
		j.Circuits = append(j.Circuits, circuit)
	})
}

func (m *MemStore) RemoveCircuit(ctx context.Context, slug, circuit string) (Judge, error) {
	return m.update(slug, func(j *Judge) {
		kept := j.Circuits[:0]
		for _, c := range j.Circuits {
			if c != circuit {
				kept = append(kept, c)
			}
		}
		j.Circuits = kept
	})
}

func (m *MemStore) update(slug string, fn func(*Judge)) (Judge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return Judge{}, m.Err
	}
	i := m.index(slug)
	if i < 0 {
		return Judge{}, ErrNotFound
	}
	fn(&m.judges[i])
	return clone(m.judges[i]), nil
}

func (m *MemStore) index(slug string) int {
	for i, j := range m.judges {
		if j.Slug == slug {
			return i
		}
	}
	return -1
}

func clone(j Judge) Judge {
	j.Circuits = append([]string{}, j.Circuits...)
	return j
}
