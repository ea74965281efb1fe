package judges

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RateMyJudge/RMJ-Backend/internal/metrics"
	"github.com/RateMyJudge/RMJ-Backend/internal/slug"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Directory holds the judge operations shared by the HTTP handlers and the
// rmjctl tool.
type Directory struct {
	store    Store
	circuits Circuits
	log      *zap.Logger
	metrics  *metrics.Manager
}

func NewDirectory(store Store, circuits Circuits, log *zap.Logger, m *metrics.Manager) *Directory {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewManager()
	}
	return &Directory{store: store, circuits: circuits, log: log.Named("directory"), metrics: m}
}

func (d *Directory) Circuits() Circuits { return d.circuits }

// ListAll returns every judge in store order.
func (d *Directory) ListAll(ctx context.Context) ([]Judge, error) {
	judges, err := d.store.List(ctx)
	if err != nil {
		d.storeError("list", err)
		return nil, err
	}
	return judges, nil
}

// ListSlugs returns every slug in store order. It is the autocomplete corpus.
func (d *Directory) ListSlugs(ctx context.Context) ([]string, error) {
	slugs, err := d.store.ListSlugs(ctx)
	if err != nil {
		d.storeError("list_slugs", err)
		return nil, err
	}
	return slugs, nil
}

func (d *Directory) FindBySlug(ctx context.Context, s string) (Judge, error) {
	judge, err := d.store.FindBySlug(ctx, s)
	if err != nil && !errors.Is(err, ErrNotFound) {
		d.storeError("find", err)
	}
	return judge, err
}

// Exists reports whether a judge with slug s is in the directory.
func (d *Directory) Exists(ctx context.Context, s string) (bool, error) {
	_, err := d.FindBySlug(ctx, s)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Create title-cases name, derives its slug, parses the comma-separated
// circuit list and inserts the judge. An existing slug is rejected; the
// unique index on slug settles concurrent creates.
func (d *Directory) Create(ctx context.Context, name, circuitsText string) (Judge, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		d.metrics.Rejected.WithLabelValues("empty_name").Inc()
		return Judge{}, ErrEmptyName
	}

	tags, err := d.circuits.ParseList(circuitsText)
	if err != nil {
		d.metrics.Rejected.WithLabelValues("invalid_circuit").Inc()
		return Judge{}, err
	}

	display := slug.TitleCase(name)
	judge := Judge{
		ID:       uuid.New(),
		Name:     display,
		Slug:     slug.ToSlug(display),
		Circuits: tags,
	}

	exists, err := d.Exists(ctx, judge.Slug)
	if err != nil {
		return Judge{}, err
	}
	if exists {
		d.metrics.Rejected.WithLabelValues("duplicate_slug").Inc()
		return Judge{}, fmt.Errorf("%w: %s", ErrDuplicateSlug, judge.Slug)
	}

	if err := d.store.Insert(ctx, &judge); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			d.metrics.Rejected.WithLabelValues("duplicate_slug").Inc()
			return Judge{}, err
		}
		d.storeError("insert", err)
		return Judge{}, err
	}

	d.metrics.JudgesCreated.Inc()
	d.log.Info("judge created",
		zap.String("slug", judge.Slug),
		zap.Strings("circuits", judge.Circuits))
	return judge, nil
}

// AddCircuit validates tag against the allow-list and appends its canonical
// form. Tags already on the judge are left alone.
func (d *Directory) AddCircuit(ctx context.Context, s, tag string) (Judge, error) {
	canon, ok := d.circuits.Canonical(tag)
	if !ok {
		d.metrics.Rejected.WithLabelValues("invalid_circuit").Inc()
		return Judge{}, fmt.Errorf("%w: %q", ErrInvalidCircuit, strings.TrimSpace(tag))
	}

	judge, err := d.store.AppendCircuit(ctx, s, canon)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			d.storeError("append_circuit", err)
		}
		return Judge{}, err
	}
	return judge, nil
}

// RemoveCircuit drops every occurrence of tag, matched exactly.
func (d *Directory) RemoveCircuit(ctx context.Context, s, tag string) (Judge, error) {
	judge, err := d.store.RemoveCircuit(ctx, s, tag)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			d.storeError("remove_circuit", err)
		}
		return Judge{}, err
	}
	return judge, nil
}

func (d *Directory) storeError(op string, err error) {
	d.metrics.StoreErrors.WithLabelValues("judges_" + op).Inc()
	d.log.Error("store call failed", zap.String("op", op), zap.Error(err))
}
