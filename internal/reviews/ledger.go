package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RateMyJudge/RMJ-Backend/internal/live"
	"github.com/RateMyJudge/RMJ-Backend/internal/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JudgeLookup confirms a slug names a directory entry.
type JudgeLookup interface {
	Exists(ctx context.Context, slug string) (bool, error)
}

// Ledger holds the review operations.
type Ledger struct {
	store    Store
	judges   JudgeLookup
	notifier live.Notifier
	log      *zap.Logger
	metrics  *metrics.Manager
}

func NewLedger(store Store, judges JudgeLookup, notifier live.Notifier, log *zap.Logger, m *metrics.Manager) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewManager()
	}
	return &Ledger{store: store, judges: judges, notifier: notifier, log: log.Named("ledger"), metrics: m}
}

// Validate applies the write rules: a non-blank comment and a rating in 1..5.
func Validate(comment string, rating int) error {
	if strings.TrimSpace(comment) == "" {
		return ErrEmptyComment
	}
	if rating == 0 {
		return ErrMissingRating
	}
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// Create appends a review for the judge with the given slug and notifies live
// subscribers. Nothing is written when validation fails or the judge is
// missing. submitter is an opaque client fingerprint and may be empty.
func (l *Ledger) Create(ctx context.Context, slug, comment string, rating int, submitter string) (Review, error) {
	if err := Validate(comment, rating); err != nil {
		l.metrics.Rejected.WithLabelValues(rejectReason(err)).Inc()
		return Review{}, err
	}

	exists, err := l.judges.Exists(ctx, slug)
	if err != nil {
		l.storeError("judge_lookup", err)
		return Review{}, err
	}
	if !exists {
		l.metrics.Rejected.WithLabelValues("unknown_judge").Inc()
		return Review{}, fmt.Errorf("%w: %s", ErrJudgeNotFound, slug)
	}

	review := Review{
		ID:            uuid.New(),
		JudgeID:       slug,
		Comment:       comment,
		Rating:        rating,
		SubmitterHash: submitter,
	}
	if err := l.store.Insert(ctx, &review); err != nil {
		if errors.Is(err, ErrJudgeNotFound) {
			l.metrics.Rejected.WithLabelValues("unknown_judge").Inc()
			return Review{}, err
		}
		l.storeError("insert", err)
		return Review{}, err
	}
	l.metrics.ReviewsCreated.Inc()

	// The review is stored; a lost notification only delays live views.
	if l.notifier != nil {
		if err := l.notifier.Notify(ctx, slug); err != nil {
			l.log.Warn("review notification failed", zap.String("slug", slug), zap.Error(err))
		}
	}
	return review, nil
}

// List returns the reviews for slug in creation order.
func (l *Ledger) List(ctx context.Context, slug string) ([]Review, error) {
	reviews, err := l.store.ListByJudge(ctx, slug)
	if err != nil {
		l.storeError("list", err)
		return nil, err
	}
	if reviews == nil {
		reviews = []Review{}
	}
	return reviews, nil
}

// Snapshot loads the reviews for slug together with their summary.
func (l *Ledger) Snapshot(ctx context.Context, slug string) (Snapshot, error) {
	reviews, err := l.List(ctx, slug)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{JudgeID: slug, Reviews: reviews, Summary: Summarize(reviews)}, nil
}

// JudgeExists exposes the lookup used for writes to the live handler.
func (l *Ledger) JudgeExists(ctx context.Context, slug string) (bool, error) {
	return l.judges.Exists(ctx, slug)
}

func (l *Ledger) storeError(op string, err error) {
	l.metrics.StoreErrors.WithLabelValues("reviews_" + op).Inc()
	l.log.Error("store call failed", zap.String("op", op), zap.Error(err))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyComment):
		return "empty_comment"
	case errors.Is(err, ErrMissingRating):
		return "missing_rating"
	default:
		return "invalid_rating"
	}
}
