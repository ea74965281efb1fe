package search

import (
	"context"
	"net/http"

	"github.com/RateMyJudge/RMJ-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Corpus supplies the slugs to search.
type Corpus interface {
	ListSlugs(ctx context.Context) ([]string, error)
}

type handlers struct {
	corpus Corpus
	limit  int
	log    *zap.Logger
}

// SetupRoutes returns the /search router.
func SetupRoutes(corpus Corpus, limit int, log *zap.Logger) chi.Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	h := handlers{corpus: corpus, limit: limit, log: log.Named("search")}

	r.Get("/suggest", h.Suggest)
	r.Get("/resolve", h.Resolve)

	return r
}

// load falls back to an empty corpus when the store is unavailable.
func (h handlers) load(ctx context.Context) []string {
	slugs, err := h.corpus.ListSlugs(ctx)
	if err != nil {
		h.log.Warn("corpus unavailable, searching nothing", zap.Error(err))
		return nil
	}
	return slugs
}

func (h handlers) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	utils.WriteJSON(w, http.StatusOK, Suggest(h.load(r.Context()), q, h.limit))
}

func (h handlers) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	utils.WriteJSON(w, http.StatusOK, Resolve(h.load(r.Context()), q))
}
