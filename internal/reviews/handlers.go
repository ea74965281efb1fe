package reviews

import (
	"errors"
	"net/http"

	"github.com/RateMyJudge/RMJ-Backend/internal/judges"
	"github.com/RateMyJudge/RMJ-Backend/internal/live"
	"github.com/RateMyJudge/RMJ-Backend/internal/slug"
	"github.com/RateMyJudge/RMJ-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type handlers struct {
	ledger   *Ledger
	hub      *live.Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// ListReviews returns the judge's reviews and the derived average, or the
// not-found body when the judge does not exist.
func (h handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "judgeSlug")

	ok, err := h.ledger.JudgeExists(r.Context(), s)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch judge")
		return
	}
	if !ok {
		writeJudgeNotFound(w, s)
		return
	}

	snap, err := h.ledger.Snapshot(r.Context(), s)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	utils.WriteJSON(w, http.StatusOK, snap)
}

// CreateReview appends {"comment": ..., "rating": 1-5} for the judge.
func (h handlers) CreateReview(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "judgeSlug")

	var input struct {
		Comment string `json:"comment"`
		Rating  int    `json:"rating"`
	}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	submitter, _ := utils.GetClientFromContext(r.Context())
	review, err := h.ledger.Create(r.Context(), s, input.Comment, input.Rating, submitter)
	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusCreated, review)
	case errors.Is(err, ErrEmptyComment), errors.Is(err, ErrMissingRating), errors.Is(err, ErrInvalidRating):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrJudgeNotFound):
		writeJudgeNotFound(w, s)
	default:
		utils.WriteError(w, http.StatusInternalServerError, "Failed to save review")
	}
}

func writeJudgeNotFound(w http.ResponseWriter, s string) {
	utils.WriteJSON(w, http.StatusNotFound, judges.NotFoundBody{
		Error:    "Judge Not Found",
		Slug:     s,
		Name:     slug.ToDisplayName(s),
		AddJudge: judges.AddJudgeRoute,
	})
}
