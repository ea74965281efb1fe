package judges

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/RateMyJudge/RMJ-Backend/internal/slug"
	"github.com/RateMyJudge/RMJ-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

// AddJudgeRoute is where the UI sends users to create a missing judge.
const AddJudgeRoute = "/add-judge"

// NotFoundBody drives the "Judge Not Found" view and its call to action.
type NotFoundBody struct {
	Error    string `json:"error"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	AddJudge string `json:"add_judge"`
}

type createdBody struct {
	Judge Judge  `json:"judge"`
	Route string `json:"route"`
}

type handlers struct {
	dir *Directory
}

// ListJudges returns every judge in store order.
func (h handlers) ListJudges(w http.ResponseWriter, r *http.Request) {
	judges, err := h.dir.ListAll(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch judges")
		return
	}
	if judges == nil {
		judges = []Judge{}
	}
	utils.WriteJSON(w, http.StatusOK, judges)
}

// GetJudge returns one judge by slug, or the not-found body.
func (h handlers) GetJudge(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "judgeSlug")

	judge, err := h.dir.FindBySlug(r.Context(), s)
	if errors.Is(err, ErrNotFound) {
		writeNotFound(w, s)
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to fetch judge")
		return
	}
	utils.WriteJSON(w, http.StatusOK, judge)
}

// CreateJudge adds a judge from {"name": ..., "circuits": "NatCirc, Ohio"}.
func (h handlers) CreateJudge(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Circuits string `json:"circuits"`
	}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	judge, err := h.dir.Create(r.Context(), input.Name, input.Circuits)
	switch {
	case err == nil:
	case errors.Is(err, ErrEmptyName), errors.Is(err, ErrInvalidCircuit):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrDuplicateSlug):
		utils.WriteError(w, http.StatusConflict, err.Error())
		return
	default:
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create judge")
		return
	}

	w.Header().Set("Location", slug.Route(judge.Slug))
	utils.WriteJSON(w, http.StatusCreated, createdBody{Judge: judge, Route: slug.Route(judge.Slug)})
}

// AddCircuit appends {"circuit": ...} to the judge's tags.
func (h handlers) AddCircuit(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "judgeSlug")

	var input struct {
		Circuit string `json:"circuit"`
	}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	judge, err := h.dir.AddCircuit(r.Context(), s, input.Circuit)
	h.writeCircuitResult(w, s, judge, err)
}

// RemoveCircuit drops the tag named in the path.
func (h handlers) RemoveCircuit(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "judgeSlug")
	tag := chi.URLParam(r, "circuit")
	// chi matches on RawPath when it is set, leaving params escaped.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(tag)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid circuit")
			return
		}
		tag = unescaped
	}

	judge, err := h.dir.RemoveCircuit(r.Context(), s, tag)
	h.writeCircuitResult(w, s, judge, err)
}

func (h handlers) ListCircuits(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.dir.Circuits().List())
}

func (h handlers) writeCircuitResult(w http.ResponseWriter, s string, judge Judge, err error) {
	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, judge)
	case errors.Is(err, ErrInvalidCircuit):
		utils.WriteError(w, http.StatusBadRequest, "Please enter a valid circuit")
	case errors.Is(err, ErrNotFound):
		writeNotFound(w, s)
	default:
		utils.WriteError(w, http.StatusInternalServerError, "Failed to update circuits")
	}
}

func writeNotFound(w http.ResponseWriter, s string) {
	utils.WriteJSON(w, http.StatusNotFound, NotFoundBody{
		Error:    "Judge Not Found",
		Slug:     s,
		Name:     slug.ToDisplayName(s),
		AddJudge: AddJudgeRoute,
	})
}
