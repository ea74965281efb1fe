// Package pages serves the UI route catalogue and the static terms text.
package pages

import (
	_ "embed"
	"net/http"

	"github.com/RateMyJudge/RMJ-Backend/internal/utils"
)

//go:embed terms.txt
var terms string

// Route is one client-side view.
type Route struct {
	Path    string `json:"path"`
	Purpose string `json:"purpose"`
}

// Routes lists the views the client renders, in navigation order.
var Routes = []Route{
	{Path: "/", Purpose: "search and landing"},
	{Path: "/judge/:judgeSlug", Purpose: "judge detail with ratings, reviews and circuit tags"},
	{Path: "/add-judge", Purpose: "judge creation form"},
	{Path: "/terms", Purpose: "terms of service"},
}

// Terms returns the terms of service text.
func Terms() string { return terms }

func RoutesHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, Routes)
}

func TermsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(terms))
}
