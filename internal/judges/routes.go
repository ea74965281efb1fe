package judges

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes returns the /judges router. Writes go through writeMW (rate
// limiting). Callers mount review routes under /{judgeSlug}/reviews on the
// returned router.
func SetupRoutes(dir *Directory, writeMW ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	h := handlers{dir: dir}

	r.Get("/", h.ListJudges)
	r.Get("/{judgeSlug}", h.GetJudge)

	r.Group(func(r chi.Router) {
		r.Use(writeMW...)
		r.Post("/", h.CreateJudge)
		r.Post("/{judgeSlug}/circuits", h.AddCircuit)
		r.Delete("/{judgeSlug}/circuits/{circuit}", h.RemoveCircuit)
	})

	return r
}

// CircuitsHandler serves the circuit allow-list so forms can offer it.
func CircuitsHandler(dir *Directory) http.HandlerFunc {
	return handlers{dir: dir}.ListCircuits
}
