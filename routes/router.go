package routes

import (
	"fmt"
	"net/http"

	"github.com/RateMyJudge/RMJ-Backend/internal/config"
	"github.com/RateMyJudge/RMJ-Backend/internal/judges"
	"github.com/RateMyJudge/RMJ-Backend/internal/live"
	"github.com/RateMyJudge/RMJ-Backend/internal/logging"
	"github.com/RateMyJudge/RMJ-Backend/internal/metrics"
	"github.com/RateMyJudge/RMJ-Backend/internal/middleware"
	"github.com/RateMyJudge/RMJ-Backend/internal/pages"
	"github.com/RateMyJudge/RMJ-Backend/internal/reviews"
	"github.com/RateMyJudge/RMJ-Backend/internal/search"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Deps is everything the HTTP surface needs.
type Deps struct {
	Config    *config.Config
	Directory *judges.Directory
	Ledger    *reviews.Ledger
	Hub       *live.Hub
	Metrics   *metrics.Manager
	Limiter   middleware.Limiter
	Proxies   middleware.TrustedProxies
	Log       *zap.Logger
}

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

// SetupRoutes builds the application router.
func SetupRoutes(d Deps) chi.Router {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(logging.Requests(log.Named("http")))
	r.Use(d.Metrics.Middleware)
	r.Use(middleware.CORS(d.Config.CORSOrigins))
	r.Use(middleware.Fingerprint(d.Config.SubmitterSalt, d.Proxies))

	limit := middleware.RateLimit(d.Limiter)

	r.Get("/", RootHandler)

	judgeRouter := judges.SetupRoutes(d.Directory, limit)
	judgeRouter.Mount("/{judgeSlug}/reviews",
		reviews.SetupRoutes(d.Ledger, d.Hub, middleware.OriginChecker(d.Config.CORSOrigins), log, limit))
	r.Mount("/judges", judgeRouter)

	r.Get("/circuits", judges.CircuitsHandler(d.Directory))
	r.Mount("/search", search.SetupRoutes(d.Directory, d.Config.SuggestionLimit, log))
	r.Get("/routes", pages.RoutesHandler)
	r.Get("/terms", pages.TermsHandler)
	r.Handle("/metrics", d.Metrics.Handler())

	return r
}
