package reviews

import (
	"net/http"

	"github.com/RateMyJudge/RMJ-Backend/internal/live"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SetupRoutes returns the router mounted at /judges/{judgeSlug}/reviews.
// checkOrigin guards websocket upgrades; writeMW wraps review creation.
func SetupRoutes(ledger *Ledger, hub *live.Hub, checkOrigin func(*http.Request) bool, log *zap.Logger, writeMW ...func(http.Handler) http.Handler) chi.Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	h := handlers{
		ledger: ledger,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
		log: log.Named("live"),
	}

	r.Get("/", h.ListReviews)
	r.Get("/live", h.LiveReviews)

	r.Group(func(r chi.Router) {
		r.Use(writeMW...)
		r.Post("/", h.CreateReview)
	})

	return r
}
