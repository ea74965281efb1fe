package routes_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RateMyJudge/RMJ-Backend/internal/config"
	"github.com/RateMyJudge/RMJ-Backend/internal/judges"
	"github.com/RateMyJudge/RMJ-Backend/internal/live"
	"github.com/RateMyJudge/RMJ-Backend/internal/metrics"
	"github.com/RateMyJudge/RMJ-Backend/internal/middleware"
	"github.com/RateMyJudge/RMJ-Backend/internal/reviews"
	"github.com/RateMyJudge/RMJ-Backend/internal/search"
	"github.com/RateMyJudge/RMJ-Backend/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type app struct {
	srv     *httptest.Server
	reviews *reviews.MemStore
}

func newApp(t *testing.T, limiter middleware.Limiter, proxies ...string) app {
	t.Helper()
	cfg := config.New()
	cfg.DatabaseURL = "unused"
	m := metrics.NewManager()
	hub := live.NewHub(m.LiveSubscribers)

	dir := judges.NewDirectory(judges.NewMemStore(), judges.NewCircuits(cfg.Circuits), nil, m)
	store := reviews.NewMemStore()
	ledger := reviews.NewLedger(store, dir, live.LocalNotifier{Hub: hub}, nil, m)
	if limiter == nil {
		limiter = middleware.NewClientLimiter(0, 0)
	}
	trusted, err := middleware.ParseTrustedProxies(proxies)
	require.NoError(t, err)

	srv := httptest.NewServer(routes.SetupRoutes(routes.Deps{
		Config:    cfg,
		Directory: dir,
		Ledger:    ledger,
		Hub:       hub,
		Metrics:   m,
		Limiter:   limiter,
		Proxies:   trusted,
	}))
	t.Cleanup(srv.Close)
	return app{srv: srv, reviews: store}
}

func (a app) send(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	return a.sendFrom(t, "", method, path, body)
}

// sendFrom is send with an X-Forwarded-For header when forwardedFor is set.
func (a app) sendFrom(t *testing.T, forwardedFor, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRoot(t *testing.T) {
	a := newApp(t, nil)

	resp := a.send(t, http.MethodGet, "/", "")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Server is up!\n", string(body))
}

func TestEndToEnd(t *testing.T) {
	a := newApp(t, nil)

	resp := a.send(t, http.MethodPost, "/judges", `{"name":"Jane Doe","circuits":"NatCirc, ohio"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.send(t, http.MethodGet, "/judges/jane-doe", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	judge := decode[judges.Judge](t, resp)
	assert.Equal(t, "Jane Doe", judge.Name)
	assert.Equal(t, []string{"NatCirc", "Ohio"}, []string(judge.Circuits))

	resp = a.send(t, http.MethodGet, "/search/suggest?q=jane", "")
	sugg := decode[search.Result](t, resp)
	require.Len(t, sugg.Suggestions, 1)
	assert.Equal(t, "/judge/jane-doe", sugg.Suggestions[0].Route)

	resp = a.send(t, http.MethodPost, "/judges/jane-doe/reviews", `{"comment":"Fair","rating":4}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.send(t, http.MethodGet, "/judges/jane-doe/reviews", "")
	snap := decode[reviews.Snapshot](t, resp)
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, "4.0", snap.AverageDisplay)
}

func TestDuplicateJudgeRejected(t *testing.T) {
	a := newApp(t, nil)

	resp := a.send(t, http.MethodPost, "/judges", `{"name":"John Smith"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = a.send(t, http.MethodPost, "/judges", `{"name":"john   smith"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = a.send(t, http.MethodGet, "/judges", "")
	all := decode[[]judges.Judge](t, resp)
	assert.Len(t, all, 1)
}

func TestInvalidReviewLeavesLedgerUnchanged(t *testing.T) {
	a := newApp(t, nil)
	a.send(t, http.MethodPost, "/judges", `{"name":"Jane Doe"}`)

	resp := a.send(t, http.MethodPost, "/judges/jane-doe/reviews", `{"comment":"","rating":4}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = a.send(t, http.MethodPost, "/judges/jane-doe/reviews", `{"comment":"Fair","rating":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, a.reviews.Len())
}

func TestCircuitEdits(t *testing.T) {
	a := newApp(t, nil)
	a.send(t, http.MethodPost, "/judges", `{"name":"Jane Doe"}`)

	resp := a.send(t, http.MethodPost, "/judges/jane-doe/circuits", `{"circuit":"ohio"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Ohio"}, []string(decode[judges.Judge](t, resp).Circuits))

	resp = a.send(t, http.MethodPost, "/judges/jane-doe/circuits", `{"circuit":"Texas"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.send(t, http.MethodDelete, "/judges/jane-doe/circuits/Ohio", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[judges.Judge](t, resp).Circuits)

	resp = a.send(t, http.MethodGet, "/circuits", "")
	assert.Equal(t, []string{"NatCirc", "Ohio"}, decode[[]string](t, resp))
}

func TestWritesAreRateLimited(t *testing.T) {
	a := newApp(t, middleware.NewClientLimiter(0.001, 1))

	resp := a.send(t, http.MethodPost, "/judges", `{"name":"Jane Doe"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = a.send(t, http.MethodPost, "/judges/jane-doe/reviews", `{"comment":"Fair","rating":4}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp = a.send(t, http.MethodGet, "/judges/jane-doe", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "reads are not limited")
}

func TestForwardedForCannotResetRateLimit(t *testing.T) {
	lim := middleware.NewClientLimiter(0.001, 1)
	a := newApp(t, lim)

	resp := a.sendFrom(t, "198.51.100.1", http.MethodPost, "/judges", `{"name":"Jane Doe"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for i := 2; i <= 20; i++ {
		xff := fmt.Sprintf("198.51.100.%d", i)
		resp = a.sendFrom(t, xff, http.MethodPost, "/judges/jane-doe/reviews", `{"comment":"Fair","rating":4}`)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "write %d with X-Forwarded-For %s", i, xff)
	}
	assert.Equal(t, 0, a.reviews.Len())
	assert.Equal(t, 1, lim.Len())
}

func TestTrustedProxyForwardsClientIdentity(t *testing.T) {
	lim := middleware.NewClientLimiter(0.001, 1)
	a := newApp(t, lim, "127.0.0.1", "::1")

	resp := a.sendFrom(t, "198.51.100.1", http.MethodPost, "/judges", `{"name":"Jane Doe"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = a.sendFrom(t, "198.51.100.2", http.MethodPost, "/judges/jane-doe/reviews", `{"comment":"Fair","rating":4}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = a.sendFrom(t, "198.51.100.2", http.MethodPost, "/judges/jane-doe/reviews", `{"comment":"Again","rating":4}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 2, lim.Len())
}

func TestStaticPages(t *testing.T) {
	a := newApp(t, nil)

	resp := a.send(t, http.MethodGet, "/terms", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	resp = a.send(t, http.MethodGet, "/routes", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = a.send(t, http.MethodGet, "/metrics", "")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "rmj_directory_judges_created_total")
}
