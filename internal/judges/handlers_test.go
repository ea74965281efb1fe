package judges_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RateMyJudge/RMJ-Backend/internal/judges"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *judges.MemStore) {
	t.Helper()
	store := judges.NewMemStore()
	dir := judges.NewDirectory(store, judges.NewCircuits([]string{"NatCirc", "Ohio"}), nil, nil)
	srv := httptest.NewServer(judges.SetupRoutes(dir))
	t.Cleanup(srv.Close)
	return srv, store
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateAndFetchJudge(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/", `{"name":"jane doe","circuits":"NatCirc, ohio"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/judge/jane-doe", resp.Header.Get("Location"))

	var created struct {
		Judge judges.Judge `json:"judge"`
		Route string       `json:"route"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "Jane Doe", created.Judge.Name)
	assert.Equal(t, "/judge/jane-doe", created.Route)

	resp = do(t, http.MethodGet, srv.URL+"/jane-doe", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got judges.Judge
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "jane-doe", got.Slug)
	assert.Equal(t, []string{"NatCirc", "Ohio"}, []string(got.Circuits))
}

func TestGetJudgeNotFound(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/mary-ann-lee", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body judges.NotFoundBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Mary Ann Lee", body.Name)
	assert.Equal(t, "/add-judge", body.AddJudge)
}

func TestCreateJudgeErrors(t *testing.T) {
	srv, _ := newServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"empty name", `{"name":"  "}`, http.StatusBadRequest},
		{"invalid circuit", `{"name":"A B","circuits":"Texas"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}

	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/", `{"name":"John Smith"}`).StatusCode)
	assert.Equal(t, http.StatusConflict, do(t, http.MethodPost, srv.URL+"/", `{"name":"john   smith"}`).StatusCode)
}

func TestCircuitEndpoints(t *testing.T) {
	srv, _ := newServer(t)
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/", `{"name":"Jane Doe"}`).StatusCode)

	resp := do(t, http.MethodPost, srv.URL+"/jane-doe/circuits", `{"circuit":"ohio"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var judge judges.Judge
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&judge))
	assert.Equal(t, []string{"Ohio"}, []string(judge.Circuits))

	resp = do(t, http.MethodPost, srv.URL+"/jane-doe/circuits", `{"circuit":"Texas"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/nobody/circuits", `{"circuit":"Ohio"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/jane-doe/circuits/Ohio", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&judge))
	assert.Empty(t, judge.Circuits)
}

func TestListJudgesEmpty(t *testing.T) {
	srv, _ := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []judges.Judge
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestWriteMiddlewareOnlyGuardsWrites(t *testing.T) {
	store := judges.NewMemStore()
	dir := judges.NewDirectory(store, judges.NewCircuits([]string{"Ohio"}), nil, nil)
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	srv := httptest.NewServer(judges.SetupRoutes(dir, deny))
	defer srv.Close()

	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/", "").StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, do(t, http.MethodPost, srv.URL+"/", `{"name":"A"}`).StatusCode)
}

func TestRemoveCircuitEscapedTags(t *testing.T) {
	dir := judges.NewDirectory(judges.NewMemStore(), judges.NewCircuits([]string{"50% Rule", "A/B"}), nil, nil)
	srv := httptest.NewServer(judges.SetupRoutes(dir))
	defer srv.Close()
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, srv.URL+"/", `{"name":"Jane Doe","circuits":"50% rule, a/b"}`).StatusCode)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"percent and space", "/jane-doe/circuits/50%25%20Rule", []string{"A/B"}},
		{"encoded slash", "/jane-doe/circuits/A%2FB", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodDelete, srv.URL+tt.path, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var judge judges.Judge
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&judge))
			assert.Equal(t, tt.want, []string(judge.Circuits))
		})
	}
}
