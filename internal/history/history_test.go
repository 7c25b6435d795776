package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Thermo/internal/auth"
	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
	"Thermo/internal/repo"
)

type fixture struct {
	router *mux.Router
	repo   *repo.Memory
}

func setup() fixture {
	mem := repo.NewMemory()
	h := &Handler{Repo: mem, Env: cycle.NewEnv(props.New())}
	r := mux.NewRouter()
	r.HandleFunc("/runs", h.Save).Methods("POST")
	r.HandleFunc("/runs", h.List).Methods("GET")
	r.HandleFunc("/runs/{id}", h.Get).Methods("GET")
	return fixture{router: r, repo: mem}
}

func (f fixture) do(t *testing.T, userID int, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != 0 {
		req = req.WithContext(auth.WithUser(req.Context(), userID, "user"))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestSaveListGet(t *testing.T) {
	f := setup()

	rec := f.do(t, 1, http.MethodPost, "/runs", `{"cycle": "carnot", "params": {"t_caliente": 300, "t_fria": 50}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var saved repo.Run
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, "carnot", saved.Cycle)
	assert.InDelta(t, 43.6186, saved.Report.Value(cycle.MEfficiency), 1e-3)

	rec = f.do(t, 1, http.MethodPost, "/runs", `{"cycle": "otto", "params": {"relacion_compresion": 8, "t1": 25, "p1": 1, "t3": 1500}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, 1, http.MethodGet, "/runs?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []repo.Run
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "otto", runs[0].Cycle)

	rec = f.do(t, 1, http.MethodGet, "/runs/"+saved.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, 2, http.MethodGet, "/runs/"+saved.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveRejectsFailedSolves(t *testing.T) {
	f := setup()
	rec := f.do(t, 1, http.MethodPost, "/runs", `{"cycle": "rankine", "params": {"p_alta": 80}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, 1, http.MethodPost, "/runs", `{"cycle": "stirling", "params": {}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	runs, err := f.repo.ListRuns(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestBadRequests(t *testing.T) {
	f := setup()
	assert.Equal(t, http.StatusUnauthorized, f.do(t, 0, http.MethodGet, "/runs", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, 0, http.MethodPost, "/runs", "{}").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, 1, http.MethodGet, "/runs?limit=-3", "").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, 1, http.MethodGet, "/runs/not-a-uuid", "").Code)
}
