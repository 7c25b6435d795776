package report

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/registry"
	"Thermo/internal/props"
)

func TestRenderWithStates(t *testing.T) {
	env := cycle.NewEnv(props.New())
	entry, err := registry.Lookup("rankine")
	require.NoError(t, err)
	rep, err := entry.Solve(entry.Example(), env)
	require.NoError(t, err)
	require.NotEmpty(t, rep.States)

	var buf bytes.Buffer
	in := Input{Project: "Central térmica", Author: "Equipo", Notes: "Caso base"}
	require.NoError(t, Render(&buf, in, rep, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestStateCells(t *testing.T) {
	x := 0.8
	cells := stateCells(cycle.StatePoint{Label: "3", P: 0.08, T: 41.51, H: 2100, S: 6.7, Rho: 0.07, Phase: "two-phase", Quality: &x})
	assert.Equal(t, []string{"3", "0.08", "41.51", "2100.00", "6.7000", "0.07", "two-phase", "0.800"}, cells)

	cells = stateCells(cycle.StatePoint{Label: "1"})
	assert.Equal(t, "-", cells[7])
}

func TestGenerateHandler(t *testing.T) {
	h := &Handler{Env: cycle.NewEnv(props.New())}
	r := mux.NewRouter()
	r.HandleFunc("/cycles/{name}/report", h.Generate).Methods("POST")

	rec := httptest.NewRecorder()
	body := `{"project": "Motor", "params": {"relacion_compresion": 8, "t1": 25, "p1": 1, "t3": 1500}}`
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cycles/otto/report", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cycles/otto/report", strings.NewReader(`{"params": {}}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
