package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

func router() *mux.Router {
	h := &Handler{Env: cycle.NewEnv(props.New())}
	r := mux.NewRouter()
	r.HandleFunc("/cycles", h.Catalogue).Methods("GET")
	r.HandleFunc("/cycles/{name}/calc", h.Calc).Methods("POST")
	return r
}

func post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, req)
	return rec
}

func TestCatalogue(t *testing.T) {
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cycles", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var items []CatalogueItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 8)
	assert.Equal(t, "rankine", items[0].Name)
	assert.NotEmpty(t, items[0].Schema.Fields)
	assert.Contains(t, items[0].Example, "p_alta")
}

func TestCalcCarnot(t *testing.T) {
	rec := post(t, "/cycles/carnot/calc", `{"t_caliente": 300, "t_fria": "50"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, "carnot", res.Cycle)
	assert.Equal(t, "43.62%", res.Result["Eficiencia teórica"])
	assert.InDelta(t, 43.6186, res.Report.Metrics[0].Value, 1e-3)
}

func TestCalcErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		body   string
		status int
		kind   string
	}{
		{"unknown cycle", "/cycles/stirling/calc", `{}`, http.StatusNotFound, "unknown_cycle"},
		{"bad json", "/cycles/carnot/calc", `{"t_caliente":`, http.StatusBadRequest, "invalid_payload"},
		{"missing", "/cycles/rankine/calc", `{"p_alta": 80, "p_baja": 0.08}`, http.StatusBadRequest, "missing_parameter"},
		{"invalid", "/cycles/carnot/calc", `{"t_caliente": "x", "t_fria": 50}`, http.StatusBadRequest, "invalid_parameter"},
		{"ill posed", "/cycles/brayton/calc",
			`{"relacion_compresion": 20, "t_max": 1000, "rendimiento_compresor": 0.6, "rendimiento_turbina": 0.6, "potencia": 1000}`,
			http.StatusUnprocessableEntity, "ill_posed"},
		{"lookup", "/cycles/rankine/calc", `{"p_alta": 80, "p_baja": 0.08, "t_max": 900}`, http.StatusUnprocessableEntity, "property_lookup"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := post(t, c.path, c.body)
			assert.Equal(t, c.status, rec.Code)
			var body ErrorBody
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, c.kind, body.Kind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestMissingKeysInBody(t *testing.T) {
	rec := post(t, "/cycles/rankine/calc", `{"p_alta": 80}`)
	var body ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"p_baja", "t_max"}, body.Keys)
}

func TestStatusInternal(t *testing.T) {
	err := errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, Status(err))
	assert.Equal(t, ErrorBody{Error: "internal error", Kind: "internal"}, Body(err))
}
