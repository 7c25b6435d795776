package importer

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"Thermo/internal/calc/batch"
	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func carnotBook(t *testing.T) []byte {
	return workbook(t,
		[]any{"T_Caliente", "t_fria", "notes"},
		[]any{300, 50, "base"},
		[]any{"", "", ""},
		[]any{"50", "300", "reversed"},
		[]any{"450,5", 20},
	)
}

func TestReadSheet(t *testing.T) {
	s, err := Read(bytes.NewReader(carnotBook(t)))
	require.NoError(t, err)
	assert.Equal(t, []string{"t_caliente", "t_fria", "notes"}, s.Header)
	require.Len(t, s.Rows, 3)

	params := s.Params()
	assert.Equal(t, cycle.Params{"t_caliente": "300", "t_fria": "50", "notes": "base"}, params[0])
	assert.Equal(t, cycle.Params{"t_caliente": "450,5", "t_fria": "20"}, params[2])
}

func TestReadEmpty(t *testing.T) {
	_, err := Read(bytes.NewReader(workbook(t, []any{"t_caliente", "t_fria"})))
	assert.ErrorIs(t, err, ErrEmptySheet)

	_, err = Read(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func upload(t *testing.T, path string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "params.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	h := &Handler{Env: cycle.NewEnv(props.New())}
	r := mux.NewRouter()
	r.HandleFunc("/cycles/{name}/import", h.Import).Methods("POST")

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestImportJSON(t *testing.T) {
	rec := upload(t, "/cycles/carnot/import", carnotBook(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var res batch.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, "43.62%", res.Items[0].Result.Result["Eficiencia teórica"])
	assert.Equal(t, "invalid_parameter", res.Items[1].Error.Kind)
}

func TestImportXLSX(t *testing.T) {
	rec := upload(t, "/cycles/carnot/import?format=xlsx", carnotBook(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxType, rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(ResultSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	header := rows[0]
	assert.Equal(t, "t_caliente", header[0])
	assert.Equal(t, "Eficiencia teórica (%)", header[3])
	assert.Equal(t, "error", header[len(header)-1])

	assert.Equal(t, "300", rows[1][0])
	assert.Contains(t, rows[1][3], "43.6")
	assert.Contains(t, rows[2][len(header)-1], "t_fria")
}

func TestImportBadUpload(t *testing.T) {
	rec := upload(t, "/cycles/carnot/import", []byte("garbage"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, "/cycles/nope/import", carnotBook(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
