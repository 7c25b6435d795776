package importer

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"Thermo/internal/calc/batch"
	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
)

const MaxUploadSize = 10 << 20

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	Env cycle.Env
}

// Import solves every row of an uploaded workbook. With ?format=xlsx the
// response is the workbook with result columns appended.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	entry, err := handler.Entry(r)
	if err != nil {
		handler.WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		badFile(w, "file required")
		return
	}
	defer file.Close()

	sheet, err := Read(file)
	if err != nil {
		log.WithError(err).WithField("cycle", entry.Name).Debug("unreadable workbook")
		if errors.Is(err, ErrEmptySheet) {
			badFile(w, err.Error())
			return
		}
		badFile(w, "invalid file")
		return
	}

	res, err := batch.Calculate(entry, batch.Input{Items: sheet.Params()}, h.Env)
	if err != nil {
		badFile(w, err.Error())
		return
	}

	if r.URL.Query().Get("format") != "xlsx" {
		handler.WriteJSON(w, http.StatusOK, res)
		return
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+entry.Name+"-resultados.xlsx\"")
	if err := Write(w, sheet, res); err != nil {
		log.WithError(err).WithField("cycle", entry.Name).Error("write workbook")
	}
}

func badFile(w http.ResponseWriter, msg string) {
	handler.WriteJSON(w, http.StatusBadRequest, handler.ErrorBody{Error: msg, Kind: "invalid_payload"})
}
