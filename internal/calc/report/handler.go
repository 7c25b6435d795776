package report

import (
	"bytes"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
)

type Handler struct {
	Env cycle.Env
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	entry, err := handler.Entry(r)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	var input Input
	if err := handler.DecodeJSON(w, r, &input); err != nil {
		handler.WriteError(w, err)
		return
	}
	rep, err := entry.Solve(input.Params, h.Env)
	if err != nil {
		handler.LogFailure(r, entry.Name, err)
		handler.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, input, rep, time.Now()); err != nil {
		log.WithError(err).WithField("cycle", entry.Name).Error("render report")
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+entry.Name+".pdf\"")
	w.Write(buf.Bytes())
}
