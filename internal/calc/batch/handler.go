package batch

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
)

type Handler struct {
	Env cycle.Env
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
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
	res, err := Calculate(entry, input, h.Env)
	if err != nil {
		handler.WriteJSON(w, http.StatusBadRequest, handler.ErrorBody{Error: err.Error(), Kind: "invalid_payload"})
		return
	}
	log.WithFields(log.Fields{
		"cycle":  res.Cycle,
		"count":  res.Count,
		"failed": res.Failed,
	}).Debug("batch solved")
	handler.WriteJSON(w, http.StatusOK, res)
}
