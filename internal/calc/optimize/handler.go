package optimize

import (
	"net/http"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
)

type Handler struct {
	Env cycle.Env
}

func (h *Handler) Maximize(w http.ResponseWriter, r *http.Request) {
	entry, err := handler.Entry(r)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	var input Request
	if err := handler.DecodeJSON(w, r, &input); err != nil {
		handler.WriteError(w, err)
		return
	}
	res, err := Maximize(r.Context(), entry, input, h.Env)
	if err != nil {
		handler.LogFailure(r, entry.Name, err)
		handler.WriteError(w, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, res)
}
