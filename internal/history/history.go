// Package history saves solved cycles per user and serves them back.
package history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"Thermo/internal/auth"
	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
	"Thermo/internal/calc/registry"
	"Thermo/internal/repo"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Handler struct {
	Repo repo.RunRepository
	Env  cycle.Env
}

type SaveRequest struct {
	Cycle  string       `json:"cycle"`
	Params cycle.Params `json:"params"`
}

// Save solves the request and stores the run. Failed solves are not stored.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SaveRequest
	if err := handler.DecodeJSON(w, r, &req); err != nil {
		handler.WriteError(w, err)
		return
	}
	entry, err := registry.Lookup(req.Cycle)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	rep, err := entry.Solve(req.Params, h.Env)
	if err != nil {
		handler.LogFailure(r, entry.Name, err)
		handler.WriteError(w, err)
		return
	}

	run, err := h.Repo.SaveRun(r.Context(), repo.Run{
		UserID: userID,
		Cycle:  entry.Name,
		Params: req.Params,
		Report: rep,
	})
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("save run")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	log.WithFields(log.Fields{"user_id": userID, "cycle": run.Cycle, "run": run.ID}).Info("run saved")
	handler.WriteJSON(w, http.StatusCreated, run)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLimit)
	}

	runs, err := h.Repo.ListRuns(r.Context(), userID, limit)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("list runs")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	handler.WriteJSON(w, http.StatusOK, runs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return
	}

	run, err := h.Repo.GetRun(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.WithError(err).WithField("run", id).Error("get run")
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	handler.WriteJSON(w, http.StatusOK, run)
}
