// Package handler serves the cycle catalogue and single calculations over
// JSON. Its helpers are shared by the other cycle endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/registry"
)

// MaxBodySize bounds every JSON request body.
const MaxBodySize = 1 << 20

var ErrPayload = errors.New("invalid request payload")

type Handler struct {
	Env cycle.Env
}

type CatalogueItem struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Schema      cycle.Schema `json:"schema"`
	Example     cycle.Params `json:"example"`
}

// Result is the response of one solved cycle: the labelled strings a client
// displays and the raw report behind them.
type Result struct {
	Cycle  string         `json:"cycle"`
	Title  string         `json:"title"`
	Result map[string]any `json:"result"`
	Report cycle.Report   `json:"report"`
}

type ErrorBody struct {
	Error string   `json:"error"`
	Kind  string   `json:"kind"`
	Keys  []string `json:"keys,omitempty"`
}

func NewResult(rep cycle.Report) Result {
	return Result{Cycle: rep.Cycle, Title: rep.Title, Result: rep.Formatted(), Report: rep}
}

func (h *Handler) Catalogue(w http.ResponseWriter, r *http.Request) {
	entries := registry.Entries()
	out := make([]CatalogueItem, len(entries))
	for i, e := range entries {
		out[i] = CatalogueItem{
			Name:        e.Name,
			Title:       e.Title,
			Description: e.Description,
			Schema:      e.Schema,
			Example:     e.Example(),
		}
	}
	WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	entry, err := Entry(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var params cycle.Params
	if err := DecodeJSON(w, r, &params); err != nil {
		WriteError(w, err)
		return
	}
	rep, err := entry.Solve(params, h.Env)
	if err != nil {
		LogFailure(r, entry.Name, err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, NewResult(rep))
}

// Entry resolves the {name} route variable.
func Entry(r *http.Request) (registry.Entry, error) {
	return registry.Lookup(mux.Vars(r)["name"])
}

// DecodeJSON reads a bounded JSON body into dst, keeping numbers as
// json.Number so integer inputs stay exact until binding.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrPayload, err)
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("write response")
	}
}

// Status maps an error to its HTTP status: 400 for malformed input, 404 for an
// unknown cycle, 422 for a calculation that could not be carried out.
func Status(err error) int {
	switch {
	case errors.Is(err, registry.ErrUnknownCycle):
		return http.StatusNotFound
	case errors.Is(err, ErrPayload), cycle.IsInputError(err):
		return http.StatusBadRequest
	case cycle.KindOf(err) != 0:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Body renders err for clients. The kind lets them tell malformed input from
// computation failures.
func Body(err error) ErrorBody {
	body := ErrorBody{Error: err.Error()}
	var ce *cycle.Error
	switch {
	case errors.Is(err, registry.ErrUnknownCycle):
		body.Kind = "unknown_cycle"
	case errors.Is(err, ErrPayload):
		body.Kind = "invalid_payload"
	case errors.As(err, &ce):
		body.Kind = ce.Kind.String()
		body.Keys = ce.Keys
	case cycle.KindOf(err) != 0:
		body.Kind = cycle.KindOf(err).String()
	default:
		body.Kind = "internal"
		body.Error = "internal error"
	}
	return body
}

func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, Status(err), Body(err))
}

// LogFailure records solver errors. Input errors are routine and go to debug.
func LogFailure(r *http.Request, name string, err error) {
	entry := log.WithFields(log.Fields{
		"cycle": name,
		"kind":  cycle.KindOf(err).String(),
		"path":  r.URL.Path,
	}).WithError(err)
	if cycle.IsInputError(err) {
		entry.Debug("rejected parameters")
		return
	}
	entry.Warn("calculation failed")
}
