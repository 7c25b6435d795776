package sweep

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
)

const writeWait = 10 * time.Second

// Message types sent over the websocket.
const (
	TypePoint = "point"
	TypeDone  = "done"
	TypeError = "error"
)

type Msg struct {
	Type  string             `json:"type"`
	Point *Point             `json:"point,omitempty"`
	Count int                `json:"count,omitempty"`
	Error *handler.ErrorBody `json:"error,omitempty"`
}

type Handler struct {
	Env      cycle.Env
	MaxSteps int
	Upgrader websocket.Upgrader
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	entry, err := handler.Entry(r)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	var req Request
	if err := handler.DecodeJSON(w, r, &req); err != nil {
		handler.WriteError(w, err)
		return
	}
	if err := Validate(entry, req, h.MaxSteps); err != nil {
		handler.WriteError(w, err)
		return
	}
	series, err := Collect(r.Context(), entry, req, h.Env)
	if err != nil {
		log.WithError(err).WithField("cycle", entry.Name).Debug("sweep aborted")
		return
	}
	handler.WriteJSON(w, http.StatusOK, series)
}

// Stream upgrades to a websocket and serves sweep requests until the client
// disconnects. Each request is answered with one point message per value and
// a final done message.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	entry, err := handler.Entry(r)
	if err != nil {
		handler.WriteError(w, err)
		return
	}
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("websocket upgrade")
		return
	}
	defer conn.Close()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).WithField("cycle", entry.Name).Debug("websocket read")
			}
			return
		}
		if err := Validate(entry, req, h.MaxSteps); err != nil {
			body := handler.Body(err)
			if send(conn, Msg{Type: TypeError, Error: &body}) != nil {
				return
			}
			continue
		}
		err := Run(r.Context(), entry, req, h.Env, func(p Point) error {
			return send(conn, Msg{Type: TypePoint, Point: &p})
		})
		if err != nil {
			log.WithError(err).WithField("cycle", entry.Name).Debug("sweep stream aborted")
			return
		}
		if send(conn, Msg{Type: TypeDone, Count: req.Steps}) != nil {
			return
		}
	}
}

func send(conn *websocket.Conn, m Msg) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(m)
}
