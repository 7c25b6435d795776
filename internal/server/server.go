// Package server assembles the HTTP routes of the service.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"Thermo/internal/auth"
	"Thermo/internal/calc/batch"
	"Thermo/internal/calc/cycle"
	"Thermo/internal/calc/handler"
	"Thermo/internal/calc/importer"
	"Thermo/internal/calc/optimize"
	"Thermo/internal/calc/report"
	"Thermo/internal/calc/sweep"
	"Thermo/internal/config"
	"Thermo/internal/history"
	"Thermo/internal/repo"
)

// Store is the persistence the routes need.
type Store interface {
	repo.Repository
	repo.RunRepository
}

type Deps struct {
	Config config.Config
	Env    cycle.Env
	Store  Store
}

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, d Deps) {
	authEnv := &auth.Authenv{JWTkey: []byte(d.Config.TokenKey), Repo: d.Store, SecureCookie: d.Config.TLS()}
	limiter := auth.NewIPRateLimiter(rate.Limit(d.Config.RateRPS), d.Config.RateBurst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	calcH := &handler.Handler{Env: d.Env}
	batchH := &batch.Handler{Env: d.Env}
	importH := &importer.Handler{Env: d.Env}
	reportH := &report.Handler{Env: d.Env}
	optimizeH := &optimize.Handler{Env: d.Env}
	sweepH := &sweep.Handler{
		Env:      d.Env,
		MaxSteps: d.Config.SweepMaxSteps,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	api.HandleFunc("/cycles", calcH.Catalogue).Methods("GET")
	api.HandleFunc("/cycles/{name}/calc", calcH.Calc).Methods("POST")
	api.HandleFunc("/cycles/{name}/batch", batchH.Calc).Methods("POST")
	api.HandleFunc("/cycles/{name}/import", importH.Import).Methods("POST")
	api.HandleFunc("/cycles/{name}/report", reportH.Generate).Methods("POST")
	api.HandleFunc("/cycles/{name}/optimize", optimizeH.Maximize).Methods("POST")
	api.HandleFunc("/cycles/{name}/sweep", sweepH.Sweep).Methods("POST")
	api.HandleFunc("/cycles/{name}/sweep/ws", sweepH.Stream).Methods("GET")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	historyH := &history.Handler{Repo: d.Store, Env: d.Env}
	secureApi.HandleFunc("/runs", historyH.Save).Methods("POST")
	secureApi.HandleFunc("/runs", historyH.List).Methods("GET")
	secureApi.HandleFunc("/runs/{id}", historyH.Get).Methods("GET")
}

// New returns the full service handler.
func New(d Deps) http.Handler {
	r := mux.NewRouter()
	HandleList(r, d)
	return CORS(r)
}
