package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"Thermo/internal/config"
	"Thermo/internal/props"
	"Thermo/internal/repo"
	"Thermo/internal/server"
)

var wg sync.WaitGroup

func store(cfg config.Config) (server.Store, *sql.DB) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, keeping users and runs in memory")
		return repo.NewMemory(), nil
	}
	db, err := repo.Open(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database")
	}
	return repo.NewPostgresUserDB(db), db
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	log.SetLevel(cfg.LogLevel)
	if cfg.TokenKey == "" {
		log.Fatal("TOKEN_KEY environment variable is not set")
	}

	svc, err := props.Cached(props.New(), cfg.CacheSize)
	if err != nil {
		log.WithError(err).Fatal("property cache")
	}

	st, db := store(cfg)
	if db != nil {
		defer db.Close()
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(server.Deps{Config: cfg, Env: cfg.Env(svc), Store: st}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.WithFields(log.Fields{"addr": cfg.Addr, "tls": cfg.TLS()}).Info("starting server")
		var err error
		if cfg.TLS() {
			err = srv.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server shutdown")
	}
	wg.Wait()
	log.Info("server stopped")
}
