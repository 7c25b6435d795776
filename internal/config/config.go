// Package config loads secrets from the environment (.env) and tunables from
// an ini file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
	"Thermo/internal/units"
)

const DefaultFile = "conf/thermo.ini"

type Config struct {
	Addr string
	// CertFile and KeyFile enable TLS when both are set.
	CertFile    string
	KeyFile     string
	DatabaseURL string
	TokenKey    string
	TokenBot    string
	LogLevel    log.Level

	Ambient   cycle.Ambient
	CacheSize int
	RateRPS   float64
	RateBurst int
	// SweepMaxSteps caps the number of points of one sweep request.
	SweepMaxSteps int
}

// Load reads .env (when present), then the ini file named by CONFIG_FILE or
// DefaultFile. A missing ini file leaves every tunable at its default.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultFile
	}
	file, err := ini.LooseLoad(path)
	if err != nil {
		return Config{}, err
	}
	cfg := fromIni(file)
	fromEnv(&cfg)
	return cfg, nil
}

func fromIni(file *ini.File) Config {
	server := file.Section("server")
	ambient := file.Section("ambient")
	limit := file.Section("ratelimit")
	return Config{
		Addr:     server.Key("addr").MustString(":8080"),
		CertFile: server.Key("cert_file").String(),
		KeyFile:  server.Key("key_file").String(),
		LogLevel: log.InfoLevel,
		Ambient: cycle.Ambient{
			T: ambient.Key("temperature_c").MustFloat64(cycle.DefaultAmbient.T),
			P: ambient.Key("pressure_bar").MustFloat64(units.StandardAtmosphereBar),
		},
		CacheSize:     file.Section("props").Key("cache_size").MustInt(1024),
		RateRPS:       limit.Key("rps").MustFloat64(5),
		RateBurst:     limit.Key("burst").MustInt(10),
		SweepMaxSteps: file.Section("sweep").Key("max_steps").MustInt(200),
	}
}

func fromEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.TokenKey = os.Getenv("TOKEN_KEY")
	cfg.TokenBot = os.Getenv("TOKEN_BOT")
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsed, err := log.ParseLevel(lvl)
		if err != nil {
			log.WithField("level", lvl).Warn("unknown LOG_LEVEL, keeping info")
			return
		}
		cfg.LogLevel = parsed
	}
}

func (c Config) TLS() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// Env returns the solver environment for the configured ambient.
func (c Config) Env(svc props.Service) cycle.Env {
	env := cycle.NewEnv(svc)
	if c.Ambient.P > 0 {
		env.Ambient = c.Ambient
	}
	return env
}
