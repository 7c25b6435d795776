package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"Thermo/internal/calc/cycle"
	"Thermo/internal/props"
)

// chdir stands in for testing.T.Chdir (Go 1.24): it changes the working
// directory for the rest of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestFromIniDefaults(t *testing.T) {
	cfg := fromIni(ini.Empty())
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, cycle.DefaultAmbient, cfg.Ambient)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.Equal(t, 5.0, cfg.RateRPS)
	assert.Equal(t, 10, cfg.RateBurst)
	assert.Equal(t, 200, cfg.SweepMaxSteps)
}

func TestFromIniValues(t *testing.T) {
	file, err := ini.Load([]byte(`
[server]
addr = :9000
[ambient]
temperature_c = 15
pressure_bar = 0.9
[props]
cache_size = 16
[sweep]
max_steps = 50
`))
	require.NoError(t, err)

	cfg := fromIni(file)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, cycle.Ambient{T: 15, P: 0.9}, cfg.Ambient)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, 50, cfg.SweepMaxSteps)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thermo.ini")
	require.NoError(t, os.WriteFile(path, []byte("[ratelimit]\nrps = 2\n"), 0o600))

	chdir(t, dir)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7000")
	t.Setenv("TOKEN_KEY", "secret")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
	assert.Equal(t, "secret", cfg.TokenKey)
	assert.Equal(t, 2.0, cfg.RateRPS)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "nope.ini")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)
}

func TestEnvAmbient(t *testing.T) {
	cfg := Config{Ambient: cycle.Ambient{T: 10, P: 0.95}}
	env := cfg.Env(props.New())
	assert.Equal(t, cycle.Ambient{T: 10, P: 0.95}, env.Atmosphere())
	assert.Equal(t, cycle.DefaultAmbient, Config{}.Env(props.New()).Atmosphere())
}
