package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.InDelta(t, 0.1, cfg.Scoring.Contamination, 1e-9)
	require.Equal(t, 5, cfg.Scoring.Clusters)
	require.Equal(t, int64(42), cfg.Scoring.Seed)
	require.Empty(t, cfg.PostgresDSN)
	require.False(t, cfg.Verbose)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scoring:
  contamination: 0.2
  clusters: 3
postgres_dsn: postgres://localhost/scores
verbose: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.InDelta(t, 0.2, cfg.Scoring.Contamination, 1e-9)
	require.Equal(t, 3, cfg.Scoring.Clusters)
	// Untouched keys keep their defaults.
	require.InDelta(t, 0.7, cfg.Scoring.AnomalyMultiplier, 1e-9)
	require.Equal(t, "postgres://localhost/scores", cfg.PostgresDSN)
	require.True(t, cfg.Verbose)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("postgres_dsn: from-file\n"), 0o644))

	t.Setenv("POSTGRES_DSN", "from-env")
	t.Setenv("METRICS_ADDR", ":9091")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.PostgresDSN)
	require.Equal(t, ":9091", cfg.MetricsAddr)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring: [not a map"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
}
