package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfig(t *testing.T) {
	t.Run("Missing file keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("YAML", func(t *testing.T) {
		p := writeConfig(t, "fileranker.yaml", `
scoring:
  weights:
    name: 0.5
    methods: 0.2
    lines: 0.2
    flags: 0.05
    kind: 0.05
  line_tolerance: 2
extraction:
  workers: 3
cache:
  driver: bolt
  path: /tmp/facts.db
`)
		cfg, err := LoadConfig(p)
		require.NoError(t, err)
		assert.Equal(t, 0.5, cfg.Scoring.Weights.Name)
		assert.Equal(t, 2, cfg.Scoring.LineTolerance)
		assert.Equal(t, 0.15, cfg.Scoring.MinConfidence)
		assert.Equal(t, 3, cfg.Extraction.Workers)
		assert.Equal(t, "bolt", cfg.Cache.Driver)
		assert.Equal(t, []string{"**/*.kt"}, cfg.Crawler.Include)
	})

	t.Run("TOML", func(t *testing.T) {
		p := writeConfig(t, "fileranker.toml", `
[scoring]
min_confidence = 0.3

[crawler]
include = ["src/**/*.kt"]
exclude = ["**/generated/**"]

[log]
format = "json"
`)
		cfg, err := LoadConfig(p)
		require.NoError(t, err)
		assert.Equal(t, 0.3, cfg.Scoring.MinConfidence)
		assert.Equal(t, []string{"src/**/*.kt"}, cfg.Crawler.Include)
		assert.Equal(t, []string{"**/generated/**"}, cfg.Crawler.Exclude)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, 0.4, cfg.Scoring.Weights.Name)
	})

	t.Run("Environment overrides", func(t *testing.T) {
		t.Setenv("FILERANKER_LOG_LEVEL", "debug")
		t.Setenv("FILERANKER_WORKERS", "7")
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 7, cfg.Extraction.Workers)
	})

	t.Run("Bad environment value", func(t *testing.T) {
		t.Setenv("FILERANKER_MIN_CONFIDENCE", "high")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("Invalid values", func(t *testing.T) {
		cases := map[string]string{
			"negative weight": "scoring:\n  weights:\n    name: -1\n",
			"zero weights":    "scoring:\n  weights:\n    name: 0\n    methods: 0\n    lines: 0\n    flags: 0\n    kind: 0\n",
			"negative tol":    "scoring:\n  line_tolerance: -1\n",
			"zero floor":      "scoring:\n  min_confidence: 0\n",
			"floor above one": "scoring:\n  min_confidence: 1.5\n",
			"nan weight":      "scoring:\n  weights:\n    lines: .nan\n",
			"infinite weight": "scoring:\n  weights:\n    kind: .inf\n",
			"cache path":      "cache:\n  driver: sqlite\n",
			"unknown driver":  "cache:\n  driver: redis\n",
			"unknown format":  "log:\n  format: xml\n",
			"malformed yaml":  "scoring: [",
		}
		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := LoadConfig(writeConfig(t, "c.yaml", body))
				assert.Error(t, err)
			})
		}
	})
}
