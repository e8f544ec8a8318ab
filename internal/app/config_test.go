package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
browser:
  headless: true
  timeout: 45s
pointer:
  backend: os
  display: ":1"
output:
  mode: console
site:
  consent_timeout: 3s
pipeline:
  stop_on_error: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 45*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, 1920, cfg.Browser.WindowWidth)
	assert.Equal(t, PointerOS, cfg.Pointer.Backend)
	assert.Equal(t, ":1", cfg.Pointer.Display)
	assert.Equal(t, OutputConsole, cfg.Output.Mode)
	assert.Equal(t, "output/main_test_results.txt", cfg.Output.Path)
	assert.Equal(t, 3*time.Second, cfg.Site.ConsentTimeout)
	assert.Equal(t, "https://www.playtechpeople.com", cfg.Site.BaseURL)
	assert.True(t, cfg.Pipeline.StopOnError)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown output mode", "output:\n  mode: printer\n"},
		{"unknown pointer backend", "pointer:\n  backend: robot\n"},
		{"bad base url", "site:\n  base_url: not a url\n"},
		{"file mode without path", "output:\n  mode: file\n  path: \"\"\n"},
		{"tiny window", "browser:\n  window_width: 10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorContains(t, err, "validating config")
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "browser: [unclosed"))
	assert.ErrorContains(t, err, "loading config")
}
