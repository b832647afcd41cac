package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "json", cfg.Render.ManifestFormat)

	interval, err := cfg.Watch.Interval()
	require.NoError(t, err)
	require.Equal(t, 200*time.Millisecond, interval)
}

func TestLoad_Formats(t *testing.T) {
	cases := []struct {
		name string
		file string
		body string
	}{
		{
			name: "yaml",
			file: "tutorialgen.yaml",
			body: "render:\n  outDir: build\n  solution: true\n  task: ipc\n  manifestFormat: yaml\nlog:\n  level: debug\n",
		},
		{
			name: "json",
			file: "tutorialgen.json",
			body: `{"render": {"outDir": "build", "solution": true, "task": "ipc", "manifestFormat": "yaml"}, "log": {"level": "debug"}}`,
		},
		{
			name: "toml",
			file: "tutorialgen.toml",
			body: "[render]\nout_dir = \"build\"\nsolution = true\ntask = \"ipc\"\nmanifest_format = \"yaml\"\n\n[log]\nlevel = \"debug\"\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.file, tc.body))
			require.NoError(t, err)

			require.Equal(t, "build", cfg.Render.OutDir)
			require.True(t, cfg.Render.Solution)
			require.Equal(t, "ipc", cfg.Render.Task)
			require.Equal(t, "yaml", cfg.Render.ManifestFormat)
			require.Equal(t, "debug", cfg.Log.Level)
			// untouched keys keep their defaults
			require.Equal(t, "console", cfg.Log.Format)
			require.Equal(t, "200ms", cfg.Watch.Debounce)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "tutorialgen.ini", "x=1"))
	require.ErrorContains(t, err, "unsupported")

	_, err = Load(writeConfig(t, "bad.yaml", "log:\n  level: loud\n"))
	require.ErrorContains(t, err, "log level")

	_, err = Load(writeConfig(t, "bad.json", `{"render": {"manifestFormat": "pickle"}}`))
	require.ErrorContains(t, err, "manifestFormat")

	_, err = Load(writeConfig(t, "bad.toml", "[watch]\ndebounce = \"-1s\"\n"))
	require.ErrorContains(t, err, "debounce")
}
