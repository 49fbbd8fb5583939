package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hbnb/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps config discovery away from the developer's machine
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", dir)
	return dir
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-driver", "sqlite", "-path", "x.db", "show", "User", "1"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", opts.driver)
	assert.Equal(t, "x.db", opts.path)
	assert.Equal(t, "show User 1", opts.command)
}

func TestLoadConfigOverrides(t *testing.T) {
	isolate(t)

	cfg, path, err := loadConfig(&options{})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, config.DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "file.json", cfg.Storage.Path)

	cfg, _, err = loadConfig(&options{driver: "sqlite"})
	require.NoError(t, err)
	assert.Equal(t, "hbnb.db", cfg.Storage.Path)

	cfg, _, err = loadConfig(&options{driver: "sqlite", path: "data.db", logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "data.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)

	_, _, err = loadConfig(&options{driver: "postgres"})
	assert.Error(t, err)
}

func TestRunCommandAndExport(t *testing.T) {
	for _, driver := range []string{"file", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			isolate(t)
			base := []string{"-driver", driver, "-log-level", "error"}

			var out bytes.Buffer
			require.NoError(t, run(append(base, "create", "State"), strings.NewReader(""), &out))
			id := strings.TrimSpace(out.String())
			require.Len(t, id, 36)

			out.Reset()
			require.NoError(t, run(append(base, "-export", "json"), strings.NewReader(""), &out))
			var doc map[string]map[string]any
			require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
			require.Contains(t, doc, "State."+id)
			assert.Equal(t, "State", doc["State."+id]["__class__"])

			out.Reset()
			require.NoError(t, run(append(base, "-export", "yaml"), strings.NewReader(""), &out))
			assert.Contains(t, out.String(), "State."+id+":")

			assert.Error(t, run(append(base, "-export", "xml"), strings.NewReader(""), &out))
		})
	}
}

func TestRunImport(t *testing.T) {
	dir := isolate(t)

	source := filepath.Join(dir, "seed.yaml")
	seed := "Amenity.a1:\n" +
		"  id: a1\n" +
		"  created_at: \"2017-09-28T21:03:54.052298\"\n" +
		"  updated_at: \"2017-09-28T21:03:54.052298\"\n" +
		"  name: Wifi\n" +
		"  __class__: Amenity\n"
	require.NoError(t, os.WriteFile(source, []byte(seed), 0644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"-log-level", "error", "-import", source}, strings.NewReader(""), &out))

	out.Reset()
	require.NoError(t, run([]string{"-log-level", "error", "count", "Amenity"}, strings.NewReader(""), &out))
	assert.Equal(t, "1", strings.TrimSpace(out.String()))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("Ghost.1:\n  id: \"1\"\n  __class__: Ghost\n"), 0644))
	assert.Error(t, run([]string{"-log-level", "error", "-import", bad}, strings.NewReader(""), &out))

	assert.Error(t, run([]string{"-import", filepath.Join(dir, "seed.txt")}, strings.NewReader(""), &out))
}

func TestRunConsole(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"-log-level", "error"}, strings.NewReader("create User\ncount User\nquit\n"), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[1])
	assert.FileExists(t, "file.json")
}

func TestRunWriteConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "out", "config.yaml")

	require.NoError(t, run([]string{"-driver", "sqlite", "-write-config", path}, strings.NewReader(""), &bytes.Buffer{}))

	cfg, _, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "hbnb.db", cfg.Storage.Path)
}
