package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"js"}, cfg.Extensions)
	assert.Equal(t, ".js", cfg.NativeExt)
	assert.Equal(t, []string{".json"}, cfg.PassThroughExts)
	assert.Contains(t, cfg.Exclude, "node_modules")
	assert.True(t, cfg.Recursive)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
	assert.True(t, cfg.Cache.Enabled)
}

// chdir switches the working directory for the duration of the test and
// restores it on cleanup. testing.T.Chdir requires Go 1.24; this toolchain
// is older.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	content := `extensions: [js, ts]
aliases:
  "@ui": /src/components
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"js", "ts"}, cfg.Extensions)
	assert.Equal(t, map[string]string{"@ui": "/src/components"}, cfg.Aliases)
	// untouched keys keep their defaults
	assert.Equal(t, ".js", cfg.NativeExt)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
}

func TestLoadRejectsBadYaml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("extensions: ["), 0o644))
	chdir(t, dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.Extensions = []string{"js", "jsx"}
	cfg.Aliases = map[string]string{"@ui": "/src/components", "@lib": "/src/lib"}
	cfg.Cache.Enabled = false
	require.NoError(t, cfg.Save(filepath.Join(dir, FileName)))

	chdir(t, dir)
	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestAliasPairsSorted(t *testing.T) {
	cfg := Default()
	cfg.Aliases = map[string]string{
		"@ui":  "/src/components",
		"@api": "/src/api",
	}

	assert.Equal(t, []string{"@api /src/api", "@ui /src/components"}, cfg.AliasPairs())
}

func TestAliasPairsEmpty(t *testing.T) {
	assert.Empty(t, Default().AliasPairs())
}
