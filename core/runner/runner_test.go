package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/realias/core/alias"
	"github.com/tristendillon/realias/core/cache"
	"github.com/tristendillon/realias/core/logger"
)

func buildTable(t *testing.T, pairs ...string) *alias.Table {
	t.Helper()
	table, err := alias.Build(pairs)
	require.NoError(t, err)
	return table
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func testOptions() Options {
	return Options{
		Extensions:      []string{"js"},
		NativeExt:       ".js",
		PassThroughExts: []string{".json"},
		Exclude:         []string{"node_modules"},
		Recursive:       true,
		ReportLevel:     logger.DEBUG,
	}
}

func TestRunRewritesTree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.js"), `import { Button } from "@ui/button.ts"`)
	writeFile(t, filepath.Join(root, "lib.js"), "import fs from \"fs\"\n")
	writeFile(t, filepath.Join(root, "notes.ts"), `import X from "@ui/x"`)
	writeFile(t, filepath.Join(root, "node_modules", "dep.js"), `import X from "@ui/x"`)

	r := NewRunner(buildTable(t, "@ui /src/components"), testOptions())
	summary, err := r.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Scanned)
	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	assert.Equal(t, `import { Button } from "/src/components/button.js"`, readFile(t, filepath.Join(root, "app.js")))
	assert.Equal(t, "import fs from \"fs\"\n", readFile(t, filepath.Join(root, "lib.js")))
	assert.Equal(t, `import X from "@ui/x"`, readFile(t, filepath.Join(root, "notes.ts")))
	assert.Equal(t, `import X from "@ui/x"`, readFile(t, filepath.Join(root, "node_modules", "dep.js")))
}

func TestRunRecordsAppliedAliases(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.js"), "import A from \"@ui/a\"\nimport B from \"@lib/b\"\n")

	r := NewRunner(buildTable(t, "@ui /src/components", "@lib /src/lib"), testOptions())
	summary, err := r.Run(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, []string{"@ui", "@lib"}, summary.Results[0].Applied)
}

func TestRunDryRunLeavesFilesAlone(t *testing.T) {
	root := t.TempDir()
	content := `import { Button } from "@ui/button"`
	writeFile(t, filepath.Join(root, "app.js"), content)

	opts := testOptions()
	opts.DryRun = true

	r := NewRunner(buildTable(t, "@ui /src/components"), opts)
	summary, err := r.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, content, readFile(t, filepath.Join(root, "app.js")))
}

func TestRunSkipsCachedCleanFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "app.js"), `import X from "@ui/x"`)
	writeFile(t, filepath.Join(root, "lib.js"), "import fs from \"fs\"\n")

	r := NewRunner(buildTable(t, "@ui /src/components"), testOptions())
	r.SetScanCache(cache.NewScanCache(r.CacheKey(), nil))

	first, err := r.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Scanned)
	assert.Equal(t, 1, first.Changed)
	assert.Equal(t, 0, first.Skipped)

	second, err := r.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Scanned)
	assert.Equal(t, 2, second.Skipped)
}

func TestRunRevisitsFilesAfterEdit(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "app.js")
	writeFile(t, path, "import fs from \"fs\"\n")

	r := NewRunner(buildTable(t, "@ui /src/components"), testOptions())
	r.SetScanCache(cache.NewScanCache(r.CacheKey(), nil))

	_, err := r.Run(context.Background(), root)
	require.NoError(t, err)

	writeFile(t, path, `import X from "@ui/x"`)

	second, err := r.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Scanned)
	assert.Equal(t, 1, second.Changed)
	assert.Equal(t, `import X from "/src/components/x.js"`, readFile(t, path))
}

func TestRunDryRunKeepsDirtyFilesHot(t *testing.T) {
	root := t.TempDir()
	dirty := filepath.Join(root, "dirty.js")
	writeFile(t, dirty, `import X from "@ui/x"`)
	writeFile(t, filepath.Join(root, "clean.js"), "import fs from \"fs\"\n")

	table := buildTable(t, "@ui /src/components")

	dryOpts := testOptions()
	dryOpts.DryRun = true
	dryRunner := NewRunner(table, dryOpts)
	scans := cache.NewScanCache(dryRunner.CacheKey(), nil)
	dryRunner.SetScanCache(scans)

	preview, err := dryRunner.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, preview.Scanned)
	assert.Equal(t, 1, preview.Changed)

	realRunner := NewRunner(table, testOptions())
	realRunner.SetScanCache(scans)

	applied, err := realRunner.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, applied.Scanned)
	assert.Equal(t, 1, applied.Changed)
	assert.Equal(t, 1, applied.Skipped)
	assert.Equal(t, `import X from "/src/components/x.js"`, readFile(t, dirty))
}

func TestRunIsolatesFailingFiles(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "good.js"), `import X from "@ui/x"`)
	bad := filepath.Join(root, "bad.js")
	writeFile(t, bad, `import Y from "@ui/y"`)
	require.NoError(t, os.Chmod(bad, 0o000))

	r := NewRunner(buildTable(t, "@ui /src/components"), testOptions())
	summary, err := r.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Scanned)
	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, `import X from "/src/components/x.js"`, readFile(t, filepath.Join(root, "good.js")))
}

func TestRunMissingRoot(t *testing.T) {
	r := NewRunner(buildTable(t, "@ui /src/components"), testOptions())
	_, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCacheKeyIgnoresPassThroughOrder(t *testing.T) {
	table := buildTable(t, "@ui /src/components")

	a := testOptions()
	a.PassThroughExts = []string{".json", ".css"}
	b := testOptions()
	b.PassThroughExts = []string{".css", ".json"}

	assert.Equal(t, NewRunner(table, a).CacheKey(), NewRunner(table, b).CacheKey())
}

func TestCacheKeyTracksConfiguration(t *testing.T) {
	table := buildTable(t, "@ui /src/components")

	a := testOptions()
	b := testOptions()
	b.NativeExt = ".mjs"

	assert.NotEqual(t, NewRunner(table, a).CacheKey(), NewRunner(table, b).CacheKey())
}
