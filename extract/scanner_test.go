package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files under dir; keys are slash-separated relative paths.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func displayPaths(jobs []FileJob) []string {
	paths := make([]string, len(jobs))
	for i, j := range jobs {
		paths[i] = j.DisplayPath
	}
	return paths
}

func TestScannerCollect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.test.ts":                  "test('a', () => {})",
		"b.test.tsx":                 "test('b', () => {})",
		"lib/c.spec.js":              "test('c', () => {})",
		"lib/helper.ts":              "export {}",
		"lib/big.test.ts":            "test('big', () => {}) // padding padding padding",
		"node_modules/dep/d.test.ts": "test('d', () => {})",
		"dist/e.test.js":             "test('e', () => {})",
		"docs/readme.md":             "test('f', () => {})",
		"lib/nested/deep/g.test.cts": "test('g', () => {})",
	})

	tests := []struct {
		name string
		cfg  scannerConfig
		want []string
	}{
		{
			name: "all registered languages",
			cfg:  scannerConfig{},
			want: []string{"a.test.ts", "b.test.tsx", "lib/big.test.ts", "lib/c.spec.js", "lib/helper.ts", "lib/nested/deep/g.test.cts"},
		},
		{
			name: "single language",
			cfg:  scannerConfig{language: Get(LanguageTSX)},
			want: []string{"b.test.tsx"},
		},
		{
			name: "include pattern",
			cfg:  scannerConfig{include: []string{"**/*.{test,spec}.*"}},
			want: []string{"a.test.ts", "b.test.tsx", "lib/big.test.ts", "lib/c.spec.js", "lib/nested/deep/g.test.cts"},
		},
		{
			name: "exclude pattern",
			cfg:  scannerConfig{exclude: []string{"lib/**"}},
			want: []string{"a.test.ts", "b.test.tsx"},
		},
		{
			name: "size limit",
			cfg:  scannerConfig{maxBytes: 30},
			want: []string{"a.test.ts", "b.test.tsx", "lib/c.spec.js", "lib/helper.ts", "lib/nested/deep/g.test.cts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := tt.cfg
			cfg.root = dir
			sc := newScanner(cfg)
			require.NoError(t, sc.validate())

			jobs, err := sc.collect()
			require.NoError(t, err)
			require.Equal(t, tt.want, displayPaths(jobs))

			for _, job := range jobs {
				require.True(t, filepath.IsAbs(job.AbsPath))
			}
		})
	}
}

func TestScannerValidate(t *testing.T) {
	t.Parallel()

	sc := newScanner(scannerConfig{include: []string{"**/*.ts"}, exclude: []string{"[abc"}})
	require.EqualError(t, sc.validate(), `invalid pattern "[abc"`)
}

func TestScannerCollectSingle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	inside := newScanner(scannerConfig{root: dir})
	job, err := inside.collectSingle(filepath.Join(dir, "src", "a.test.ts"))
	require.NoError(t, err)
	require.Equal(t, "src/a.test.ts", job.DisplayPath)

	outside := newScanner(scannerConfig{root: filepath.Join(dir, "other")})
	job, err = outside.collectSingle(filepath.Join(dir, "src", "a.test.ts"))
	require.NoError(t, err)
	require.Equal(t, "a.test.ts", job.DisplayPath)
}

func TestScannerAccepts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sc := newScanner(scannerConfig{root: dir, exclude: []string{"**/*.snap.ts"}})

	tests := []struct {
		path string
		want bool
	}{
		{"a.test.ts", true},
		{"src/a.test.jsx", true},
		{"src/a.snap.ts", false},
		{"node_modules/x/a.test.ts", false},
		{"src/coverage/a.test.ts", false},
		{"a.test.py", false},
		{"../outside.test.ts", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, sc.accepts(dir, filepath.Join(dir, filepath.FromSlash(tt.path))))
		})
	}
}

func TestScannerInsideIgnoredDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "build")
	sc := newScanner(scannerConfig{root: dir})

	tests := []struct {
		path string
		want bool
	}{
		{".", false},
		{"src", false},
		{"src/lib", false},
		{"node_modules", true},
		{"node_modules/pkg", true},
		{"src/.git/objects", true},
		{"packages/app/dist", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, sc.insideIgnoredDir(dir, filepath.Join(dir, filepath.FromSlash(tt.path))))
		})
	}
}

func TestScannerAcceptedUnder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"pkg/a.test.ts":                  "test('a', () => {})",
		"pkg/nested/b.test.tsx":          "test('b', () => {})",
		"pkg/nested/c.snap.ts":           "test('c', () => {})",
		"pkg/readme.md":                  "# pkg",
		"pkg/node_modules/dep/d.test.ts": "test('d', () => {})",
		"other/e.test.ts":                "test('e', () => {})",
	})
	sc := newScanner(scannerConfig{root: dir, exclude: []string{"**/*.snap.ts"}})

	var got []string
	for _, path := range sc.acceptedUnder(dir, filepath.Join(dir, "pkg")) {
		got = append(got, sc.relative(dir, path))
	}
	require.Equal(t, []string{"pkg/a.test.ts", "pkg/nested/b.test.tsx"}, got)
}
