package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// defaultIgnoreDirs returns the default list of directories to ignore.
func defaultIgnoreDirs() map[string]struct{} {
	return map[string]struct{}{
		".git":             {},
		".hg":              {},
		".svn":             {},
		".jj":              {},
		"node_modules":     {},
		"bower_components": {},
		"dist":             {},
		"build":            {},
		"out":              {},
		".next":            {},
		".nuxt":            {},
		".cache":           {},
		".turbo":           {},
		".yarn":            {},
		"coverage":         {},
	}
}

// scannerConfig holds scanner configuration.
type scannerConfig struct {
	root       string
	language   Language // nil accepts every registered language
	include    []string
	exclude    []string
	ignoreDirs map[string]struct{}
	maxBytes   int64
	logger     *zerolog.Logger
}

// scanner discovers files for processing.
type scanner struct {
	cfg scannerConfig
}

// newScanner creates a new scanner with the given configuration.
func newScanner(cfg scannerConfig) *scanner {
	if cfg.ignoreDirs == nil {
		cfg.ignoreDirs = defaultIgnoreDirs()
	}
	if cfg.logger == nil {
		nop := zerolog.Nop()
		cfg.logger = &nop
	}
	return &scanner{cfg: cfg}
}

// validate rejects malformed include and exclude patterns.
func (s *scanner) validate() error {
	for _, patterns := range [][]string{s.cfg.include, s.cfg.exclude} {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return fmt.Errorf("invalid pattern %q", p)
			}
		}
	}
	return nil
}

// collect finds all matching files and returns them as FileJobs.
func (s *scanner) collect() ([]FileJob, error) {
	absRoot, err := filepath.Abs(s.cfg.root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	var jobs []FileJob
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if s.shouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel := s.relative(absRoot, path)
		if !s.isSupportedFile(d.Name()) || !s.matchesPatterns(rel) {
			return nil
		}

		if s.cfg.maxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				// Skip files we can't stat
				return nil
			}
			if info.Size() > s.cfg.maxBytes {
				s.cfg.logger.Debug().Str("file", rel).Int64("size", info.Size()).Msg("skipping oversized file")
				return nil
			}
		}

		jobs = append(jobs, FileJob{
			AbsPath:     path,
			DisplayPath: rel,
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// collectSingle returns a single file as a FileJob. The display path is
// relative to the root when the file lies under it.
func (s *scanner) collectSingle(filePath string) (FileJob, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return FileJob{}, fmt.Errorf("resolve path: %w", err)
	}

	display := filepath.Base(absPath)
	if s.cfg.root != "" {
		if absRoot, err := filepath.Abs(s.cfg.root); err == nil {
			if rel, err := filepath.Rel(absRoot, absPath); err == nil && !strings.HasPrefix(rel, "..") {
				display = filepath.ToSlash(rel)
			}
		}
	}

	return FileJob{
		AbsPath:     absPath,
		DisplayPath: display,
	}, nil
}

// accepts reports whether an existing or removed file under the root would
// be collected. Size limits are checked only for files that still exist.
func (s *scanner) accepts(absRoot, path string) bool {
	rel, err := filepath.Rel(absRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)

	dirs := strings.Split(rel, "/")
	for _, dir := range dirs[:len(dirs)-1] {
		if s.shouldIgnoreDir(dir) {
			return false
		}
	}

	if !s.isSupportedFile(filepath.Base(path)) || !s.matchesPatterns(rel) {
		return false
	}

	if s.cfg.maxBytes > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > s.cfg.maxBytes {
			return false
		}
	}
	return true
}

// insideIgnoredDir reports whether dir, or any directory between absRoot and
// dir, is ignored.
func (s *scanner) insideIgnoredDir(absRoot, dir string) bool {
	rel, err := filepath.Rel(absRoot, dir)
	if err != nil || rel == "." {
		return false
	}
	for _, name := range strings.Split(filepath.ToSlash(rel), "/") {
		if s.shouldIgnoreDir(name) {
			return true
		}
	}
	return false
}

// acceptedUnder lists the files below dir that accepts would collect.
func (s *scanner) acceptedUnder(absRoot, dir string) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && s.shouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.accepts(absRoot, path) {
			files = append(files, path)
		}
		return nil
	})
	return files
}

func (s *scanner) relative(absRoot, path string) string {
	rel, err := filepath.Rel(absRoot, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func (s *scanner) shouldIgnoreDir(name string) bool {
	_, ok := s.cfg.ignoreDirs[name]
	return ok
}

func (s *scanner) isSupportedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	if s.cfg.language == nil {
		return ByExtension(ext) != nil
	}
	for _, e := range s.cfg.language.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// matchesPatterns applies include then exclude patterns to a relative path.
func (s *scanner) matchesPatterns(rel string) bool {
	if len(s.cfg.include) > 0 && !matchesAny(s.cfg.include, rel) {
		return false
	}
	return !matchesAny(s.cfg.exclude, rel)
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
