package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long Watch waits after the last change before
// re-extracting.
const watchDebounce = 200 * time.Millisecond

// Watch re-extracts supported files under opts.Path whenever they change and
// passes each result to emit. A removed file is reported with no records.
// emit is called from a single goroutine. Watch blocks until ctx is done.
func Watch(ctx context.Context, opts ExtractOptions, emit func(FileResult)) error {
	opts = opts.withDefaults()

	language, err := opts.language()
	if err != nil {
		return err
	}

	sc := opts.scanner(language)
	if err := sc.validate(); err != nil {
		return err
	}

	absRoot, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchRecursive(watcher, sc, absRoot, absRoot); err != nil {
		return fmt.Errorf("watch %s: %w", absRoot, err)
	}
	opts.Logger.Debug().Str("root", absRoot).Msg("watcher started")

	flush := func(pending map[string]struct{}) {
		for path := range pending {
			info, err := os.Stat(path)
			if err != nil {
				if sc.accepts(absRoot, path) {
					emit(removedResult(sc, absRoot, path, language))
				}
				continue
			}
			if info.IsDir() {
				if sc.insideIgnoredDir(absRoot, path) {
					continue
				}
				if err := addWatchRecursive(watcher, sc, absRoot, path); err != nil {
					opts.Logger.Warn().Err(err).Str("dir", path).Msg("cannot watch directory")
				}
				// Files that arrived with the directory produce no events
				// of their own.
				for _, file := range sc.acceptedUnder(absRoot, path) {
					job := FileJob{AbsPath: file, DisplayPath: sc.relative(absRoot, file)}
					emit(extractFile(ctx, job, language, opts))
				}
				continue
			}
			if !sc.accepts(absRoot, path) {
				continue
			}
			job := FileJob{AbsPath: path, DisplayPath: sc.relative(absRoot, path)}
			emit(extractFile(ctx, job, language, opts))
		}
	}

	pending := map[string]struct{}{}
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			pending[event.Name] = struct{}{}
			debounce = time.After(watchDebounce)
		case <-debounce:
			debounce = nil
			flush(pending)
			pending = map[string]struct{}{}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Error().Err(err).Msg("watcher error")
		}
	}
}

func removedResult(sc *scanner, absRoot, path string, language Language) FileResult {
	if language == nil {
		language = LanguageForPath(path)
	}
	return FileResult{
		File:     sc.relative(absRoot, path),
		Language: language.Name(),
		Records:  []RecordView{},
	}
}

// addWatchRecursive adds dir and all its non-ignored subdirectories. Only the
// watch root itself is exempt from the ignore list.
func addWatchRecursive(watcher *fsnotify.Watcher, sc *scanner, absRoot, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != absRoot && sc.shouldIgnoreDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
