package extract

import (
	"errors"
	"runtime"

	"github.com/rs/zerolog"
)

// DefaultMaxBytes is the file size limit applied when none is configured.
const DefaultMaxBytes = 2 * 1024 * 1024

// ExtractOptions configures ExtractFiles and Watch.
type ExtractOptions struct {
	// Path is the root directory to scan for files.
	// If empty, current directory is used.
	Path string

	// Files lists individual files to extract.
	// If set, the directory walk is skipped; Path is only used to shorten
	// display paths.
	Files []string

	// Language forces a grammar (e.g., "tsx") for every file.
	// If empty, the grammar is picked by file extension.
	Language string

	// Include keeps only files whose slash-separated path relative to Path
	// matches one of these doublestar patterns. Empty keeps everything.
	Include []string

	// Exclude drops files matching any of these doublestar patterns.
	Exclude []string

	// Jobs is the number of parallel workers.
	// If 0, defaults to number of CPUs.
	Jobs int

	// MaxBytes skips files larger than this size.
	// If 0, DefaultMaxBytes is used.
	MaxBytes int64

	// Flat adds the flat integer encoding to each result.
	Flat bool

	// Logger receives diagnostics. If nil, nothing is logged.
	Logger *zerolog.Logger
}

func (o ExtractOptions) withDefaults() ExtractOptions {
	if o.Path == "" {
		o.Path = "."
	}
	if o.Jobs == 0 {
		o.Jobs = runtime.NumCPU()
	}
	if o.MaxBytes == 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

// language resolves the forced grammar, or nil when none is set.
func (o ExtractOptions) language() (Language, error) {
	if o.Language == "" {
		return nil, nil
	}
	language := Get(o.Language)
	if language == nil {
		return nil, errors.New(o.Language + " language not registered")
	}
	return language, nil
}

func (o ExtractOptions) scanner(language Language) *scanner {
	return newScanner(scannerConfig{
		root:     o.Path,
		language: language,
		include:  o.Include,
		exclude:  o.Exclude,
		maxBytes: o.MaxBytes,
		logger:   o.Logger,
	})
}
