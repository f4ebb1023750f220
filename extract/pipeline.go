package extract

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// ExtractFiles discovers declarations in every file selected by opts.
// Results follow scan order. A file that cannot be read or parsed gets a
// result with Error set; it never aborts the run.
func ExtractFiles(ctx context.Context, opts ExtractOptions) ([]FileResult, error) {
	opts = opts.withDefaults()

	language, err := opts.language()
	if err != nil {
		return nil, err
	}

	sc := opts.scanner(language)
	if err := sc.validate(); err != nil {
		return nil, err
	}

	var files []FileJob
	if len(opts.Files) > 0 {
		for _, f := range opts.Files {
			job, err := sc.collectSingle(f)
			if err != nil {
				return nil, err
			}
			files = append(files, job)
		}
	} else {
		files, err = sc.collect()
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return []FileResult{}, nil
	}

	results := runWorkers(ctx, files, opts.Jobs, func(ctx context.Context, job FileJob) FileResult {
		return extractFile(ctx, job, language, opts)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts.Logger.Debug().Int("files", len(results)).Msg("extraction finished")
	return results, nil
}

// runWorkers applies process to every job on at most jobs goroutines.
// Each result lands at its job's index, so output order matches input order.
func runWorkers(
	ctx context.Context,
	files []FileJob,
	jobs int,
	process func(context.Context, FileJob) FileResult,
) []FileResult {
	results := make([]FileResult, len(files))

	workerCount := jobs
	if workerCount < 1 {
		workerCount = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)
	for i, job := range files {
		g.Go(func() error {
			results[i] = process(gctx, job)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// extractFile reads and analyzes one file. A nil language picks the grammar
// from the file extension.
func extractFile(ctx context.Context, job FileJob, language Language, opts ExtractOptions) FileResult {
	if language == nil {
		language = LanguageForPath(job.AbsPath)
	}

	source, err := os.ReadFile(job.AbsPath)
	if err != nil {
		opts.Logger.Warn().Err(err).Str("file", job.DisplayPath).Msg("cannot read file")
		return FileResult{
			File:     job.DisplayPath,
			Language: language.Name(),
			Records:  []RecordView{},
			Error:    fmt.Errorf("read file: %w", err).Error(),
		}
	}

	result := Analyze(ctx, job.DisplayPath, language, source, opts.Flat)
	if result.Error != "" {
		opts.Logger.Warn().Str("file", job.DisplayPath).Str("error", result.Error).Msg("cannot parse file")
	}
	return result
}
