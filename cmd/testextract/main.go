package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/arjunmahishi/testextract/config"
	"github.com/arjunmahishi/testextract/extract"
	"github.com/arjunmahishi/testextract/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli.Command{
		Name:  "testextract",
		Usage: "locate test and suite declarations in JavaScript and TypeScript files",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug information to stderr",
				Sources: cli.EnvVars("TESTEXTRACT_VERBOSE"),
			},
		},
		Commands: []*cli.Command{
			extractCommand(),
			scanCommand(),
			watchCommand(),
			shapesCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		output.WriteError(err)
		os.Exit(1)
	}
}

func newLogger(cmd *cli.Command) zerolog.Logger {
	level := zerolog.WarnLevel
	if cmd.Bool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func formatFlag(value string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "format",
		Value: value,
		Usage: "output format: json, text, raw",
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "compact",
			Usage: "minimize JSON output",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colors in text output",
		},
	}
}

func newWriter(cmd *cli.Command) (*output.Writer, error) {
	return output.New(output.Config{
		Format:  output.Format(cmd.String("format")),
		Compact: cmd.Bool("compact"),
		NoColor: cmd.Bool("no-color"),
		Output:  cmd.Root().Writer,
	})
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "extract declarations from one source (stdin by default)",
		Description: "Prints five integers per declaration: depth, call start, call length,\n" +
			"name start, name length. Offsets are bytes. Unparsable input prints nothing.\n\n" +
			"Examples:\n" +
			"  echo \"test('hello', () => {})\" | testextract extract\n" +
			"  testextract extract -f app.test.tsx --format text",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "file to read instead of stdin",
			},
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "grammar: " + strings.Join(extract.List(), ", ") + " (default: by extension, else typescript)",
				Sources: cli.EnvVars("TESTEXTRACT_LANGUAGE"),
			},
			formatFlag(string(output.FormatRaw)),
		}, outputFlags()...),
		Action: runExtract,
	}
}

func runExtract(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("file")

	var (
		source []byte
		err    error
	)
	if name != "" {
		source, err = os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
	} else {
		source, err = io.ReadAll(cmd.Root().Reader)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		name = "<stdin>"
	}

	language, err := resolveLanguage(cmd.String("language"), cmd.String("file"))
	if err != nil {
		return err
	}

	w, err := newWriter(cmd)
	if err != nil {
		return err
	}

	result := extract.Analyze(ctx, name, language, source, true)
	if result.Error != "" {
		logger := newLogger(cmd)
		logger.Debug().Str("file", name).Str("error", result.Error).Msg("no declarations: source does not parse")
	}

	if output.Format(cmd.String("format")) == output.FormatRaw {
		return w.WriteFlat(result.Flat)
	}
	return w.WriteResult(result)
}

func resolveLanguage(name, file string) (extract.Language, error) {
	if name != "" {
		language := extract.Get(name)
		if language == nil {
			return nil, errors.New(name + " language not registered")
		}
		return language, nil
	}
	if file != "" {
		return extract.LanguageForPath(file), nil
	}
	return extract.TypeScript(), nil
}

func scanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "path",
			Value: ".",
			Usage: "root path to scan",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "project file (default: <path>/" + config.FileName + " when present)",
			Sources: cli.EnvVars("TESTEXTRACT_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "language",
			Aliases: []string{"l"},
			Usage:   "force a grammar: " + strings.Join(extract.List(), ", "),
			Sources: cli.EnvVars("TESTEXTRACT_LANGUAGE"),
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "doublestar pattern of files to keep (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "doublestar pattern of files to drop (repeatable)",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Value:   runtime.NumCPU(),
			Usage:   "number of parallel workers",
			Sources: cli.EnvVars("TESTEXTRACT_JOBS"),
		},
		&cli.Int64Flag{
			Name:    "max-bytes",
			Value:   extract.DefaultMaxBytes,
			Usage:   "skip files larger than this",
			Sources: cli.EnvVars("TESTEXTRACT_MAX_BYTES"),
		},
		&cli.BoolFlag{
			Name:  "flat",
			Usage: "include the flat integer encoding in JSON output",
		},
	}
}

// buildOptions merges explicitly set flags with the project file.
// Flags win; unset values fall through to the file, then to defaults.
func buildOptions(cmd *cli.Command, logger *zerolog.Logger) (extract.ExtractOptions, error) {
	opts := extract.ExtractOptions{
		Path:    cmd.String("path"),
		Include: cmd.StringSlice("include"),
		Exclude: cmd.StringSlice("exclude"),
		Flat:    cmd.Bool("flat"),
		Logger:  logger,
	}
	if cmd.IsSet("language") {
		opts.Language = cmd.String("language")
	}
	if cmd.IsSet("jobs") {
		opts.Jobs = cmd.Int("jobs")
	}
	if cmd.IsSet("max-bytes") {
		opts.MaxBytes = cmd.Int64("max-bytes")
	}

	var (
		cfg *config.Config
		err error
	)
	if path := cmd.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOptional(opts.Path)
	}
	if err != nil {
		return opts, err
	}
	cfg.Apply(&opts)

	return opts, nil
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "extract declarations from a directory tree or a list of files",
		ArgsUsage: "[file...]",
		Flags:     append(append(scanFlags(), formatFlag(string(output.FormatJSON))), outputFlags()...),
		Action:    runScan,
	}
}

func runScan(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	opts, err := buildOptions(cmd, &logger)
	if err != nil {
		return err
	}
	opts.Files = cmd.Args().Slice()

	w, err := newWriter(cmd)
	if err != nil {
		return err
	}

	results, err := extract.ExtractFiles(ctx, opts)
	if err != nil {
		return err
	}

	return w.WriteResults(results)
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "re-extract files as they change, one result per line",
		Flags: append(append(scanFlags(), formatFlag(string(output.FormatJSON))), &cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colors in text output",
		}),
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	opts, err := buildOptions(cmd, &logger)
	if err != nil {
		return err
	}

	w, err := output.New(output.Config{
		Format:  output.Format(cmd.String("format")),
		Compact: true,
		NoColor: cmd.Bool("no-color"),
		Output:  cmd.Root().Writer,
	})
	if err != nil {
		return err
	}

	return extract.Watch(ctx, opts, func(result extract.FileResult) {
		if err := w.WriteResult(result); err != nil {
			logger.Error().Err(err).Str("file", result.File).Msg("cannot write result")
		}
	})
}
