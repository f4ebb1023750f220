// Package output provides output formatting for testextract.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/arjunmahishi/testextract/extract"
)

// Format selects how results are rendered.
type Format string

const (
	// FormatJSON writes results as JSON.
	FormatJSON Format = "json"
	// FormatText writes an indented, colored outline.
	FormatText Format = "text"
	// FormatRaw writes the flat integer encoding.
	FormatRaw Format = "raw"
)

// Writer handles structured output.
type Writer struct {
	out     io.Writer
	format  Format
	encoder *json.Encoder

	file  *color.Color
	suite *color.Color
	test  *color.Color
	fail  *color.Color
}

// Config holds output configuration.
type Config struct {
	Format  Format
	Compact bool
	NoColor bool
	Output  io.Writer
}

// New creates a new output Writer.
func New(cfg Config) (*Writer, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	switch cfg.Format {
	case FormatJSON, FormatText, FormatRaw:
	default:
		return nil, errors.New("unknown format " + string(cfg.Format))
	}

	enc := json.NewEncoder(cfg.Output)
	enc.SetEscapeHTML(false)
	if !cfg.Compact {
		enc.SetIndent("", "  ")
	}

	w := &Writer{
		out:     cfg.Output,
		format:  cfg.Format,
		encoder: enc,
		file:    color.New(color.Bold),
		suite:   color.New(color.FgCyan),
		test:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
	}
	if cfg.NoColor {
		for _, c := range []*color.Color{w.file, w.suite, w.test, w.fail} {
			c.DisableColor()
		}
	}
	return w, nil
}

// Write outputs a value as JSON.
func (w *Writer) Write(v any) error {
	return w.encoder.Encode(v)
}

// WriteResults renders per-file results in the configured format.
func (w *Writer) WriteResults(results []extract.FileResult) error {
	switch w.format {
	case FormatText:
		for _, r := range results {
			if err := w.writeText(r); err != nil {
				return err
			}
		}
		return nil
	case FormatRaw:
		for _, r := range results {
			if _, err := fmt.Fprintf(w.out, "%s: %s\n", r.File, joinInts(flatOf(r))); err != nil {
				return err
			}
		}
		return nil
	default:
		return w.Write(results)
	}
}

// WriteResult renders a single result. JSON is written as one object so
// streams of results stay line-delimited in compact mode.
func (w *Writer) WriteResult(r extract.FileResult) error {
	switch w.format {
	case FormatText:
		return w.writeText(r)
	case FormatRaw:
		_, err := fmt.Fprintf(w.out, "%s: %s\n", r.File, joinInts(flatOf(r)))
		return err
	default:
		return w.Write(r)
	}
}

// WriteFlat writes the flat integer encoding of one source. Outside JSON an
// empty encoding writes nothing.
func (w *Writer) WriteFlat(flat []uint32) error {
	if w.format == FormatJSON {
		return w.Write(flat)
	}
	if len(flat) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w.out, joinInts(flat))
	return err
}

func (w *Writer) writeText(r extract.FileResult) error {
	if _, err := w.file.Fprintln(w.out, r.File); err != nil {
		return err
	}
	if r.Error != "" {
		_, err := w.fail.Fprintf(w.out, "  error: %s\n", r.Error)
		return err
	}
	for _, rec := range r.Records {
		indent := strings.Repeat("  ", int(rec.Depth)+1)
		c := w.test
		if rec.Kind == extract.KindSuite {
			c = w.suite
		}
		if _, err := fmt.Fprint(w.out, indent); err != nil {
			return err
		}
		if _, err := c.Fprintf(w.out, "%s %q", rec.Kind, rec.Name); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w.out, " (%d:%d)\n", rec.Line, rec.Column); err != nil {
			return err
		}
	}
	return nil
}

// flatOf rebuilds the flat encoding from a result's records.
func flatOf(r extract.FileResult) []uint32 {
	if r.Flat != nil {
		return r.Flat
	}
	flat := make([]uint32, 0, extract.RecordWidth*len(r.Records))
	for _, rec := range r.Records {
		flat = append(flat, rec.Depth, rec.Call.Start, rec.Call.Length, rec.NameSpan.Start, rec.NameSpan.Length)
	}
	return flat
}

func joinInts(values []uint32) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, " ")
}

// WriteError writes an error message to stderr.
func WriteError(err error) {
	enc := json.NewEncoder(os.Stderr)
	enc.Encode(map[string]string{
		"error": err.Error(),
	})
}
