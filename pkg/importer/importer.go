// Package importer decodes receipt export files and reports on them.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ethpandaops/receipt-importer/pkg/common"
	"github.com/ethpandaops/receipt-importer/pkg/receipt"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// ErrNoInputFiles is returned when a directory holds no matching export files.
var ErrNoInputFiles = errors.New("no export files found")

// FileResult is the decoded content of one export file.
type FileResult struct {
	Path     string
	Batch    *receipt.Batch
	Duration time.Duration
}

// Summary totals a set of file results.
type Summary struct {
	Files        int
	Receipts     int
	Placeholders int
	Containers   int
	Bytes        int
}

// Importer decodes export files, one at a time or a directory at once.
type Importer struct {
	log     logrus.FieldLogger
	config  *Config
	decoder *receipt.Decoder
}

// New creates an importer.
func New(log logrus.FieldLogger, config *Config, receiptConfig receipt.Config) (*Importer, error) {
	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid importer config: %w", err)
	}

	decoder, err := receipt.NewDecoder(receiptConfig)
	if err != nil {
		return nil, err
	}

	return &Importer{
		log:     log.WithField("component", "importer"),
		config:  config,
		decoder: decoder,
	}, nil
}

// Import decodes path, which is either an export file or a directory of them.
// Results come back in path order. Every file is decoded before errors are
// reported, and the error of the first failing file in path order wins; no
// results are returned alongside an error.
func (i *Importer) Import(ctx context.Context, path string) ([]FileResult, error) {
	files, err := i.resolve(path)
	if err != nil {
		return nil, err
	}

	i.log.WithFields(logrus.Fields{
		"path":        path,
		"files":       len(files),
		"concurrency": i.config.Concurrency,
	}).Info("Loading receipts")

	results := make([]FileResult, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group

	g.SetLimit(i.config.Concurrency)

	for idx, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[idx] = err

				return nil
			}

			result, err := i.importFile(file)
			if err != nil {
				errs[idx] = fmt.Errorf("failed to import %s: %w", file, err)

				return nil
			}

			results[idx] = result

			return nil
		})
	}

	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (i *Importer) importFile(path string) (FileResult, error) {
	log := i.log.WithField("path", path)
	start := time.Now()

	batch, err := i.decoder.DecodeFile(path)

	duration := time.Since(start)

	if err != nil {
		common.FilesDecoded.WithLabelValues(statusFailed).Inc()
		common.DecodeDuration.WithLabelValues(statusFailed).Observe(duration.Seconds())
		common.DecodeErrors.WithLabelValues(errorType(err)).Inc()

		log.WithError(err).Error("Failed to decode receipts file")

		return FileResult{}, err
	}

	common.FilesDecoded.WithLabelValues(statusSuccess).Inc()
	common.DecodeDuration.WithLabelValues(statusSuccess).Observe(duration.Seconds())
	common.ReceiptsDecoded.Add(float64(batch.Len()))
	common.PlaceholdersSkipped.Add(float64(batch.Stats.Placeholders))
	common.ContainersFlattened.Add(float64(batch.Stats.Containers))
	common.BytesRead.Add(float64(batch.PayloadSize))

	switch batch.Root {
	case receipt.RootNone:
		log.Warn("Receipt payload is empty")
	case receipt.RootScalar:
		log.Warn("Receipt payload is not a list, no receipts decoded")
	case receipt.RootList:
		log.Debug("Decoded receipt payload as list")
	}

	if batch.TrailingBytes > 0 {
		log.WithField("trailing_bytes", batch.TrailingBytes).Warn("Ignoring bytes after receipt payload")
	}

	log.WithFields(logrus.Fields{
		"receipts":     batch.Len(),
		"format_tag":   batch.FormatTag,
		"placeholders": batch.Stats.Placeholders,
		"containers":   batch.Stats.Containers,
		"max_depth":    batch.Stats.MaxDepth,
		"duration":     duration,
	}).Info("Decoded receipts file")

	return FileResult{Path: path, Batch: batch, Duration: duration}, nil
}

// resolve expands path into the sorted list of files to decode.
func (i *Importer) resolve(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat receipts path: %w", err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts directory: %w", err)
	}

	files := make([]string, 0, len(entries))

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !i.matches(entry.Name()) {
			continue
		}

		files = append(files, filepath.Join(path, entry.Name()))
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputFiles, path)
	}

	return files, nil
}

func (i *Importer) matches(name string) bool {
	if len(i.config.Extensions) == 0 {
		return true
	}

	ext := filepath.Ext(name)

	for _, want := range i.config.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}

	return false
}

// Summarize totals results.
func Summarize(results []FileResult) Summary {
	var s Summary

	for _, r := range results {
		s.Files++
		s.Receipts += r.Batch.Len()
		s.Placeholders += r.Batch.Stats.Placeholders
		s.Containers += r.Batch.Stats.Containers
		s.Bytes += r.Batch.PayloadSize
	}

	return s
}

func errorType(err error) string {
	if !receipt.IsFormatError(err) {
		if errors.Is(err, receipt.ErrEmptyBatch) {
			return "empty_batch"
		}

		return "io"
	}

	switch {
	case errors.Is(err, receipt.ErrTruncatedInput):
		return "truncated_input"
	case errors.Is(err, receipt.ErrInvalidLengthEncoding):
		return "invalid_length_encoding"
	case errors.Is(err, receipt.ErrDecodeDepthExceeded):
		return "decode_depth_exceeded"
	default:
		return "malformed_receipt_entry"
	}
}
