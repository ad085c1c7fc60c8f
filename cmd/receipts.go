package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/receipt-importer/pkg/importer"
)

var receiptsFlags struct {
	path            string
	dump            string
	workers         int
	maxDepth        int
	concurrency     int
	requireNonEmpty bool
}

var receiptsCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Decodes a receipts export file or directory.",
	Long: `Decodes a receipts export file, or every export file in a directory,
and reports how many receipts each holds. With --dump the decoded receipts are
written as JSON lines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCommon(); err != nil {
			return err
		}

		applyReceiptsFlags(cmd)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runWithMetrics(ctx, func(ctx context.Context) error {
			return runReceipts(ctx, cmd.OutOrStdout())
		})
	},
}

func init() {
	flags := receiptsCmd.Flags()
	flags.StringVar(&receiptsFlags.path, "path", "data/", "the path to the receipts export file or directory")
	flags.StringVar(&receiptsFlags.dump, "dump", "", "write decoded receipts as JSON lines to this file, - for stdout")
	flags.IntVar(&receiptsFlags.workers, "workers", 0, "goroutines flattening top-level entries of one file, 0 or 1 decodes serially")
	flags.IntVar(&receiptsFlags.maxDepth, "max-depth", 0, "deepest container level a receipt may be nested at, 0 selects the default")
	flags.IntVar(&receiptsFlags.concurrency, "concurrency", 0, "number of files decoded at once, 0 selects the default")
	flags.BoolVar(&receiptsFlags.requireNonEmpty, "require-non-empty", false, "fail files that hold no receipts")

	rootCmd.AddCommand(receiptsCmd)
}

// applyReceiptsFlags overrides config values with explicitly set flags.
func applyReceiptsFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	if flags.Changed("workers") {
		cfg.Receipts.Workers = receiptsFlags.workers
	}

	if flags.Changed("max-depth") {
		cfg.Receipts.MaxDepth = receiptsFlags.maxDepth
	}

	if flags.Changed("concurrency") {
		cfg.Importer.Concurrency = receiptsFlags.concurrency
	}

	if flags.Changed("require-non-empty") {
		cfg.Receipts.RequireNonEmpty = receiptsFlags.requireNonEmpty
	}
}

func runReceipts(ctx context.Context, stdout io.Writer) error {
	imp, err := importer.New(log, &cfg.Importer, cfg.Receipts)
	if err != nil {
		return err
	}

	results, err := imp.Import(ctx, receiptsFlags.path)
	if err != nil {
		return err
	}

	summary := importer.Summarize(results)

	log.WithFields(logrus.Fields{
		"files":        summary.Files,
		"receipts":     summary.Receipts,
		"placeholders": summary.Placeholders,
		"containers":   summary.Containers,
		"bytes":        summary.Bytes,
	}).Info("Got receipts")

	if receiptsFlags.dump == "" {
		return nil
	}

	return dumpReceipts(results, stdout)
}

func dumpReceipts(results []importer.FileResult, stdout io.Writer) error {
	if receiptsFlags.dump == "-" {
		return writeDump(results, stdout)
	}

	f, err := os.Create(receiptsFlags.dump)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}

	if err := writeDump(results, f); err != nil {
		_ = f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close dump file: %w", err)
	}

	return nil
}

func writeDump(results []importer.FileResult, w io.Writer) error {
	n, err := importer.Dump(w, results)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"receipts": n,
		"output":   receiptsFlags.dump,
	}).Info("Dumped receipts")

	return nil
}
