package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/receipt-importer/pkg/chaindb"
)

var chaindbPath string

var chaindbCmd = &cobra.Command{
	Use:   "leveldb",
	Short: "Counts the keys of a geth LevelDB chain database.",
	Long:  `Walks a geth LevelDB chain database read-only and counts keys per schema prefix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCommon(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runWithMetrics(ctx, func(ctx context.Context) error {
			census, err := chaindb.NewWalker(log).Census(ctx, chaindbPath)
			if err != nil {
				return err
			}

			for _, class := range chaindb.Classes {
				stats := census.ByClass[class]

				log.WithFields(logrus.Fields{
					"class":       class,
					"keys":        stats.Keys,
					"value_bytes": stats.ValueBytes,
				}).Info("Key census")
			}

			log.WithField("keys", census.Total).Info("Finished leveldb census")

			return nil
		})
	},
}

func init() {
	chaindbCmd.Flags().StringVar(&chaindbPath, "path", "chaindata", "the path to the leveldb database")

	rootCmd.AddCommand(chaindbCmd)
}
