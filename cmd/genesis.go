package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ethpandaops/receipt-importer/internal/version"
	"github.com/ethpandaops/receipt-importer/pkg/common"
	"github.com/ethpandaops/receipt-importer/pkg/genesis"
)

const accountPreview = 10

var genesisFlags struct {
	path  string
	print bool
}

var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Loads and validates a genesis file.",
	Long:  `Loads and validates a genesis file and reports its chain config and alloc.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initCommon(); err != nil {
			return err
		}

		log.WithField("version", version.GetRelease()).Info("Loading genesis file")

		g, err := genesis.Load(genesisFlags.path)
		if err != nil {
			return err
		}

		total, err := g.TotalBalance()
		if err != nil {
			return err
		}

		common.GenesisAllocAccounts.Set(float64(len(g.Alloc)))

		log.WithFields(logrus.Fields{
			"path":          genesisFlags.path,
			"chain_name":    g.Config.ChainName,
			"chain_id":      g.Config.ChainID,
			"bedrock_block": g.Config.BedrockBlock,
			"accounts":      len(g.Alloc),
			"total_balance": total.String(),
		}).Info("Genesis file loaded")

		accounts := g.Accounts()
		if len(accounts) > accountPreview {
			accounts = accounts[:accountPreview]
		}

		for _, addr := range accounts {
			log.WithField("address", addr.Hex()).Debug("Genesis account")
		}

		if !genesisFlags.print {
			return nil
		}

		out, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode genesis: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		return nil
	},
}

func init() {
	genesisCmd.Flags().StringVar(&genesisFlags.path, "path", "genesis.json", "the path to the genesis file")
	genesisCmd.Flags().BoolVar(&genesisFlags.print, "print", false, "print the parsed genesis")

	rootCmd.AddCommand(genesisCmd)
}
