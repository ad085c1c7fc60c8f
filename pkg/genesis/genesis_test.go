package genesis

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xsequence/ethkit/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGenesis = `{
  "config": {
    "ChainName": "optimism-goerli",
    "chainId": 420,
    "homesteadBlock": 0,
    "eip150Block": 0,
    "eip150Hash": "0x0000000000000000000000000000000000000000000000000000000000000000",
    "eip155Block": 0,
    "eip158Block": 0,
    "byzantiumBlock": 0,
    "constantinopleBlock": 0,
    "petersburgBlock": 0,
    "istanbulBlock": 0,
    "muirGlacierBlock": 0,
    "berlinBlock": 3654000,
    "londonBlock": 4061224,
    "arrowGlacierBlock": 4061224,
    "grayGlacierBlock": 4061224,
    "mergeNetsplitBlock": 4061224,
    "bedrockBlock": 4061224,
    "terminalTotalDifficulty": 0,
    "terminalTotalDifficultyPassed": true,
    "optimism": {
      "eip1559Elasticity": 10,
      "eip1559Denominator": 50
    }
  },
  "difficulty": "0x1",
  "gasLimit": "0xe4e1c0",
  "extradata": "0x",
  "alloc": {
    "4200000000000000000000000000000000000006": {
      "balance": "0x10",
      "code": "0x6080",
      "storage": {
        "0x0000000000000000000000000000000000000000000000000000000000000000": "0x0000000000000000000000000000000000000000000000000000000000000001"
      }
    },
    "0x4200000000000000000000000000000000000000": {
      "balance": "100",
      "nonce": "0x1"
    }
  }
}`

func writeGenesis(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "genesis.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	g, err := Load(writeGenesis(t, testGenesis))
	require.NoError(t, err)

	assert.Equal(t, "optimism-goerli", g.Config.ChainName)
	assert.Equal(t, uint64(420), g.Config.ChainID)
	assert.Equal(t, uint64(4061224), g.Config.BedrockBlock)
	assert.Equal(t, uint64(50), g.Config.Optimism.EIP1559Denominator)
	assert.True(t, g.Config.TerminalTotalDifficultyPassed)
	assert.Equal(t, "0xe4e1c0", g.GasLimit)
	assert.Len(t, g.Alloc, 2)

	weth := g.Alloc["4200000000000000000000000000000000000006"]
	assert.Equal(t, []byte{0x60, 0x80}, []byte(weth.Code))
	assert.Equal(t, common.HexToHash("0x01"), weth.Storage[common.Hash{}])

	assert.Equal(t, uint64(1), uint64(g.Alloc["0x4200000000000000000000000000000000000000"].Nonce))

	total, err := g.TotalBalance()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(116), total)

	assert.Equal(t, []common.Address{
		common.HexToAddress("0x4200000000000000000000000000000000000000"),
		common.HexToAddress("0x4200000000000000000000000000000000000006"),
	}, g.Accounts())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{
			name:    "missing chain id",
			content: `{"config": {}, "alloc": {}}`,
			err:     ErrMissingChainID,
		},
		{
			name:    "bad address",
			content: `{"config": {"chainId": 10}, "alloc": {"0x1234": {"balance": "1"}}}`,
			err:     ErrInvalidAddress,
		},
		{
			name:    "bad balance",
			content: `{"config": {"chainId": 10}, "alloc": {"0x4200000000000000000000000000000000000000": {"balance": "lots"}}}`,
			err:     ErrInvalidBalance,
		},
		{
			name:    "negative balance",
			content: `{"config": {"chainId": 10}, "alloc": {"0x4200000000000000000000000000000000000000": {"balance": "-1"}}}`,
			err:     ErrInvalidBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeGenesis(t, tt.content))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoad_NotJSON(t *testing.T) {
	_, err := Load(writeGenesis(t, "not json"))
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
