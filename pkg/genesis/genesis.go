// Package genesis loads op-erigon style genesis files.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"sort"

	"github.com/0xsequence/ethkit/go-ethereum/common"
	"github.com/0xsequence/ethkit/go-ethereum/common/hexutil"
)

var (
	// ErrMissingChainID indicates the chain config has no chain id.
	ErrMissingChainID = errors.New("chain id is required")

	// ErrInvalidAddress indicates an alloc key that is not a hex address.
	ErrInvalidAddress = errors.New("invalid alloc address")

	// ErrInvalidBalance indicates an alloc balance that is not a non-negative integer.
	ErrInvalidBalance = errors.New("invalid alloc balance")
)

// Optimism holds the EIP-1559 parameters of an OP stack chain.
type Optimism struct {
	EIP1559Elasticity  uint64 `json:"eip1559Elasticity"`
	EIP1559Denominator uint64 `json:"eip1559Denominator"`
}

// ChainConfig is the fork schedule of the chain.
type ChainConfig struct {
	ChainName                     string   `json:"ChainName"`
	ChainID                       uint64   `json:"chainId"`
	HomesteadBlock                uint64   `json:"homesteadBlock"`
	EIP150Block                   uint64   `json:"eip150Block"`
	EIP150Hash                    string   `json:"eip150Hash"`
	EIP155Block                   uint64   `json:"eip155Block"`
	EIP158Block                   uint64   `json:"eip158Block"`
	ByzantiumBlock                uint64   `json:"byzantiumBlock"`
	ConstantinopleBlock           uint64   `json:"constantinopleBlock"`
	PetersburgBlock               uint64   `json:"petersburgBlock"`
	IstanbulBlock                 uint64   `json:"istanbulBlock"`
	MuirGlacierBlock              uint64   `json:"muirGlacierBlock"`
	BerlinBlock                   uint64   `json:"berlinBlock"`
	LondonBlock                   uint64   `json:"londonBlock"`
	ArrowGlacierBlock             uint64   `json:"arrowGlacierBlock"`
	GrayGlacierBlock              uint64   `json:"grayGlacierBlock"`
	MergeNetsplitBlock            uint64   `json:"mergeNetsplitBlock"`
	BedrockBlock                  uint64   `json:"bedrockBlock"`
	TerminalTotalDifficulty       *big.Int `json:"terminalTotalDifficulty"`
	TerminalTotalDifficultyPassed bool     `json:"terminalTotalDifficultyPassed"`
	Optimism                      Optimism `json:"optimism"`
}

// Account is the initial state of one allocated account.
type Account struct {
	// Balance is a decimal or 0x-prefixed hex integer.
	Balance string                      `json:"balance"`
	Nonce   hexutil.Uint64              `json:"nonce,omitempty"`
	Code    hexutil.Bytes               `json:"code,omitempty"`
	Storage map[common.Hash]common.Hash `json:"storage,omitempty"`
}

// Genesis is the genesis file.
type Genesis struct {
	Config     ChainConfig        `json:"config"`
	Difficulty string             `json:"difficulty"`
	GasLimit   string             `json:"gasLimit"`
	ExtraData  string             `json:"extradata"`
	Alloc      map[string]Account `json:"alloc"`
}

// Load reads and validates the genesis file at path.
func Load(path string) (*Genesis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open genesis file: %w", err)
	}
	defer f.Close()

	var g Genesis

	if err := json.NewDecoder(f).Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to decode genesis file: %w", err)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis file: %w", err)
	}

	return &g, nil
}

// Validate checks the chain id and every alloc entry.
func (g *Genesis) Validate() error {
	if g.Config.ChainID == 0 {
		return ErrMissingChainID
	}

	for key, account := range g.Alloc {
		if !common.IsHexAddress(key) {
			return fmt.Errorf("%w: %q", ErrInvalidAddress, key)
		}

		if _, err := parseBalance(account.Balance); err != nil {
			return fmt.Errorf("account %s: %w", key, err)
		}
	}

	return nil
}

// Accounts returns the allocated addresses in ascending order.
func (g *Genesis) Accounts() []common.Address {
	out := make([]common.Address, 0, len(g.Alloc))
	for key := range g.Alloc {
		out = append(out, common.HexToAddress(key))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Hex() < out[j].Hex()
	})

	return out
}

// TotalBalance sums the balances of every allocated account.
func (g *Genesis) TotalBalance() (*big.Int, error) {
	total := new(big.Int)

	for key, account := range g.Alloc {
		balance, err := parseBalance(account.Balance)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", key, err)
		}

		total.Add(total, balance)
	}

	return total, nil
}

func parseBalance(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}

	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBalance, s)
	}

	return v, nil
}
