package receipt

import (
	"encoding/json"

	"github.com/0xsequence/ethkit/go-ethereum/common"
	"github.com/0xsequence/ethkit/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// receiptJSON mirrors the field names used by the exporter.
type receiptJSON struct {
	Type              hexutil.Uint64 `json:"type"`
	PostState         hexutil.Bytes  `json:"root"`
	Status            hexutil.Uint64 `json:"status"`
	CumulativeGasUsed hexutil.Uint64 `json:"cumulativeGasUsed"`
	Bloom             hexutil.Bytes  `json:"logsBloom"`
	Logs              hexutil.Bytes  `json:"logs"`
	TxHash            common.Hash    `json:"transactionHash"`
	ContractAddress   string         `json:"contractAddress"`
	GasUsed           hexutil.Uint64 `json:"gasUsed"`
	BlockHash         common.Hash    `json:"blockHash"`
	BlockNumber       *hexutil.Big   `json:"blockNumber"`
	TransactionIndex  hexutil.Uint64 `json:"transactionIndex"`
	L1GasPrice        *hexutil.Big   `json:"l1GasPrice"`
	L1GasUsed         *hexutil.Big   `json:"l1GasUsed"`
	L1Fee             *hexutil.Big   `json:"l1Fee"`
	L1FeeScalar       string         `json:"l1FeeScalar"`
}

// MarshalJSON implements json.Marshaler.
func (r Receipt) MarshalJSON() ([]byte, error) {
	return json.Marshal(receiptJSON{
		Type:              hexutil.Uint64(r.Type),
		PostState:         r.PostState,
		Status:            hexutil.Uint64(r.Status),
		CumulativeGasUsed: hexutil.Uint64(r.CumulativeGasUsed),
		Bloom:             r.Bloom,
		Logs:              r.Logs,
		TxHash:            r.TxHash,
		ContractAddress:   r.ContractAddress,
		GasUsed:           hexutil.Uint64(r.GasUsed),
		BlockHash:         r.BlockHash,
		BlockNumber:       toBig(&r.BlockNumber),
		TransactionIndex:  hexutil.Uint64(r.TransactionIndex),
		L1GasPrice:        toBig(&r.L1GasPrice),
		L1GasUsed:         toBig(&r.L1GasUsed),
		L1Fee:             toBig(&r.L1Fee),
		L1FeeScalar:       r.L1FeeScalar,
	})
}

func toBig(v *uint256.Int) *hexutil.Big {
	return (*hexutil.Big)(v.ToBig())
}
