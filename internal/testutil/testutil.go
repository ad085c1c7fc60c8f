// Package testutil provides test helper utilities for unit tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xsequence/ethkit/go-ethereum/rlp"
	"github.com/syndtr/goleveldb/leveldb"
)

// ExportFormatTag is the leading byte written to generated export files.
const ExportFormatTag = 0x01

// ReceiptFixture holds the field values of one encoded receipt. Numeric
// fields use uint64 so fixtures stay readable; the encoding is the same
// canonical big-endian form the decoder expects for wider integers.
type ReceiptFixture struct {
	Type              uint8
	PostState         []byte
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             []byte
	Logs              interface{}
	TxHash            [32]byte
	ContractAddress   string
	GasUsed           uint64
	BlockHash         [32]byte
	BlockNumber       uint64
	TransactionIndex  uint64
	L1GasPrice        uint64
	L1GasUsed         uint64
	L1Fee             uint64
	L1FeeScalar       string
}

// NewReceiptFixture returns a fixture whose hashes and counters are derived
// from n, so fixtures built from different n are distinguishable.
func NewReceiptFixture(n int) ReceiptFixture {
	var txHash, blockHash [32]byte

	txHash[0] = 0xaa
	txHash[31] = byte(n)
	blockHash[0] = 0xbb
	blockHash[31] = byte(n / 4)

	var topic [32]byte

	topic[31] = byte(n)

	return ReceiptFixture{
		Type:              0,
		Status:            1,
		CumulativeGasUsed: 21000 * uint64(n+1),
		Bloom:             make([]byte, 256),
		Logs: []interface{}{
			[]interface{}{
				make([]byte, 20),
				[]interface{}{topic},
				[]byte{0x01, 0x02},
			},
		},
		TxHash:           txHash,
		ContractAddress:  "",
		GasUsed:          21000,
		BlockHash:        blockHash,
		BlockNumber:      uint64(1000 + n/4),
		TransactionIndex: uint64(n % 4),
		L1GasPrice:       30_000_000_000,
		L1GasUsed:        1600,
		L1Fee:            48_000_000_000_000,
		L1FeeScalar:      "0.684",
	}
}

// Fields returns the sixteen positional receipt fields ready for rlp encoding.
func (f ReceiptFixture) Fields() []interface{} {
	logs := f.Logs
	if logs == nil {
		logs = []interface{}{}
	}

	return []interface{}{
		uint64(f.Type),
		nonNil(f.PostState),
		f.Status,
		f.CumulativeGasUsed,
		nonNil(f.Bloom),
		logs,
		f.TxHash,
		f.ContractAddress,
		f.GasUsed,
		f.BlockHash,
		f.BlockNumber,
		f.TransactionIndex,
		f.L1GasPrice,
		f.L1GasUsed,
		f.L1Fee,
		f.L1FeeScalar,
	}
}

// Wrap nests v inside depth singleton lists.
func Wrap(v interface{}, depth int) interface{} {
	for i := 0; i < depth; i++ {
		v = []interface{}{v}
	}

	return v
}

// EncodeRLP encodes v and fails the test on error.
func EncodeRLP(t *testing.T, v interface{}) []byte {
	t.Helper()

	b, err := rlp.EncodeToBytes(v)
	if err != nil {
		t.Fatalf("failed to rlp encode fixture: %v", err)
	}

	return b
}

// WriteExport writes payload prefixed with the format tag into a fresh
// temporary directory and returns the file path.
func WriteExport(t *testing.T, name string, payload []byte) string {
	t.Helper()

	return WriteExportIn(t, t.TempDir(), name, payload)
}

// WriteExportIn writes payload prefixed with the format tag into dir.
func WriteExportIn(t *testing.T, dir, name string, payload []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	data := append([]byte{ExportFormatTag}, payload...)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write export file: %v", err)
	}

	return path
}

// NewLevelDB creates a closed leveldb database holding entries and returns its path.
func NewLevelDB(t *testing.T, entries map[string][]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chaindata")

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		t.Fatalf("failed to open leveldb: %v", err)
	}

	for k, v := range entries {
		if err := db.Put([]byte(k), v, nil); err != nil {
			t.Fatalf("failed to put %q: %v", k, err)
		}
	}

	if err := db.Close(); err != nil {
		t.Fatalf("failed to close leveldb: %v", err)
	}

	return path
}

// ReceiptList builds an rlp value holding n distinct fixtures.
func ReceiptList(n int) []interface{} {
	out := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, NewReceiptFixture(i).Fields())
	}

	return out
}

// Name returns a stable export file name for index i.
func Name(i int) string {
	return fmt.Sprintf("receipts-%03d.rlp", i)
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}

	return b
}
