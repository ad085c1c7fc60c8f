package receipt

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/0xsequence/ethkit/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ethpandaops/receipt-importer/pkg/rlpitem"
)

// fieldCount is the number of positional fields in an encoded receipt.
const fieldCount = 16

const logsField = 5

var fieldNames = [fieldCount]string{
	"type",
	"post_state",
	"status",
	"cumulative_gas_used",
	"bloom",
	"logs",
	"tx_hash",
	"contract_address",
	"gas_used",
	"block_hash",
	"block_number",
	"transaction_index",
	"l1_gas_price",
	"l1_gas_used",
	"l1_fee",
	"l1_fee_scalar",
}

// Receipt is a transaction receipt as written by the op-erigon state export.
// Fields are listed in their encoded order. Logs holds the raw encoding of the
// logs field and is not decoded further.
type Receipt struct {
	Type              uint8
	PostState         []byte
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             []byte
	Logs              []byte
	TxHash            common.Hash
	ContractAddress   string
	GasUsed           uint64
	BlockHash         common.Hash
	BlockNumber       uint256.Int
	TransactionIndex  uint64
	L1GasPrice        uint256.Int
	L1GasUsed         uint256.Int
	L1Fee             uint256.Int
	L1FeeScalar       string
}

// decodeReceipt attempts a direct decode of item as a single receipt.
// errNotAList is returned for scalars; any other error means item is a list
// that does not have the shape of a receipt.
func decodeReceipt(item rlpitem.Item) (Receipt, error) {
	list, ok := item.(rlpitem.List)
	if !ok {
		return Receipt{}, errNotAList
	}

	if list.Len() != fieldCount {
		return Receipt{}, fmt.Errorf("%w: got %d, want %d", errFieldCount, list.Len(), fieldCount)
	}

	var r Receipt

	d := fieldDecoder{list: list}

	r.Type = d.uint8(0)
	r.PostState = d.bytes(1)
	r.Status = d.uint64(2)
	r.CumulativeGasUsed = d.uint64(3)
	r.Bloom = d.bytes(4)
	r.Logs = bytes.Clone(list.At(logsField).Raw())
	r.TxHash = d.hash(6)
	r.ContractAddress = d.string(7)
	r.GasUsed = d.uint64(8)
	r.BlockHash = d.hash(9)
	d.uint256(10, &r.BlockNumber)
	r.TransactionIndex = d.uint64(11)
	d.uint256(12, &r.L1GasPrice)
	d.uint256(13, &r.L1GasUsed)
	d.uint256(14, &r.L1Fee)
	r.L1FeeScalar = d.string(15)

	if d.err != nil {
		return Receipt{}, d.err
	}

	return r, nil
}

// fieldDecoder reads positional scalar fields from a list. The first failure
// is kept and every later read becomes a no-op.
type fieldDecoder struct {
	list rlpitem.List
	err  error
}

func (d *fieldDecoder) fail(i int, err error) {
	if d.err == nil {
		d.err = &FieldError{Index: i, Name: fieldNames[i], Err: err}
	}
}

func (d *fieldDecoder) scalar(i int) ([]byte, bool) {
	if d.err != nil {
		return nil, false
	}

	s, ok := d.list.At(i).(rlpitem.Scalar)
	if !ok {
		d.fail(i, errExpectedScalar)

		return nil, false
	}

	return s.Bytes(), true
}

func (d *fieldDecoder) bytes(i int) []byte {
	b, ok := d.scalar(i)
	if !ok {
		return nil
	}

	return bytes.Clone(b)
}

func (d *fieldDecoder) string(i int) string {
	b, ok := d.scalar(i)
	if !ok {
		return ""
	}

	if !utf8.Valid(b) {
		d.fail(i, errInvalidUTF8)

		return ""
	}

	return string(b)
}

func (d *fieldDecoder) hash(i int) common.Hash {
	b, ok := d.scalar(i)
	if !ok {
		return common.Hash{}
	}

	if len(b) != common.HashLength {
		d.fail(i, fmt.Errorf("%w: got %d bytes, want %d", errHashSize, len(b), common.HashLength))

		return common.Hash{}
	}

	return common.BytesToHash(b)
}

func (d *fieldDecoder) uint8(i int) uint8 {
	b, ok := d.scalar(i)
	if !ok {
		return 0
	}

	switch len(b) {
	case 0:
		return 0
	case 1:
		return b[0]
	default:
		d.fail(i, fmt.Errorf("%w: %d bytes for uint8", errTooLarge, len(b)))

		return 0
	}
}

func (d *fieldDecoder) uint64(i int) uint64 {
	b, ok := d.scalar(i)
	if !ok {
		return 0
	}

	if err := checkUint(b, 8); err != nil {
		d.fail(i, err)

		return 0
	}

	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}

	return v
}

func (d *fieldDecoder) uint256(i int, dst *uint256.Int) {
	b, ok := d.scalar(i)
	if !ok {
		return
	}

	if err := checkUint(b, 32); err != nil {
		d.fail(i, err)

		return
	}

	dst.SetBytes(b)
}

// checkUint validates a big-endian unsigned integer of at most width bytes.
func checkUint(b []byte, width int) error {
	if len(b) > width {
		return fmt.Errorf("%w: %d bytes for a %d byte integer", errTooLarge, len(b), width)
	}

	if len(b) > 0 && b[0] == 0 {
		return errLeadingZero
	}

	return nil
}
