package receipt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/receipt-importer/internal/testutil"
	"github.com/ethpandaops/receipt-importer/pkg/rlpitem"
)

func rlpParse(b []byte) (rlpitem.Item, int, error) {
	return rlpitem.Parse(b)
}

func TestDecodeReceipt_Reasons(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fields []interface{}) interface{}
		reason error
		index  int
	}{
		{
			name:   "too few fields",
			mutate: func(f []interface{}) interface{} { return f[:15] },
			reason: errFieldCount,
			index:  -1,
		},
		{
			name:   "too many fields",
			mutate: func(f []interface{}) interface{} { return append(f, []byte{}) },
			reason: errFieldCount,
			index:  -1,
		},
		{
			name: "list where scalar expected",
			mutate: func(f []interface{}) interface{} {
				f[2] = []interface{}{uint64(1)}

				return f
			},
			reason: errExpectedScalar,
			index:  2,
		},
		{
			name: "uint8 wider than one byte",
			mutate: func(f []interface{}) interface{} {
				f[0] = []byte{0x01, 0x02}

				return f
			},
			reason: errTooLarge,
			index:  0,
		},
		{
			name: "uint64 wider than eight bytes",
			mutate: func(f []interface{}) interface{} {
				f[3] = bytes.Repeat([]byte{0x01}, 9)

				return f
			},
			reason: errTooLarge,
			index:  3,
		},
		{
			name: "uint64 with leading zero",
			mutate: func(f []interface{}) interface{} {
				f[8] = []byte{0x00, 0x52, 0x08}

				return f
			},
			reason: errLeadingZero,
			index:  8,
		},
		{
			name: "uint256 wider than 32 bytes",
			mutate: func(f []interface{}) interface{} {
				f[12] = bytes.Repeat([]byte{0x01}, 33)

				return f
			},
			reason: errTooLarge,
			index:  12,
		},
		{
			name: "short block hash",
			mutate: func(f []interface{}) interface{} {
				f[9] = []byte{0x01}

				return f
			},
			reason: errHashSize,
			index:  9,
		},
		{
			name: "invalid utf-8 fee scalar",
			mutate: func(f []interface{}) interface{} {
				f[15] = []byte{0xff, 0xfe}

				return f
			},
			reason: errInvalidUTF8,
			index:  15,
		},
		{
			name: "first failing field wins",
			mutate: func(f []interface{}) interface{} {
				f[7] = []byte{0xff}
				f[13] = []interface{}{}

				return f
			},
			reason: errInvalidUTF8,
			index:  7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := tt.mutate(testutil.NewReceiptFixture(0).Fields())

			item, _, err := rlpitem.Parse(testutil.EncodeRLP(t, value))
			require.NoError(t, err)

			_, err = decodeReceipt(item)
			require.ErrorIs(t, err, tt.reason)
			assert.NotErrorIs(t, err, errNotAList)

			if tt.index >= 0 {
				var fieldErr *FieldError
				require.ErrorAs(t, err, &fieldErr)
				assert.Equal(t, tt.index, fieldErr.Index)
			}
		})
	}
}

func TestDecodeReceipt_NotAList(t *testing.T) {
	item, _, err := rlpitem.Parse([]byte{0x83, 'a', 'b', 'c'})
	require.NoError(t, err)

	_, err = decodeReceipt(item)
	require.ErrorIs(t, err, errNotAList)
}

func TestDecodeReceipt_LogsKeepRawEncoding(t *testing.T) {
	tests := []struct {
		name string
		logs interface{}
	}{
		{name: "empty list", logs: []interface{}{}},
		{name: "scalar", logs: []byte("opaque")},
		{name: "nested logs", logs: testutil.NewReceiptFixture(3).Logs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewReceiptFixture(0)
			f.Logs = tt.logs

			item, _, err := rlpitem.Parse(testutil.EncodeRLP(t, f.Fields()))
			require.NoError(t, err)

			r, err := decodeReceipt(item)
			require.NoError(t, err)
			assert.Equal(t, testutil.EncodeRLP(t, tt.logs), r.Logs)
		})
	}
}

func TestDecodeReceipt_DoesNotAliasInput(t *testing.T) {
	f := testutil.NewReceiptFixture(0)
	f.PostState = []byte{0x01, 0x02, 0x03}

	payload := testutil.EncodeRLP(t, f.Fields())

	item, _, err := rlpitem.Parse(payload)
	require.NoError(t, err)

	r, err := decodeReceipt(item)
	require.NoError(t, err)

	for i := range payload {
		payload[i] = 0
	}

	assert.Equal(t, []byte{0x01, 0x02, 0x03}, r.PostState)
	assert.Equal(t, make([]byte, 256), r.Bloom)
	assert.NotEqual(t, make([]byte, len(r.Logs)), r.Logs)
}
