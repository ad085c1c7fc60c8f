package receipt

import (
	"fmt"
	"os"

	"github.com/ethpandaops/receipt-importer/pkg/rlpitem"
)

// DecodeFile decodes an export file with the default configuration.
func DecodeFile(path string) (*Batch, error) {
	d, err := NewDecoder(Config{})
	if err != nil {
		return nil, err
	}

	return d.DecodeFile(path)
}

// DecodeFile reads the export at path. The first byte is a format tag and is
// not part of the RLP payload; parse error offsets are relative to the payload.
func (d *Decoder) DecodeFile(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipts file: %w", err)
	}

	if len(data) == 0 {
		return nil, &rlpitem.ParseError{Offset: 0, Kind: ErrTruncatedInput, Err: errMissingFormatTag}
	}

	batch, err := d.Decode(data[1:])
	if err != nil {
		return nil, err
	}

	batch.FormatTag = data[0]

	return batch, nil
}
