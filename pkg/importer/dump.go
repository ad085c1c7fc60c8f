package importer

import (
	"encoding/json"
	"fmt"
	"io"
)

// Dump writes every receipt in results to w as one JSON object per line,
// preserving file and receipt order. It returns the number of receipts written.
func Dump(w io.Writer, results []FileResult) (int, error) {
	enc := json.NewEncoder(w)
	written := 0

	for _, r := range results {
		for idx := range r.Batch.Receipts {
			if err := enc.Encode(r.Batch.Receipts[idx]); err != nil {
				return written, fmt.Errorf("failed to encode receipt %d of %s: %w", idx, r.Path, err)
			}

			written++
		}
	}

	return written, nil
}
