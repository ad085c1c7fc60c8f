// Package receipt decodes op-erigon receipt exports into typed receipts.
//
// An export is a single RLP list whose children are receipts, empty
// placeholders or further lists of the same. The exporter groups receipts to
// a non-uniform depth, so every list is first decoded as a receipt and only
// walked as a container when that fails.
package receipt

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ethpandaops/receipt-importer/pkg/rlpitem"
)

// Decoder turns RLP payloads into receipt batches. It holds no state between
// calls and is safe for concurrent use.
type Decoder struct {
	config Config
}

// NewDecoder creates a decoder, applying defaults to unset config fields.
func NewDecoder(cfg Config) (*Decoder, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid receipt config: %w", err)
	}

	return &Decoder{config: cfg}, nil
}

// Decode decodes a payload with the default configuration.
func Decode(payload []byte) (*Batch, error) {
	d, err := NewDecoder(Config{})
	if err != nil {
		return nil, err
	}

	return d.Decode(payload)
}

// Decode parses payload and flattens it into receipts. An empty payload or a
// scalar root yields an empty batch; Batch.Root tells them apart.
func (d *Decoder) Decode(payload []byte) (*Batch, error) {
	if len(payload) == 0 {
		return d.finish(&Batch{})
	}

	root, n, err := rlpitem.ParseWithDepth(payload, d.config.MaxDepth+receiptNesting)
	if err != nil {
		return nil, fmt.Errorf("failed to parse receipt payload: %w", err)
	}

	batch, err := d.DecodeItem(root)
	if err != nil {
		return nil, err
	}

	batch.PayloadSize = len(payload)
	batch.TrailingBytes = len(payload) - n

	return batch, nil
}

// DecodeItem flattens an already parsed root item.
func (d *Decoder) DecodeItem(root rlpitem.Item) (*Batch, error) {
	batch := &Batch{PayloadSize: len(root.Raw())}

	if err := d.decodeRoot(root, batch); err != nil {
		return nil, err
	}

	return d.finish(batch)
}

func (d *Decoder) finish(batch *Batch) (*Batch, error) {
	if d.config.RequireNonEmpty && len(batch.Receipts) == 0 {
		return nil, fmt.Errorf("%w: root is %s", ErrEmptyBatch, batch.Root)
	}

	return batch, nil
}

func (d *Decoder) decodeRoot(root rlpitem.Item, batch *Batch) error {
	list, ok := root.(rlpitem.List)
	if !ok {
		batch.Root = RootScalar

		return nil
	}

	batch.Root = RootList

	receipts, stats, err := d.flatten(list)
	if err != nil {
		return err
	}

	batch.Receipts = receipts
	batch.Stats = stats

	return nil
}

// flatten walks the children of the root list. With more than one worker the
// top-level entries are walked concurrently and stitched back in order.
func (d *Decoder) flatten(root rlpitem.List) ([]Receipt, Stats, error) {
	if d.config.Workers <= 1 || root.Len() < 2 {
		w := walker{maxDepth: d.config.MaxDepth}

		for i, child := range root.Items() {
			if err := w.walkEntry(child, []int{i}, 0, nil); err != nil {
				return nil, Stats{}, err
			}
		}

		return w.receipts, w.stats, nil
	}

	walkers := make([]walker, root.Len())
	errs := make([]error, root.Len())

	var g errgroup.Group

	g.SetLimit(d.config.Workers)

	for i, child := range root.Items() {
		walkers[i].maxDepth = d.config.MaxDepth

		g.Go(func() error {
			errs[i] = walkers[i].walkEntry(child, []int{i}, 0, nil)

			return nil
		})
	}

	_ = g.Wait()

	// Report the first failing entry in document order, whichever finished first.
	total := 0

	for i, err := range errs {
		if err != nil {
			return nil, Stats{}, err
		}

		total += len(walkers[i].receipts)
	}

	receipts := make([]Receipt, 0, total)

	var stats Stats

	for i := range walkers {
		receipts = append(receipts, walkers[i].receipts...)
		stats.merge(walkers[i].stats)
	}

	return receipts, stats, nil
}

// walker accumulates receipts for one subtree.
type walker struct {
	maxDepth int
	receipts []Receipt
	stats    Stats
}

// walkEntry handles one child of a list sitting at container depth depth.
// container is the reason the enclosing list was not decoded as a receipt.
func (w *walker) walkEntry(item rlpitem.Item, path []int, depth int, container error) error {
	if item.Empty() {
		w.stats.Placeholders++

		return nil
	}

	r, err := decodeReceipt(item)
	if err == nil {
		w.receipts = append(w.receipts, r)

		return nil
	}

	switch v := item.(type) {
	case rlpitem.List:
		return w.walkContainer(v, path, depth+1, err)
	case rlpitem.Scalar:
		return &EntryError{
			Path:      clonePath(path),
			Kind:      ErrMalformedReceiptEntry,
			Err:       fmt.Errorf("unexpected %d byte scalar", v.Len()),
			Container: container,
		}
	default:
		return &EntryError{
			Path:      clonePath(path),
			Kind:      ErrMalformedReceiptEntry,
			Err:       fmt.Errorf("unexpected item %T", item),
			Container: container,
		}
	}
}

func (w *walker) walkContainer(list rlpitem.List, path []int, depth int, reason error) error {
	if depth > w.maxDepth {
		return &EntryError{
			Path:      clonePath(path),
			Kind:      ErrDecodeDepthExceeded,
			Err:       fmt.Errorf("container at depth %d, limit %d", depth, w.maxDepth),
			Container: reason,
		}
	}

	w.stats.Containers++

	if depth > w.stats.MaxDepth {
		w.stats.MaxDepth = depth
	}

	for i, child := range list.Items() {
		if err := w.walkEntry(child, append(path, i), depth, reason); err != nil {
			return err
		}
	}

	return nil
}

func clonePath(path []int) []int {
	out := make([]int, len(path))
	copy(out, path)

	return out
}
