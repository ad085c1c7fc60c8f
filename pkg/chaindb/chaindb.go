// Package chaindb walks a geth LevelDB chain database read-only and groups
// its keys by schema prefix.
package chaindb

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/ethpandaops/receipt-importer/pkg/common"
)

// Class groups keys sharing a schema prefix.
type Class string

const (
	ClassHeader      Class = "header"
	ClassBody        Class = "body"
	ClassReceipts    Class = "receipts"
	ClassTxLookup    Class = "tx_lookup"
	ClassAccountTrie Class = "account_trie"
	ClassStorageTrie Class = "storage_trie"
	ClassOther       Class = "other"
)

// Classes lists every class in report order.
var Classes = []Class{
	ClassHeader,
	ClassBody,
	ClassReceipts,
	ClassTxLookup,
	ClassAccountTrie,
	ClassStorageTrie,
	ClassOther,
}

// See go-ethereum core/rawdb/schema.go.
var prefixes = map[byte]Class{
	'h': ClassHeader,      // h + num + hash -> header
	'b': ClassBody,        // b + num + hash -> body
	'r': ClassReceipts,    // r + num + hash -> receipts
	'l': ClassTxLookup,    // l + hash -> tx lookup metadata
	'A': ClassAccountTrie, // A + hexPath -> trie node
	'O': ClassStorageTrie, // O + accountHash + hexPath -> trie node
}

// ctxCheckInterval is how many keys are walked between context checks.
const ctxCheckInterval = 4096

// Classify returns the class of a key.
func Classify(key []byte) Class {
	if len(key) == 0 {
		return ClassOther
	}

	if class, ok := prefixes[key[0]]; ok {
		return class
	}

	return ClassOther
}

// Entry is one key/value pair. Key and Value are only valid during the
// WalkFunc call that receives them.
type Entry struct {
	Key   []byte
	Value []byte
	Class Class
}

// WalkFunc is called for each entry in key order. Returning an error stops the walk.
type WalkFunc func(Entry) error

// ClassStats counts the keys of one class.
type ClassStats struct {
	Keys       int
	ValueBytes int
}

// Census is the result of walking a whole database.
type Census struct {
	Total   int
	ByClass map[Class]*ClassStats
}

// Walker reads chain databases.
type Walker struct {
	log logrus.FieldLogger
}

// NewWalker creates a walker.
func NewWalker(log logrus.FieldLogger) *Walker {
	return &Walker{log: log.WithField("component", "chaindb")}
}

// Walk opens the database at path read-only and calls fn for every entry.
func (w *Walker) Walk(ctx context.Context, path string, fn WalkFunc) error {
	db, err := leveldb.OpenFile(path, &opt.Options{ReadOnly: true, ErrorIfMissing: true})
	if err != nil {
		return fmt.Errorf("failed to open leveldb at %s: %w", path, err)
	}
	defer db.Close()

	w.log.WithField("path", path).Info("Opened leveldb database, iterating")

	iter := db.NewIterator(nil, nil)
	defer iter.Release()

	walked := 0

	for iter.Next() {
		if walked%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		walked++

		key := iter.Key()
		entry := Entry{Key: key, Value: iter.Value(), Class: Classify(key)}

		if err := fn(entry); err != nil {
			return err
		}
	}

	if err := iter.Error(); err != nil {
		return fmt.Errorf("failed to iterate leveldb: %w", err)
	}

	w.log.WithField("keys", walked).Info("Finished iterating leveldb database")

	return nil
}

// Census walks the database at path and counts keys per class.
func (w *Walker) Census(ctx context.Context, path string) (*Census, error) {
	census := &Census{ByClass: make(map[Class]*ClassStats, len(Classes))}
	for _, class := range Classes {
		census.ByClass[class] = &ClassStats{}
	}

	err := w.Walk(ctx, path, func(e Entry) error {
		stats := census.ByClass[e.Class]
		stats.Keys++
		stats.ValueBytes += len(e.Value)
		census.Total++

		common.LevelDBKeys.WithLabelValues(string(e.Class)).Inc()
		common.LevelDBValueBytes.WithLabelValues(string(e.Class)).Add(float64(len(e.Value)))

		w.log.WithFields(logrus.Fields{
			"key":   fmt.Sprintf("%x", e.Key),
			"class": e.Class,
			"size":  len(e.Value),
		}).Trace("Walked key")

		return nil
	})
	if err != nil {
		return nil, err
	}

	return census, nil
}
