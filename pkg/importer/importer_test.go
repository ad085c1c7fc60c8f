package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethpandaops/receipt-importer/internal/testutil"
	"github.com/ethpandaops/receipt-importer/pkg/receipt"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.DebugLevel)

	return log
}

func newTestImporter(t *testing.T, cfg Config) *Importer {
	t.Helper()

	imp, err := New(newTestLogger(), &cfg, receipt.Config{})
	require.NoError(t, err)

	return imp
}

func TestImport_SingleFile(t *testing.T) {
	path := testutil.WriteExport(t, "receipts.rlp", testutil.EncodeRLP(t, testutil.ReceiptList(3)))

	results, err := newTestImporter(t, Config{}).Import(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, path, results[0].Path)
	assert.Equal(t, 3, results[0].Batch.Len())
}

func TestImport_DirectoryKeepsPathOrder(t *testing.T) {
	dir := t.TempDir()

	// Written out of order on purpose; results must follow file names.
	for _, i := range []int{2, 0, 1} {
		payload := testutil.EncodeRLP(t, testutil.ReceiptList(i+1))
		testutil.WriteExportIn(t, dir, testutil.Name(i), payload)
	}

	results, err := newTestImporter(t, Config{Concurrency: 3}).Import(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, filepath.Join(dir, testutil.Name(i)), r.Path)
		assert.Equal(t, i+1, r.Batch.Len())
	}

	summary := Summarize(results)
	assert.Equal(t, 3, summary.Files)
	assert.Equal(t, 6, summary.Receipts)
	assert.Positive(t, summary.Bytes)
}

func TestImport_ExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	payload := testutil.EncodeRLP(t, testutil.ReceiptList(1))

	testutil.WriteExportIn(t, dir, "a.rlp", payload)
	testutil.WriteExportIn(t, dir, "b.RLP", payload)
	testutil.WriteExportIn(t, dir, "notes.txt", []byte("not an export"))

	results, err := newTestImporter(t, Config{Extensions: []string{".rlp"}}).Import(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	_, err = newTestImporter(t, Config{Extensions: []string{".bin"}}).Import(context.Background(), dir)
	require.ErrorIs(t, err, ErrNoInputFiles)
}

func TestImport_FirstFailureInPathOrder(t *testing.T) {
	dir := t.TempDir()

	good := testutil.EncodeRLP(t, testutil.ReceiptList(2))
	malformed := testutil.EncodeRLP(t, []interface{}{[]byte("junk")})

	testutil.WriteExportIn(t, dir, testutil.Name(0), good)
	testutil.WriteExportIn(t, dir, testutil.Name(1), malformed)
	testutil.WriteExportIn(t, dir, testutil.Name(2), good[:len(good)-1])

	for i := 0; i < 5; i++ {
		results, err := newTestImporter(t, Config{Concurrency: 3}).Import(context.Background(), dir)
		require.ErrorIs(t, err, receipt.ErrMalformedReceiptEntry)
		assert.Nil(t, results)
		assert.Contains(t, err.Error(), testutil.Name(1))
	}
}

func TestImport_MissingPath(t *testing.T) {
	_, err := newTestImporter(t, Config{}).Import(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestImport_CanceledContext(t *testing.T) {
	path := testutil.WriteExport(t, "receipts.rlp", testutil.EncodeRLP(t, testutil.ReceiptList(1)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestImporter(t, Config{}).Import(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}

func TestImport_RequireNonEmpty(t *testing.T) {
	path := testutil.WriteExport(t, "empty.rlp", []byte{0xc0})

	imp, err := New(newTestLogger(), &Config{}, receipt.Config{RequireNonEmpty: true})
	require.NoError(t, err)

	_, err = imp.Import(context.Background(), path)
	require.ErrorIs(t, err, receipt.ErrEmptyBatch)
	assert.Equal(t, "empty_batch", errorType(err))
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(newTestLogger(), &Config{Concurrency: -1}, receipt.Config{})
	require.Error(t, err)

	_, err = New(newTestLogger(), &Config{Extensions: []string{"rlp"}}, receipt.Config{})
	require.Error(t, err)

	_, err = New(newTestLogger(), &Config{}, receipt.Config{MaxDepth: -1})
	require.Error(t, err)
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteExportIn(t, dir, testutil.Name(0), testutil.EncodeRLP(t, testutil.ReceiptList(2)))
	testutil.WriteExportIn(t, dir, testutil.Name(1), testutil.EncodeRLP(t, testutil.ReceiptList(1)))

	results, err := newTestImporter(t, Config{}).Import(context.Background(), dir)
	require.NoError(t, err)

	var buf bytes.Buffer

	n, err := Dump(&buf, results)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	scanner := bufio.NewScanner(strings.NewReader(buf.String()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var hashes []string

	for scanner.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))

		hashes = append(hashes, line["transactionHash"].(string))
	}

	require.NoError(t, scanner.Err())
	require.Len(t, hashes, 3)
	assert.True(t, strings.HasSuffix(hashes[0], "00"))
	assert.True(t, strings.HasSuffix(hashes[1], "01"))
	assert.True(t, strings.HasSuffix(hashes[2], "00"))
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "truncated", err: receipt.ErrTruncatedInput, expected: "truncated_input"},
		{name: "invalid length", err: receipt.ErrInvalidLengthEncoding, expected: "invalid_length_encoding"},
		{name: "malformed", err: &receipt.EntryError{Kind: receipt.ErrMalformedReceiptEntry, Err: io.EOF}, expected: "malformed_receipt_entry"},
		{name: "depth", err: fmt.Errorf("wrapped: %w", receipt.ErrDecodeDepthExceeded), expected: "decode_depth_exceeded"},
		{name: "empty", err: receipt.ErrEmptyBatch, expected: "empty_batch"},
		{name: "io", err: os.ErrNotExist, expected: "io"},
		{name: "config", err: errors.New("bad config"), expected: "io"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errorType(tt.err))
		})
	}
}
