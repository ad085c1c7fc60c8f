package common

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FilesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_importer_files_decoded_total",
		Help: "Total number of export files decoded",
	}, []string{"status"})

	ReceiptsDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_importer_receipts_decoded_total",
		Help: "Total number of receipts decoded",
	})

	PlaceholdersSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_importer_placeholders_skipped_total",
		Help: "Total number of empty placeholder entries skipped",
	})

	ContainersFlattened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_importer_containers_flattened_total",
		Help: "Total number of nested lists walked as receipt containers",
	})

	BytesRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "receipt_importer_bytes_read_total",
		Help: "Total number of payload bytes decoded",
	})

	DecodeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "receipt_importer_decode_duration_seconds",
		Help:    "Time taken to decode one export file",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
	}, []string{"status"})

	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_importer_decode_errors_total",
		Help: "Total number of failed decodes by error type",
	}, []string{"error_type"})

	GenesisAllocAccounts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "receipt_importer_genesis_alloc_accounts",
		Help: "Number of accounts in the last loaded genesis alloc",
	})

	LevelDBKeys = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_importer_leveldb_keys_total",
		Help: "Total number of leveldb keys walked by schema prefix",
	}, []string{"prefix"})

	LevelDBValueBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "receipt_importer_leveldb_value_bytes_total",
		Help: "Total size of leveldb values walked by schema prefix",
	}, []string{"prefix"})
)
