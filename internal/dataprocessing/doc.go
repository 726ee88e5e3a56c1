// Package dataprocessing turns raw extracted report rows into canonical
// cap-rate records and reconciles them with the accumulating historical
// dataset.
//
// The pipeline has three stages:
//
//   - reader: parses raw-row CSV extracts and the canonical dataset CSV
//   - Normalizer: one RawRow in, one CapRateRecord or a rejection reason out
//   - Engine: merges normalized batches into the dataset, counting new,
//     duplicate and invalid records
//
// Malformed rows are data-quality events, not program failures: they are
// counted, reported as reason strings, and processing continues. The merge
// is append-only and idempotent for identical inputs.
package dataprocessing
