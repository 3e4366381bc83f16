// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// They cover the hot paths of a scan:
//   - manifest block extraction
//   - a full scan of an in-memory data directory
//   - fuzzy filtering of the flattened entries
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -run=^$ -bench=. -cpuprofile=default.pgo
package benchmark
