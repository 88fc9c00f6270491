// Package benchmark measures the token store engines and the download path.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Restrict to one engine or store size:
//
//	go test -bench='Consume/badger/tokens_10000' -benchmem ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
