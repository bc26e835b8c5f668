// Package pebblestore provides an embedded Sequence Store on Pebble.
//
// It is meant for single-process deployments and the CLI. Transactions are
// indexed batches committed atomically; counter rows are serialized by an
// in-process lock table whose locks are held until the batch is committed
// or discarded, which gives the same guarantees as SELECT ... FOR UPDATE
// for every writer sharing the TxManager.
package pebblestore
