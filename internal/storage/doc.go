// Package storage provides the token store for linkdrop.
//
// A token store is the exclusive owner of the persisted token collection.
// Two engines are available:
//
//   - FileStore: a single JSON document rewritten atomically (temp file,
//     fsync, rename) on every mutation
//   - BadgerStore: one Badger key per token, consume runs in one transaction
//
// Both engines serialize every read-modify-write behind one store-wide
// mutex. Consume checks existence and removes the entry under the same lock
// acquisition, so two concurrent consumers of one token can never both win.
//
// Unreadable or corrupt persisted state is recovered as an empty store and
// logged; it is never returned as an error.
package storage
