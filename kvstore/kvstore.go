// Package kvstore is the small key/value interface used to keep node identity
// pins across runs.
package kvstore

import "errors"

// NoOp can be returned from an Update function to leave the value untouched.
var NoOp = errors.New("kvstore: no-op")

type KVStore interface {
	// Get returns nil, nil when the key is not present.
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
	Delete(key []byte) error
	Close() error

	// Update atomically replaces the value at key with the result of f.
	// f receives nil when the key is not present; returning nil deletes the key.
	Update(key []byte, f func([]byte) ([]byte, error)) error
}
