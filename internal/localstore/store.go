// Package localstore is a small string key/value store with the semantics of
// browser local storage: whole values are read and replaced per key.
package localstore

import "errors"

var ErrKeyRequired = errors.New("localstore: key is required")

// Store persists string values under string keys.
type Store interface {
	// GetItem returns the value for key; ok is false when the key is absent.
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}
