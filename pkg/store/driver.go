// Package store provides the durable key/value drivers the service
// persists evaluation keys into. The controller only depends on Driver;
// the retention sweeper additionally uses Scanner when the driver
// supports it.
package store

// Driver is the minimal persistence contract: byte keys to byte values,
// whole-value overwrites, atomic per key.
type Driver interface {
	// Get returns the stored value and whether the key exists. A missing
	// key is not an error.
	Get(key []byte) ([]byte, bool, error)
	// Set overwrites the value at key. Single writes are atomic.
	Set(key, value []byte) error
	Close() error
}

// Scanner is an optional extension drivers may implement to support
// namespace sweeps (retention).
type Scanner interface {
	// Scan visits every key with the given prefix. Returning an error
	// from fn stops the scan and propagates the error.
	Scan(prefix []byte, fn func(key, value []byte) error) error
	Delete(key []byte) error
}
