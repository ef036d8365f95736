package store

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"pirsvc/pkg/logger"
)

// Pebble is the disk-backed Driver used in production deployments.
type Pebble struct {
	db   *pebble.DB
	path string
}

// OpenPebble opens (or creates) a pebble database at path.
func OpenPebble(path string) (*Pebble, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, fmt.Errorf("failed to open pebble at %s: %w", path, err)
	}
	logger.Info("pebble_opened", "path", path)
	return &Pebble{db: db, path: path}, nil
}

// Get returns the value stored at key, copying it out of pebble's buffer.
func (p *Pebble) Get(key []byte) ([]byte, bool, error) {
	v, closer, err := p.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			opsTotal.WithLabelValues("get", "miss").Inc()
			return nil, false, nil
		}
		opsTotal.WithLabelValues("get", "error").Inc()
		return nil, false, fmt.Errorf("pebble get: %w", err)
	}
	out := append([]byte(nil), v...)
	if cerr := closer.Close(); cerr != nil {
		return nil, false, fmt.Errorf("pebble get close: %w", cerr)
	}
	opsTotal.WithLabelValues("get", "ok").Inc()
	return out, true, nil
}

// Set writes value at key synchronously so an acknowledged upload survives
// a crash.
func (p *Pebble) Set(key, value []byte) error {
	if err := p.db.Set(key, value, pebble.Sync); err != nil {
		opsTotal.WithLabelValues("set", "error").Inc()
		logger.Error("pebble_set_failed", "error", err)
		return fmt.Errorf("pebble set: %w", err)
	}
	opsTotal.WithLabelValues("set", "ok").Inc()
	return nil
}

// Delete removes the value at key if present.
func (p *Pebble) Delete(key []byte) error {
	if err := p.db.Delete(key, pebble.Sync); err != nil {
		opsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("pebble delete: %w", err)
	}
	opsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

// Scan visits all keys under prefix in key order.
func (p *Pebble) Scan(prefix []byte, fn func(key, value []byte) error) error {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	defer func() { _ = iter.Close() }()
	for iter.First(); iter.Valid(); iter.Next() {
		k := append([]byte(nil), iter.Key()...)
		v := append([]byte(nil), iter.Value()...)
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Close closes the underlying pebble handle.
func (p *Pebble) Close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	logger.Info("pebble_closed", "path", p.path)
	return err
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix, or nil when the prefix is all 0xff.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

var _ Driver = (*Pebble)(nil)
var _ Scanner = (*Pebble)(nil)
