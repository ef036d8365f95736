// Package keystore persists per-(user, config-version) evaluation keys on
// top of a store.Driver. One slot per (user, config hash) pair; uploads
// are whole-record overwrites, last write wins.
package keystore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"pirsvc/pkg/logger"
	"pirsvc/pkg/models"
	"pirsvc/pkg/store"
)

// KeyPrefix namespaces evaluation-key records in the shared driver
// keyspace. The retention sweeper scans this prefix.
const KeyPrefix = "ek/"

// DecodeError reports stored bytes that no longer decode as an
// EvaluationKey: store corruption or a schema version skew. It must be
// surfaced to operators, never treated as a missing key.
type DecodeError struct {
	User string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("stored evaluation key for user is undecodable: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Store wraps a persistence driver with evaluation-key addressing.
type Store struct {
	driver store.Driver
}

// New returns a Store over the given driver.
func New(driver store.Driver) *Store {
	return &Store{driver: driver}
}

// PersistKey derives the storage key for a (user, configID) pair. The user
// component is length-prefixed so distinct pairs can never collide, e.g.
// ("ab","c") vs ("a","bc").
func PersistKey(user string, configID []byte) []byte {
	k := make([]byte, 0, len(KeyPrefix)+binary.MaxVarintLen64+len(user)+len(configID))
	k = append(k, KeyPrefix...)
	k = binary.AppendUvarint(k, uint64(len(user)))
	k = append(k, user...)
	k = append(k, configID...)
	return k
}

// Store persists one evaluation key under the slot addressed by the key's
// metadata identifier, overwriting any prior value there.
func (s *Store) Store(ctx context.Context, user string, key models.EvaluationKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation key: %w", err)
	}
	pk := PersistKey(user, key.Metadata.Identifier)
	if err := s.driver.Set(pk, data); err != nil {
		logger.Error("evaluation_key_store_failed", "identifier", key.IdentifierHex(), "error", err)
		return fmt.Errorf("failed to persist evaluation key: %w", err)
	}
	logger.Debug("evaluation_key_stored", "identifier", key.IdentifierHex(), "bytes", len(data))
	return nil
}

// Fetch reads the evaluation key stored for (user, configID). The second
// return value is false when no key was ever stored; that is not an error.
func (s *Store) Fetch(ctx context.Context, user string, configID []byte) (models.EvaluationKey, bool, error) {
	var key models.EvaluationKey
	if err := ctx.Err(); err != nil {
		return key, false, err
	}
	data, found, err := s.driver.Get(PersistKey(user, configID))
	if err != nil {
		return key, false, fmt.Errorf("failed to read evaluation key: %w", err)
	}
	if !found {
		return key, false, nil
	}
	if err := json.Unmarshal(data, &key); err != nil {
		logger.Error("evaluation_key_undecodable", "error", err)
		return models.EvaluationKey{}, false, &DecodeError{User: user, Err: err}
	}
	return key, true, nil
}
