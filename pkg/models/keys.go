package models

import "encoding/hex"

// EvaluationKeyMetadata binds an uploaded evaluation key to a specific
// usecase configuration version. Identifier is the config hash of the
// usecase the key was generated for.
type EvaluationKeyMetadata struct {
	Timestamp  uint64 `json:"timestamp"`
	Identifier []byte `json:"identifier"`
}

// EvaluationKey is client-generated cryptographic material enabling the
// server to evaluate queries on the client's behalf. The key bytes are
// opaque to the controller.
type EvaluationKey struct {
	Metadata      EvaluationKeyMetadata `json:"metadata"`
	EvaluationKey []byte                `json:"evaluation_key"`
}

// EvaluationKeys is one upload batch. A user may hold simultaneous keys
// for multiple configuration versions or usecases.
type EvaluationKeys struct {
	Keys []EvaluationKey `json:"keys"`
}

// IdentifierHex returns the key's config identifier as hex for logs and
// error messages.
func (k EvaluationKey) IdentifierHex() string {
	return hex.EncodeToString(k.Metadata.Identifier)
}
