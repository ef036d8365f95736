// Package validation enforces configurable request-shape limits before
// any store or usecase traffic.
package validation

import (
	"fmt"
	"strings"

	"pirsvc/pkg/models"
)

// Limits caps request shapes. Zero values disable the corresponding cap.
type Limits struct {
	MaxKeysPerUpload      int
	MaxKeyBytes           int64
	MaxUsecasesPerRequest int
}

// DefaultLimits are applied when the config leaves limits unset.
var DefaultLimits = Limits{
	MaxKeysPerUpload:      64,
	MaxKeyBytes:           16 << 20,
	MaxUsecasesPerRequest: 64,
}

// Merge fills zero fields from DefaultLimits.
func (l Limits) Merge() Limits {
	out := l
	if out.MaxKeysPerUpload == 0 {
		out.MaxKeysPerUpload = DefaultLimits.MaxKeysPerUpload
	}
	if out.MaxKeyBytes == 0 {
		out.MaxKeyBytes = DefaultLimits.MaxKeyBytes
	}
	if out.MaxUsecasesPerRequest == 0 {
		out.MaxUsecasesPerRequest = DefaultLimits.MaxUsecasesPerRequest
	}
	return out
}

// ValidateUpload checks an evaluation-key upload batch.
func (l Limits) ValidateUpload(keys models.EvaluationKeys) error {
	if len(keys.Keys) == 0 {
		return fmt.Errorf("upload contains no evaluation keys")
	}
	if l.MaxKeysPerUpload > 0 && len(keys.Keys) > l.MaxKeysPerUpload {
		return fmt.Errorf("upload contains %d keys; limit is %d", len(keys.Keys), l.MaxKeysPerUpload)
	}
	for i, k := range keys.Keys {
		if len(k.Metadata.Identifier) == 0 {
			return fmt.Errorf("key %d has an empty config identifier", i)
		}
		if len(k.EvaluationKey) == 0 {
			return fmt.Errorf("key %d has empty key material", i)
		}
		if l.MaxKeyBytes > 0 && int64(len(k.EvaluationKey)) > l.MaxKeyBytes {
			return fmt.Errorf("key %d is %d bytes; limit is %d", i, len(k.EvaluationKey), l.MaxKeyBytes)
		}
	}
	return nil
}

// ValidateConfigRequest checks a config fetch request.
func (l Limits) ValidateConfigRequest(req models.ConfigRequest) error {
	if l.MaxUsecasesPerRequest > 0 && len(req.Usecases) > l.MaxUsecasesPerRequest {
		return fmt.Errorf("request names %d usecases; limit is %d", len(req.Usecases), l.MaxUsecasesPerRequest)
	}
	for _, name := range req.Usecases {
		if err := ValidateUsecaseName(name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUsecaseName rejects empty or unprintable usecase names so lookup
// failures read sensibly in logs and error bodies.
func ValidateUsecaseName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("usecase name must not be empty")
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("usecase name contains control characters")
		}
	}
	return nil
}
