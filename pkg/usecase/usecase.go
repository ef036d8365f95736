// Package usecase defines the capability every encrypted-retrieval
// database exposes to the controller, and the named registry the
// controller dispatches through.
package usecase

import (
	"context"
	"sync"

	"pirsvc/pkg/models"
)

// Usecase is one independently configured encrypted-retrieval database.
// Implementations are immutable once registered; all cryptographic work
// happens behind Process.
type Usecase interface {
	// Config describes the usecase to clients. Config().ConfigID is the
	// hash evaluation keys must be bound to.
	Config() models.Config
	// EvaluationKeyConfig describes the evaluation key a client must
	// generate and upload before querying.
	EvaluationKeyConfig() models.EvaluationKeyConfig
	// Process evaluates one encrypted query using the caller's stored
	// evaluation key and returns the encrypted reply.
	Process(ctx context.Context, query []byte, key models.EvaluationKey) ([]byte, error)
}

// Registry maps usecase names to capabilities. Reads dominate during
// serving; writes happen at startup or through administrative action and
// replace entries atomically per name.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Usecase
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{m: make(map[string]Usecase)}
}

// Set registers or replaces the usecase under name.
func (r *Registry) Set(name string, uc Usecase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[name] = uc
}

// Get returns the usecase registered under name.
func (r *Registry) Get(name string) (Usecase, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uc, ok := r.m[name]
	return uc, ok
}

// Names returns the registered usecase names in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.m))
	for name := range r.m {
		out = append(out, name)
	}
	return out
}
