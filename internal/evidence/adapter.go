package evidence

import (
	"context"

	"github.com/factify/factify/internal/model"
)

// Adapter wraps one external evidence provider behind a uniform contract.
// Query returns a model.Finding describing the provider's judgment; a
// non-nil error means the call itself failed (timeout, network, bad
// credentials) and the caller degrades it to an error-labelled finding.
type Adapter interface {
	// Name returns the adapter identifier used in findings and logs
	Name() string

	// Query asks the provider to judge the claim
	Query(ctx context.Context, claim model.Claim) (model.Finding, error)
}

// Registry holds the adapters configured at startup
type Registry struct {
	adapters []Adapter
}

// NewAdapterRegistry builds the adapter set from configuration. Adapters
// whose credentials are absent are excluded, not registered-and-failing:
// the fact-check adapter is optional, the generative adapter is not.
func NewAdapterRegistry(cfg model.Config) *Registry {
	r := &Registry{}

	if cfg.LLM.APIKey != "" {
		r.Register(NewGenerativeAdapter(cfg.LLM, cfg.Adapters))
	}
	if cfg.FactCheck.APIKey != "" {
		r.Register(NewFactCheckAdapter(cfg.FactCheck, cfg.Adapters))
	}

	return r
}

// Register adds an adapter to the registry
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// Adapters returns the configured adapters in registration order
func (r *Registry) Adapters() []Adapter {
	return r.adapters
}

// Len returns the number of configured adapters
func (r *Registry) Len() int {
	return len(r.adapters)
}
