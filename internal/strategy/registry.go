package strategy

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// Registration describes one strategy variant.
type Registration struct {
	// Factory builds the strategy from a configuration bag
	Factory Factory
	// DefaultConfig is the configuration used when no params are given; it also drives the JSON schema
	DefaultConfig any
	// Description is a one line summary for listings
	Description string
}

// Registry maps strategy names to their registrations.
// It is built once at startup and handed to the Dispatcher.
type Registry struct {
	strategies map[types.StrategyName]Registration
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[types.StrategyName]Registration),
		mu:         sync.RWMutex{},
	}
}

// NewDefaultRegistry creates a registry holding the built-in RSI and MACD strategies.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()

	// names are distinct, registration cannot fail
	_ = registry.Register(types.StrategyNameRSI, Registration{
		Factory:       NewRSIStrategy,
		DefaultConfig: DefaultRSIConfig(),
		Description:   "RSI crossing into oversold (BUY) or overbought (SELL) territory",
	})
	_ = registry.Register(types.StrategyNameMACD, Registration{
		Factory:       NewMACDStrategy,
		DefaultConfig: DefaultMACDConfig(),
		Description:   "MACD line crossing its signal line",
	})

	return registry
}

// Register adds a strategy to the registry.
func (r *Registry) Register(name types.StrategyName, registration Registration) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "Register: strategy name is required")
	}

	if registration.Factory == nil {
		return errors.Newf(errors.ErrCodeInvalidParameter, "Register: strategy %s has no factory", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyRegistered, "Register: strategy with name %s already registered", name)
	}

	r.strategies[name] = registration

	return nil
}

// Get retrieves a registration by name.
func (r *Registry) Get(name types.StrategyName) (Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	registration, exists := r.strategies[name]
	if !exists {
		return Registration{}, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy %q", name)
	}

	return registration, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []types.StrategyName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.StrategyName, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// Schema returns the JSON schema of a strategy's configuration.
func (r *Registry) Schema(name types.StrategyName) (string, error) {
	registration, err := r.Get(name)
	if err != nil {
		return "", err
	}

	return configSchema(name, registration)
}
