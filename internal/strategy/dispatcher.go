package strategy

import (
	"sync"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// Dispatcher owns the single active strategy slot.
//
// It starts Unloaded. A successful Load or SwitchStrategy moves it to Loaded with the new
// strategy; a failed one leaves the previous state untouched.
type Dispatcher struct {
	registry *Registry
	logger   *logger.Logger
	params   map[types.StrategyName]Params

	mu     sync.RWMutex
	active Strategy
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithStrategyParams sets the configuration bag used for a strategy when Load or
// SwitchStrategy is called without params.
func WithStrategyParams(params map[types.StrategyName]Params) DispatcherOption {
	return func(d *Dispatcher) {
		for name, p := range params {
			d.params[name] = p
		}
	}
}

// NewDispatcher creates an unloaded dispatcher over registry.
func NewDispatcher(registry *Registry, log *logger.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		logger:   log.Named("dispatcher"),
		params:   make(map[types.StrategyName]Params),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Load builds the named strategy and makes it the active one.
// Unknown names fail with ErrCodeUnknownStrategy and bad params with ErrCodeStrategyConfigError;
// in both cases the current strategy stays active.
func (d *Dispatcher) Load(name types.StrategyName, params Params) (Strategy, error) {
	next, err := d.build(name, params)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.active = next
	d.mu.Unlock()

	d.logger.Info("Strategy loaded", zap.String("strategy", string(name)), zap.Any("config", next.Config()))

	return next, nil
}

// SwitchStrategy replaces the active strategy. The old instance is discarded; nothing carries over.
func (d *Dispatcher) SwitchStrategy(name types.StrategyName, params Params) error {
	next, err := d.build(name, params)
	if err != nil {
		return err
	}

	d.mu.Lock()
	previous := d.active
	d.active = next
	d.mu.Unlock()

	fields := []zap.Field{zap.String("strategy", string(name)), zap.Any("config", next.Config())}
	if previous != nil {
		fields = append(fields, zap.String("previous", string(previous.Name())))
	}

	d.logger.Info("Strategy switched", fields...)

	return nil
}

func (d *Dispatcher) build(name types.StrategyName, params Params) (Strategy, error) {
	registration, err := d.registry.Get(name)
	if err != nil {
		d.logger.Error("Refusing to load unknown strategy",
			zap.String("strategy", string(name)),
			zap.Strings("available", d.available()))

		return nil, err
	}

	if params == nil {
		params = d.params[name]
	}

	next, err := registration.Factory(params, d.logger)
	if err != nil {
		d.logger.Error("Refusing to load misconfigured strategy", zap.String("strategy", string(name)), zap.Error(err))

		if errors.GetCode(err) == errors.ErrCodeUnknown {
			err = errors.Wrapf(errors.ErrCodeStrategyConfigError, err, "failed to build strategy %s", name)
		}

		return nil, err
	}

	return next, nil
}

func (d *Dispatcher) available() []string {
	names := d.registry.List()
	out := make([]string, len(names))

	for i, name := range names {
		out[i] = string(name)
	}

	return out
}

// GenerateSignals delegates to the active strategy. It fails only when nothing is loaded.
// A strategy that panics is logged and yields no signal for this call.
func (d *Dispatcher) GenerateSignals(candles []types.MarketData) (signals []types.Signal, err error) {
	d.mu.RLock()
	active := d.active
	d.mu.RUnlock()

	if active == nil {
		return nil, errors.New(errors.ErrCodeStrategyNotLoaded, "no strategy loaded")
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Strategy failed, no signal this cycle",
				zap.String("strategy", string(active.Name())),
				zap.Any("panic", r))

			signals = []types.Signal{}
			err = nil
		}
	}()

	return active.GenerateSignals(candles), nil
}

// DescribeActive reports the active strategy's name, configuration and status.
func (d *Dispatcher) DescribeActive() types.StrategyDescription {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.active == nil {
		return types.StrategyDescription{Status: types.StrategyStatusUnloaded}
	}

	return types.StrategyDescription{
		Name:   d.active.Name(),
		Config: d.active.Config(),
		Status: types.StrategyStatusLoaded,
	}
}

// Active returns the active strategy, if any.
func (d *Dispatcher) Active() optional.Option[Strategy] {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.active == nil {
		return optional.None[Strategy]()
	}

	return optional.Some(d.active)
}

// Registry returns the registry the dispatcher resolves names against.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}
