// Package runner polls a candle source and feeds the active strategy.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/rxtech-lab/argo-signal/pkg/marketdata/provider"
)

// Sink receives the signals produced by each evaluation.
type Sink interface {
	Publish(ctx context.Context, signal types.Signal) error
}

// Config describes what to poll and how often.
type Config struct {
	Symbol       string        `validate:"required"`
	Interval     string        `validate:"required"`
	Limit        int           `validate:"gt=0"`
	PollInterval time.Duration `validate:"gt=0"`
}

// Runner evaluates the dispatcher's active strategy on fresh candles.
//
// A signal whose ID was already published on the previous evaluation is not published again,
// so a crossover on the last closed candle is reported once even though it stays visible
// until the next candle closes.
type Runner struct {
	config     Config
	source     provider.CandleSource
	dispatcher *strategy.Dispatcher
	sink       Sink
	logger     *logger.Logger

	mu       sync.Mutex
	lastSeen map[string]struct{}
}

// NewRunner creates a runner over source and dispatcher.
func NewRunner(config Config, source provider.CandleSource, dispatcher *strategy.Dispatcher, sink Sink, log *logger.Logger) (*Runner, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid runner config", err)
	}

	if _, err := provider.ParseInterval(config.Interval); err != nil {
		return nil, err
	}

	return &Runner{
		config:     config,
		source:     source,
		dispatcher: dispatcher,
		sink:       sink,
		logger:     log.Named("runner"),
		lastSeen:   make(map[string]struct{}),
	}, nil
}

// RunOnce fetches candles, evaluates the active strategy and publishes new signals.
// It returns the signals that were published.
func (r *Runner) RunOnce(ctx context.Context) ([]types.Signal, error) {
	candles, err := r.source.Fetch(ctx, r.config.Symbol, r.config.Interval, r.config.Limit)
	if err != nil {
		return nil, err
	}

	signals, err := r.dispatcher.GenerateSignals(candles)
	if err != nil {
		return nil, err
	}

	fresh := r.unseen(signals)
	published := make(map[string]struct{}, len(fresh))

	for _, signal := range fresh {
		if err := r.sink.Publish(ctx, signal); err != nil {
			r.remember(signals, published)

			return nil, errors.Wrapf(errors.ErrCodeStrategyRuntimeError, err, "failed to publish signal %s", signal.ID)
		}

		published[signal.ID] = struct{}{}

		r.logger.Info("Signal",
			zap.String("id", signal.ID),
			zap.String("type", string(signal.Type)),
			zap.String("symbol", signal.Symbol),
			zap.Float64("price", signal.Price),
			zap.String("strategy", string(signal.Strategy)),
			zap.Time("time", signal.Time))
	}

	r.remember(signals, published)

	r.logger.Debug("Evaluation finished",
		zap.Int("candles", len(candles)),
		zap.Int("signals", len(signals)),
		zap.Int("published", len(fresh)))

	return fresh, nil
}

// unseen drops signals already delivered on the previous evaluation.
func (r *Runner) unseen(signals []types.Signal) []types.Signal {
	r.mu.Lock()
	defer r.mu.Unlock()

	fresh := make([]types.Signal, 0, len(signals))

	for _, signal := range signals {
		if _, ok := r.lastSeen[signal.ID]; ok {
			continue
		}

		fresh = append(fresh, signal)
	}

	return fresh
}

// remember replaces the delivered set with the signals of this evaluation that reached the sink,
// either now or on an earlier tick. Signals whose publish failed stay unseen and are retried.
func (r *Runner) remember(signals []types.Signal, published map[string]struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := make(map[string]struct{}, len(signals))

	for _, signal := range signals {
		_, now := published[signal.ID]
		_, before := r.lastSeen[signal.ID]

		if now || before {
			delivered[signal.ID] = struct{}{}
		}
	}

	r.lastSeen = delivered
}

// Run evaluates immediately and then on every poll interval until ctx is cancelled.
// Evaluation failures are logged and retried on the next tick.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("Runner started",
		zap.String("symbol", r.config.Symbol),
		zap.String("interval", r.config.Interval),
		zap.Duration("poll", r.config.PollInterval))

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}

			r.logger.Error("Evaluation failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			r.logger.Info("Runner stopped")

			return nil
		case <-ticker.C:
		}
	}

	r.logger.Info("Runner stopped")

	return nil
}
