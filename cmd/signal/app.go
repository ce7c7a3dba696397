package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-signal/internal/config"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/runner"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/rxtech-lab/argo-signal/pkg/marketdata/provider"
)

// app holds everything a command needs once flags and the config file are resolved.
type app struct {
	config     config.Config
	logger     *logger.Logger
	dispatcher *strategy.Dispatcher
	stdout     io.Writer
}

// loadConfig reads --config (or the defaults) and applies flag overrides.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)

	if path := cmd.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Parse(nil)
	}

	if err != nil {
		return config.Config{}, err
	}

	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}

	if cmd.IsSet("strategy") {
		cfg.Strategy.Active = cmd.String("strategy")
	}

	if cmd.IsSet("symbol") {
		cfg.Market.Symbol = cmd.String("symbol")
	}

	if cmd.IsSet("interval") {
		cfg.Market.Interval = cmd.String("interval")
	}

	if cmd.IsSet("provider") {
		cfg.Market.Type = provider.ProviderType(cmd.String("provider"))
	}

	if cmd.IsSet("data") {
		cfg.Market.DataPath = cmd.String("data")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// newApp resolves the configuration and loads the configured strategy.
func newApp(cmd *cli.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewLoggerWithOutput(cfg.LogLevel, "stderr")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create logger", err)
	}

	dispatcher := strategy.NewDispatcher(
		strategy.NewDefaultRegistry(),
		log,
		strategy.WithStrategyParams(cfg.StrategyParams()),
	)

	if _, err := dispatcher.Load(cfg.ActiveStrategy(), nil); err != nil {
		return nil, err
	}

	return &app{
		config:     cfg,
		logger:     log,
		dispatcher: dispatcher,
		stdout:     cmd.Root().Writer,
	}, nil
}

func (a *app) newRunner(source provider.CandleSource, sink runner.Sink) (*runner.Runner, error) {
	return runner.NewRunner(runner.Config{
		Symbol:       a.config.Market.Symbol,
		Interval:     a.config.Market.Interval,
		Limit:        a.config.Market.Limit,
		PollInterval: a.config.Poll.Interval,
	}, source, a.dispatcher, sink, a.logger)
}

func (a *app) newCandleSource() (provider.CandleSource, error) {
	return provider.NewCandleSource(a.config.Market.ProviderConfig, a.logger)
}

// sink prints signals as JSON lines or styled text.
func (a *app) sink(asJSON bool) runner.Sink {
	if asJSON {
		return runner.NewJSONSink(a.stdout)
	}

	return runner.SinkFunc(func(_ context.Context, signal types.Signal) error {
		_, err := io.WriteString(a.stdout, FormatSignal(signal)+"\n")

		return err
	})
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// readCandles loads a JSON array of candles from path, or stdin when path is "-".
func readCandles(path string) ([]types.MarketData, error) {
	var reader io.Reader = os.Stdin

	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to open %s", path)
		}
		defer file.Close()

		reader = file
	}

	var candles []types.MarketData
	if err := json.NewDecoder(reader).Decode(&candles); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to decode candles", err)
	}

	return candles, nil
}
