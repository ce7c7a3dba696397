// Package config loads the YAML configuration of the signal service.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/internal/version"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
	"github.com/rxtech-lab/argo-signal/pkg/marketdata/provider"
)

// PolygonAPIKeyEnv supplies market.polygon_api_key when the file leaves it empty.
const PolygonAPIKeyEnv = "POLYGON_API_KEY"

// Config is the root of the configuration file.
type Config struct {
	// Version is the argo-signal release the file was written for
	Version  string         `yaml:"version"`
	LogLevel string         `yaml:"log_level" validate:"oneof=debug info warn error"`
	Strategy StrategyConfig `yaml:"strategy"`
	Market   MarketConfig   `yaml:"market"`
	Poll     PollConfig     `yaml:"poll"`
	Server   ServerConfig   `yaml:"server"`
}

// StrategyConfig selects the active strategy and holds per-strategy parameters.
type StrategyConfig struct {
	Active string                    `yaml:"active" validate:"required"`
	Params map[string]map[string]any `yaml:"params"`
}

// MarketConfig describes where candles come from.
type MarketConfig struct {
	provider.ProviderConfig `yaml:",inline"`

	Symbol   string `yaml:"symbol" validate:"required"`
	Interval string `yaml:"interval" validate:"required"`
	Limit    int    `yaml:"limit" validate:"gt=0"`
}

// PollConfig configures the polling runner.
type PollConfig struct {
	Interval time.Duration `yaml:"interval" validate:"gt=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address string `yaml:"address" validate:"required"`
}

// Default returns the configuration used for every key the file leaves out.
func Default() Config {
	return Config{
		Version:  "",
		LogLevel: "info",
		Strategy: StrategyConfig{
			Active: string(types.StrategyNameRSI),
			Params: map[string]map[string]any{},
		},
		Market: MarketConfig{
			ProviderConfig: provider.ProviderConfig{
				Type:          provider.ProviderBinance,
				PolygonAPIKey: "",
				DataPath:      "",
			},
			Symbol:   "BTCUSDT",
			Interval: string(provider.IntervalOneHour),
			Limit:    200,
		},
		Poll: PollConfig{
			Interval: time.Minute,
		},
		Server: ServerConfig{
			Address: ":8080",
		},
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return Parse(data)
}

// Parse decodes data over the defaults, applies environment fallbacks and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	config := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if config.Market.PolygonAPIKey == "" {
		config.Market.PolygonAPIKey = os.Getenv(PolygonAPIKeyEnv)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks field constraints and version compatibility.
func (c Config) Validate() error {
	if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
		return err
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := provider.ParseInterval(c.Market.Interval); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid market.interval", err)
	}

	return nil
}

// ActiveStrategy returns the name of the strategy to load at startup.
func (c Config) ActiveStrategy() types.StrategyName {
	return types.StrategyName(c.Strategy.Active)
}

// StrategyParams returns the configured parameter bags keyed by strategy name.
func (c Config) StrategyParams() map[types.StrategyName]strategy.Params {
	params := make(map[types.StrategyName]strategy.Params, len(c.Strategy.Params))
	for name, bag := range c.Strategy.Params {
		params[types.StrategyName(name)] = strategy.Params(bag)
	}

	return params
}
