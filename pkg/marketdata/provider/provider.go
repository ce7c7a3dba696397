// Package provider fetches recent OHLCV candles from exchanges, data vendors and local files.
package provider

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderBinance ProviderType = "binance"
	ProviderPolygon ProviderType = "polygon"
	ProviderDuckDB  ProviderType = "duckdb"
)

// CandleSource returns the most recent candles of a symbol.
type CandleSource interface {
	// Fetch returns at most limit candles of the given interval, oldest first.
	// Only completed candles are returned.
	Fetch(ctx context.Context, symbol string, interval string, limit int) ([]types.MarketData, error)
	// Close releases connections held by the source
	Close() error
}

// ProviderConfig selects and configures a CandleSource.
type ProviderConfig struct {
	Type          ProviderType `yaml:"provider" json:"provider" validate:"required,oneof=binance polygon duckdb" jsonschema:"title=Provider,enum=binance,enum=polygon,enum=duckdb"`
	PolygonAPIKey string       `yaml:"polygon_api_key" json:"polygon_api_key" validate:"required_if=Type polygon" jsonschema:"title=Polygon API Key"`
	DataPath      string       `yaml:"data_path" json:"data_path" validate:"required_if=Type duckdb" jsonschema:"title=Data Path,description=Parquet or CSV file read by the duckdb provider"`
}

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

var providerRegistry = map[ProviderType]ProviderInfo{
	ProviderBinance: {
		Name:         string(ProviderBinance),
		DisplayName:  "Binance",
		Description:  "Cryptocurrency exchange klines over the public REST API",
		RequiresAuth: false,
	},
	ProviderPolygon: {
		Name:         string(ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market aggregates",
		RequiresAuth: true,
	},
	ProviderDuckDB: {
		Name:         string(ProviderDuckDB),
		DisplayName:  "DuckDB",
		Description:  "Local parquet or CSV candle file queried through DuckDB",
		RequiresAuth: false,
	},
}

// GetSupportedProviders returns the metadata of every provider, sorted by name.
func GetSupportedProviders() []ProviderInfo {
	providers := make([]ProviderInfo, 0, len(providerRegistry))
	for _, info := range providerRegistry {
		providers = append(providers, info)
	}

	sort.Slice(providers, func(i, j int) bool { return providers[i].Name < providers[j].Name })

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// NewCandleSource creates the CandleSource selected by config.
func NewCandleSource(config ProviderConfig, log *logger.Logger) (CandleSource, error) {
	if _, err := GetProviderInfo(string(config.Type)); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s provider configuration", config.Type)
	}

	switch config.Type {
	case ProviderBinance:
		return NewBinanceSource(log), nil
	case ProviderPolygon:
		source, err := NewPolygonSource(config.PolygonAPIKey, log)
		if err != nil {
			return nil, err
		}

		return source, nil
	case ProviderDuckDB:
		source, err := NewDuckDBSource(config.DataPath, log)
		if err != nil {
			return nil, err
		}

		return source, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", config.Type)
	}
}

// lastN keeps the newest n candles of a chronological slice.
func lastN(candles []types.MarketData, n int) []types.MarketData {
	if len(candles) <= n {
		return candles
	}

	return candles[len(candles)-n:]
}

func validateRequest(symbol string, interval string, limit int) (Interval, error) {
	if symbol == "" {
		return "", errors.New(errors.ErrCodeMissingParameter, "symbol is required")
	}

	if limit <= 0 {
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "limit must be positive, got %d", limit)
	}

	return ParseInterval(interval)
}
