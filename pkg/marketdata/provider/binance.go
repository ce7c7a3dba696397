package provider

import (
	"context"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// binanceMaxLimit is the largest page the klines endpoint returns.
const binanceMaxLimit = 1000

// BinanceKlinesAPI is the slice of the Binance REST client the source needs.
type BinanceKlinesAPI interface {
	Klines(ctx context.Context, symbol string, interval string, limit int) ([]*binance.Kline, error)
}

type binanceRESTClient struct {
	client *binance.Client
}

func (c *binanceRESTClient) Klines(ctx context.Context, symbol string, interval string, limit int) ([]*binance.Kline, error) {
	return c.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
}

// BinanceSource reads klines from the public Binance spot API.
type BinanceSource struct {
	api    BinanceKlinesAPI
	logger *logger.Logger
	now    func() time.Time
}

// NewBinanceSource creates a source backed by an anonymous Binance client.
func NewBinanceSource(log *logger.Logger) *BinanceSource {
	return NewBinanceSourceWithAPI(&binanceRESTClient{client: binance.NewClient("", "")}, log)
}

// NewBinanceSourceWithAPI creates a source over a custom klines API.
func NewBinanceSourceWithAPI(api BinanceKlinesAPI, log *logger.Logger) *BinanceSource {
	return &BinanceSource{
		api:    api,
		logger: log.Named("binance"),
		now:    time.Now,
	}
}

// Fetch implements CandleSource.
// Binance includes the still-open kline last; it is dropped so a signal is never computed on a moving close.
func (s *BinanceSource) Fetch(ctx context.Context, symbol string, interval string, limit int) ([]types.MarketData, error) {
	parsed, err := validateRequest(symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	if limit > binanceMaxLimit-1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "binance limit must be at most %d, got %d", binanceMaxLimit-1, limit)
	}

	// one extra kline covers the open one that gets dropped
	klines, err := s.api.Klines(ctx, symbol, string(parsed), limit+1)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s klines from Binance", symbol)
	}

	now := s.now().UnixMilli()
	candles := make([]types.MarketData, 0, len(klines))

	for _, k := range klines {
		if k.CloseTime >= now {
			continue
		}

		candle, err := klineToMarketData(symbol, k)
		if err != nil {
			return nil, err
		}

		candles = append(candles, candle)
	}

	s.logger.Debug("Fetched klines",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("received", len(klines)),
		zap.Int("closed", len(candles)))

	return lastN(candles, limit), nil
}

// Close implements CandleSource.
func (s *BinanceSource) Close() error {
	return nil
}

// klineToMarketData converts a Binance kline; prices arrive as decimal strings.
func klineToMarketData(symbol string, k *binance.Kline) (types.MarketData, error) {
	fields := []string{k.Open, k.High, k.Low, k.Close, k.Volume}
	values := make([]float64, len(fields))

	for i, field := range fields {
		value, err := decimal.NewFromString(field)
		if err != nil {
			return types.MarketData{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q for %s", field, symbol)
		}

		values[i] = value.InexactFloat64()
	}

	return types.MarketData{
		Symbol: symbol,
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}
