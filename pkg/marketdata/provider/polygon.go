package provider

import (
	"context"
	"slices"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// polygonLookback widens the query window so market closures still leave limit bars inside it.
const polygonLookback = 5

// PolygonAggsAPI returns aggregates newest first, at most limit of them.
type PolygonAggsAPI interface {
	Aggs(ctx context.Context, params *models.ListAggsParams, limit int) ([]models.Agg, error)
}

type polygonRESTClient struct {
	client *polygon.Client
}

func (c *polygonRESTClient) Aggs(ctx context.Context, params *models.ListAggsParams, limit int) ([]models.Agg, error) {
	iter := c.client.ListAggs(ctx, params)
	aggs := make([]models.Agg, 0, limit)

	for iter.Next() {
		aggs = append(aggs, iter.Item())
		if len(aggs) == limit {
			break
		}
	}

	if iter.Err() != nil {
		return nil, iter.Err()
	}

	return aggs, nil
}

// PolygonSource reads aggregates from Polygon.io.
type PolygonSource struct {
	api    PolygonAggsAPI
	logger *logger.Logger
	now    func() time.Time
}

// NewPolygonSource creates a source authenticated with apiKey.
func NewPolygonSource(apiKey string, log *logger.Logger) (*PolygonSource, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon provider requires an API key")
	}

	return NewPolygonSourceWithAPI(&polygonRESTClient{client: polygon.New(apiKey)}, log), nil
}

// NewPolygonSourceWithAPI creates a source over a custom aggregates API.
func NewPolygonSourceWithAPI(api PolygonAggsAPI, log *logger.Logger) *PolygonSource {
	return &PolygonSource{
		api:    api,
		logger: log.Named("polygon"),
		now:    time.Now,
	}
}

// Fetch implements CandleSource.
func (s *PolygonSource) Fetch(ctx context.Context, symbol string, interval string, limit int) ([]types.MarketData, error) {
	parsed, err := validateRequest(symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	to := s.now()
	from := to.Add(-time.Duration(limit*polygonLookback) * parsed.Duration())

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: parsed.Multiplier(),
		Timespan:   parsed.Timespan(),
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithOrder(models.Desc).WithLimit(limit + 1)

	aggs, err := s.api.Aggs(ctx, params, limit+1)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s aggregates from Polygon", symbol)
	}

	width := parsed.Duration()
	candles := make([]types.MarketData, 0, len(aggs))

	for _, agg := range aggs {
		start := time.Time(agg.Timestamp).UTC()
		// the bar still being built
		if !start.Add(width).Before(to) {
			continue
		}

		candles = append(candles, types.MarketData{
			Symbol: symbol,
			Time:   start,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		})
	}

	slices.Reverse(candles)

	s.logger.Debug("Fetched aggregates",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("received", len(aggs)),
		zap.Int("closed", len(candles)))

	return lastN(candles, limit), nil
}

// Close implements CandleSource.
func (s *PolygonSource) Close() error {
	return nil
}
