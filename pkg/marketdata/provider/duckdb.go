package provider

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// DuckDBSource serves candles from a local parquet or CSV file.
// The file holds raw candles with the columns time, symbol, open, high, low, close, volume;
// Fetch buckets them into the requested interval.
type DuckDBSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
	path   string
}

// NewDuckDBSource opens an in-memory DuckDB database with a market_data view over path.
func NewDuckDBSource(path string, log *logger.Logger) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to open DuckDB", err)
	}

	source := &DuckDBSource{
		db:     db,
		logger: log.Named("duckdb"),
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		path:   path,
	}

	if err := source.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return source, nil
}

func (s *DuckDBSource) initialize() error {
	s.logger.Debug("Initializing DuckDB candle source", zap.String("path", s.path))

	reader := "read_parquet"
	if strings.EqualFold(filepath.Ext(s.path), ".csv") {
		reader = "read_csv_auto"
	}

	// CREATE VIEW takes no placeholders
	query := fmt.Sprintf(`CREATE VIEW market_data AS SELECT * FROM %s('%s');`,
		reader, strings.ReplaceAll(s.path, "'", "''"))

	if _, err := s.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to load candles from %s", s.path)
	}

	return nil
}

// Fetch implements CandleSource.
func (s *DuckDBSource) Fetch(ctx context.Context, symbol string, interval string, limit int) ([]types.MarketData, error) {
	parsed, err := validateRequest(symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	query, args, err := s.buildFetchQuery(symbol, parsed, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to build query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to query %s candles", symbol)
	}
	defer rows.Close()

	candles := make([]types.MarketData, 0, limit)

	for rows.Next() {
		var (
			timestamp                      time.Time
			rowSymbol                      string
			open, high, low, close, volume float64
		)

		if err := rows.Scan(&timestamp, &rowSymbol, &open, &high, &low, &close, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to scan row", err)
		}

		candles = append(candles, types.MarketData{
			Symbol: rowSymbol,
			Time:   timestamp.UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: volume,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating rows", err)
	}

	// newest first from the query
	slices.Reverse(candles)

	s.logger.Debug("Fetched candles",
		zap.String("symbol", symbol),
		zap.String("interval", interval),
		zap.Int("count", len(candles)))

	return candles, nil
}

// buildFetchQuery groups raw rows into interval buckets and keeps the newest limit buckets.
func (s *DuckDBSource) buildFetchQuery(symbol string, interval Interval, limit int) (string, []any, error) {
	bucket := fmt.Sprintf("time_bucket(INTERVAL '%s', time)", interval.sqlInterval())

	return s.sq.
		Select(
			bucket+" AS bucket_time",
			"symbol",
			"CAST(arg_min(open, time) AS DOUBLE) AS open",
			"CAST(max(high) AS DOUBLE) AS high",
			"CAST(min(low) AS DOUBLE) AS low",
			"CAST(arg_max(close, time) AS DOUBLE) AS close",
			"CAST(sum(volume) AS DOUBLE) AS volume",
		).
		From("market_data").
		Where(squirrel.Eq{"symbol": symbol}).
		GroupBy("bucket_time", "symbol").
		OrderBy("bucket_time DESC").
		Limit(uint64(limit)).
		ToSql()
}

// Symbols lists the distinct symbols in the file.
func (s *DuckDBSource) Symbols(ctx context.Context) ([]string, error) {
	query, args, err := s.sq.Select("DISTINCT symbol").From("market_data").OrderBy("symbol").ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to build query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to query symbols", err)
	}
	defer rows.Close()

	var symbols []string

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to scan symbol", err)
		}

		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "error iterating symbols", err)
	}

	return symbols, nil
}

// Close implements CandleSource.
func (s *DuckDBSource) Close() error {
	return s.db.Close()
}
