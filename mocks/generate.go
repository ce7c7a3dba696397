package mocks

//go:generate mockgen -destination=./mock_candle_source.go -package=mocks github.com/rxtech-lab/argo-signal/pkg/marketdata/provider CandleSource
//go:generate mockgen -destination=./mock_binance_klines_api.go -package=mocks github.com/rxtech-lab/argo-signal/pkg/marketdata/provider BinanceKlinesAPI
