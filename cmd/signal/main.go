package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/argo-signal/internal/version"
	"github.com/rxtech-lab/argo-signal/pkg/marketdata/provider"
)

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "signal",
		Usage:   "Generate RSI and MACD trading signals from market candles",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config `FILE`",
				Sources: cli.EnvVars("ARGO_SIGNAL_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage:   "Strategy to load (overrides strategy.active)",
			},
			&cli.StringFlag{
				Name:  "symbol",
				Usage: "Symbol to evaluate (overrides market.symbol)",
			},
			&cli.StringFlag{
				Name:  "interval",
				Usage: "Candle interval (overrides market.interval)",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: fmt.Sprintf("Market data provider (%s, %s, %s)", provider.ProviderBinance, provider.ProviderPolygon, provider.ProviderDuckDB),
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Parquet or CSV file for the duckdb provider",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "evaluate",
				Usage: "Fetch candles once and print the signals of the active strategy",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "candles",
						Usage: "Read a JSON array of candles from `FILE` (- for stdin) instead of the provider",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print signals as JSON lines",
					},
				},
				Action: evaluateAction,
			},
			{
				Name:  "poll",
				Usage: "Evaluate on every poll interval until interrupted",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print signals as JSON lines",
					},
				},
				Action: pollAction,
			},
			{
				Name:  "serve",
				Usage: "Serve the strategy HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "address",
						Usage: "Listen address (overrides server.address)",
					},
					&cli.BoolFlag{
						Name:  "poll",
						Usage: "Also run the polling loop, printing signals as JSON lines",
					},
				},
				Action: serveAction,
			},
			{
				Name:      "strategies",
				Usage:     "List registered strategies, or print one strategy's config schema",
				ArgsUsage: "[name]",
				Action:    strategiesAction,
			},
			{
				Name:   "providers",
				Usage:  "List market data providers",
				Action: providersAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		log.Fatal(ErrorStyle.Render(err.Error()))
	}
}
