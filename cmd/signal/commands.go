package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/rxtech-lab/argo-signal/internal/api"
	"github.com/rxtech-lab/argo-signal/internal/logger"
	"github.com/rxtech-lab/argo-signal/internal/runner"
	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/types"
	"github.com/rxtech-lab/argo-signal/pkg/marketdata/provider"
)

func evaluateAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	asJSON := cmd.Bool("json")
	sink := a.sink(asJSON)

	var signals []types.Signal

	if path := cmd.String("candles"); path != "" {
		candles, err := readCandles(path)
		if err != nil {
			return err
		}

		signals, err = a.dispatcher.GenerateSignals(candles)
		if err != nil {
			return err
		}

		for _, signal := range signals {
			if err := sink.Publish(ctx, signal); err != nil {
				return err
			}
		}
	} else {
		source, err := a.newCandleSource()
		if err != nil {
			return err
		}
		defer source.Close()

		r, err := a.newRunner(source, sink)
		if err != nil {
			return err
		}

		signals, err = r.RunOnce(ctx)
		if err != nil {
			return err
		}
	}

	if len(signals) == 0 && !asJSON {
		description := a.dispatcher.DescribeActive()
		fmt.Fprintln(a.stdout, HelpStyle.Render(fmt.Sprintf("No signal from %s on %s %s", description.Name, a.config.Market.Symbol, a.config.Market.Interval)))
	}

	return nil
}

func pollAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	source, err := a.newCandleSource()
	if err != nil {
		return err
	}
	defer source.Close()

	r, err := a.newRunner(source, a.sink(cmd.Bool("json")))
	if err != nil {
		return err
	}

	return r.Run(ctx)
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	address := a.config.Server.Address
	if cmd.IsSet("address") {
		address = cmd.String("address")
	}

	var poller *runner.Runner

	if cmd.Bool("poll") {
		source, err := a.newCandleSource()
		if err != nil {
			return err
		}
		defer source.Close()

		poller, err = a.newRunner(source, runner.NewJSONSink(a.stdout))
		if err != nil {
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return api.NewServer(a.dispatcher, a.logger).ListenAndServe(groupCtx, address)
	})

	if poller != nil {
		group.Go(func() error {
			return poller.Run(groupCtx)
		})
	}

	return group.Wait()
}

func strategiesAction(_ context.Context, cmd *cli.Command) error {
	registry := strategy.NewDefaultRegistry()
	out := cmd.Root().Writer

	if name := cmd.Args().First(); name != "" {
		schema, err := registry.Schema(types.StrategyName(name))
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(out, schema)

		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	rows := make([][]string, 0)

	for _, name := range registry.List() {
		registration, err := registry.Get(name)
		if err != nil {
			return err
		}

		config := registration.DefaultConfig
		if params, ok := cfg.StrategyParams()[name]; ok {
			// show the configured values when they decode
			if s, err := registration.Factory(params, logger.NewNopLogger()); err == nil {
				config = s.Config()
			}
		}

		encoded, err := json.Marshal(config)
		if err != nil {
			return err
		}

		label := string(name)
		if name == cfg.ActiveStrategy() {
			label = ActiveStyle.Render(label)
		}

		rows = append(rows, []string{label, registration.Description, string(encoded)})
	}

	return writeLine(out, RenderTable([]string{"Strategy", "Description", "Config"}, rows))
}

func providersAction(_ context.Context, cmd *cli.Command) error {
	rows := make([][]string, 0)

	for _, info := range provider.GetSupportedProviders() {
		rows = append(rows, []string{info.Name, info.DisplayName, info.Description, strconv.FormatBool(info.RequiresAuth)})
	}

	return writeLine(cmd.Root().Writer, RenderTable([]string{"Provider", "Name", "Description", "Requires Auth"}, rows))
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)

	return err
}
