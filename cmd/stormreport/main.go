// Command stormreport analyzes a NOAA storm-events CSV and reports which
// weather event categories are most harmful to population health and which
// have the greatest economic consequences.
//
// Usage:
//
//	stormreport -i StormData.csv.bz2
//	stormreport -i StormData.csv.bz2 --from-year 1996 --to-year 2011 \
//	  -n 10 --report-type csv,json -d ./out
//
// Ambient configuration (logging, metrics endpoint, Kafka anomaly
// publishing) comes from the environment; see internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frankjungdss/repdata-project2/internal/adapter/console"
	"github.com/frankjungdss/repdata-project2/internal/adapter/csvfile"
	"github.com/frankjungdss/repdata-project2/internal/adapter/export"
	httpadapter "github.com/frankjungdss/repdata-project2/internal/adapter/http"
	kafkaadapter "github.com/frankjungdss/repdata-project2/internal/adapter/kafka"
	"github.com/frankjungdss/repdata-project2/internal/config"
	"github.com/frankjungdss/repdata-project2/internal/observability"
	"github.com/frankjungdss/repdata-project2/internal/pipeline"
	"github.com/frankjungdss/repdata-project2/internal/report"
)

type options struct {
	input       string
	fromYear    int
	toYear      int
	topN        int
	strict      bool
	reportTypes []string
	reportName  string
	dir         string
	noColor     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "stormreport",
		Short:         "Rank storm event categories by casualties and economic damage",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "path to the storm-events CSV (plain, .gz, or .bz2)")
	cmd.Flags().IntVar(&opts.fromYear, "from-year", pipeline.DefaultFromYear, "inclusive lower year bound")
	cmd.Flags().IntVar(&opts.toYear, "to-year", 0, "inclusive upper year bound (0 = dataset maximum)")
	cmd.Flags().IntVarP(&opts.topN, "top", "n", report.DefaultTopN, "categories to show per ranking")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "abort on the first malformed row instead of skipping it")
	cmd.Flags().StringSliceVar(&opts.reportTypes, "report-type", nil, "export formats: csv, json")
	cmd.Flags().StringVar(&opts.reportName, "report-name", "storm_report", "base name for exported files")
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "directory for exported files (default: current directory)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cobra.CheckErr(cmd.MarkFlagRequired("input"))

	return cmd
}

func run(ctx context.Context, opts options) error {
	for _, kind := range opts.reportTypes {
		if kind != "csv" && kind != "json" {
			return fmt.Errorf("unsupported report type %q (expected csv or json)", kind)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	source, err := csvfile.Open(opts.input)
	if err != nil {
		return err
	}
	defer source.Close()

	var sink pipeline.AnomalySink
	if cfg.AnomalyPublish {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer writer.Close()
		sink = writer
		logger.Info("anomaly publishing enabled", "topic", cfg.KafkaAnomalyTopic)
	}

	p := pipeline.New(source, sink, logger, metrics, pipeline.Options{
		FromYear: opts.fromYear,
		ToYear:   opts.toYear,
		Strict:   opts.strict,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	rep := report.Build(result, opts.topN)

	renderer := console.NewRenderer(os.Stdout, opts.noColor)
	if err := renderer.Render(rep); err != nil {
		return err
	}

	for _, kind := range opts.reportTypes {
		var path string
		switch kind {
		case "csv":
			path, err = export.ToCSV(rep, opts.reportName, opts.dir)
		case "json":
			path, err = export.ToJSON(rep, opts.reportName, opts.dir)
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", kind, err)
		}
		logger.Info("report exported", "type", kind, "path", path)
	}

	return nil
}
