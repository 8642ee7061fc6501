package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/config"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/core"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/dashboard"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger"
	zlog "github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/logger/zerolog"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/metric"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/notification"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/refresh"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/storage"
	"github.com/AGHusky0611/Vantage-MarketAnalysis/pkg/vantage"
	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	// Watch command flags
	watchCategories []string
	showHistogram   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "vantage",
		Short:   "Market analysis dashboard",
		Version: "1.0.0",
	}

	rootCmd.AddCommand(buildServeCmd())
	rootCmd.AddCommand(buildWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		RunE:  runServe,
	}
}

func buildWatchCmd() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the current watchlist quotes",
		RunE:  runWatch,
	}

	watchCmd.Flags().StringSliceVarP(&watchCategories, "categories", "c",
		[]string{"stocks", "crypto", "tokens"}, "Watchlist categories to fetch")
	watchCmd.Flags().BoolVar(&showHistogram, "histogram", false,
		"Plot a histogram of percent changes")

	return watchCmd
}

func newLogger(level string) (logger.Logger, error) {
	root, err := zlog.NewZerolog(level, time.RFC3339, true, false)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return zlog.NewAdapter(root.Logger), nil
}

func newStorage(cfg config.StorageConfig) (core.SnapshotStorage, error) {
	switch cfg.Driver {
	case "memory":
		return storage.FromMemory()
	case "file":
		return storage.FromFile(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	store, err := newStorage(cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	client := vantage.NewClient(cfg.APIBaseURL, log)

	serverOptions := []dashboard.ServerOption{
		dashboard.WithPort(cfg.Port),
	}
	if cfg.MetricsEnabled {
		serverOptions = append(serverOptions, dashboard.WithMetricsEndpoint())
	}

	server, err := dashboard.NewServer(log, serverOptions...)
	if err != nil {
		return err
	}

	if cfg.Watchboard.Enabled {
		board, err := dashboard.NewWatchboard(
			client,
			server.WSManager(),
			cfg.Watchboard.Spec,
			cfg.Watchboard.Categories,
			log,
		)
		if err != nil {
			return err
		}
		server.AttachWatchboard(board)
	}

	schedulerOptions := []refresh.Option{
		refresh.WithInterval(cfg.RefreshInterval),
	}
	if cfg.MetricsEnabled {
		schedulerOptions = append(schedulerOptions, refresh.WithMetrics(metric.NewRecorder()))
	}

	sessionOptions := []dashboard.SessionOption{
		dashboard.WithStorage(store),
		dashboard.WithOnUpdate(func(analysis *core.Analysis, status refresh.Status) {
			server.WSManager().Broadcast("analysis", map[string]any{
				"analysis": analysis,
				"refresh":  status,
			})
		}),
	}

	if cfg.Telegram.Enabled {
		notifier, err := notification.NewTelegram(cfg.Telegram.Token, cfg.Telegram.Users, log)
		if err != nil {
			return err
		}
		sessionOptions = append(sessionOptions, dashboard.WithNotifier(notifier))
	}

	session := dashboard.NewSession(
		client,
		server.Surface(),
		log,
		schedulerOptions,
		sessionOptions...,
	)
	defer session.Close()

	server.AttachSession(session)

	return server.Start(dashboard.NewStandardHTTPServer())
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := newLogger("error")
	if err != nil {
		return err
	}

	client := vantage.NewClient(cfg.APIBaseURL, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	progressBar := progressbar.Default(int64(len(watchCategories)))

	type row struct {
		category string
		item     vantage.WatchItem
	}

	var (
		rows    []row
		changes []float64
	)

	for _, category := range watchCategories {
		items, err := client.WatchlistCategory(ctx, category)
		if err != nil {
			return fmt.Errorf("failed to fetch category %s: %w", category, err)
		}

		for _, item := range items {
			rows = append(rows, row{category: category, item: item})
			if item.ChangePct != nil {
				changes = append(changes, *item.ChangePct)
			}
		}

		if err := progressBar.Add(1); err != nil {
			log.Warnf("update progressbar fail: %v", err)
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Category", "Ticker", "Name", "Price", "Change", "% Change"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	for _, r := range rows {
		table.Append([]string{
			strings.ToUpper(r.category),
			r.item.Ticker,
			r.item.Name,
			formatPrice(r.item.Price),
			formatPrice(r.item.Change),
			formatPercent(r.item.ChangePct),
		})
	}
	table.Render()

	if showHistogram && len(changes) > 0 {
		fmt.Println("------ % CHANGE DISTRIBUTION -------")
		hist := histogram.Hist(10, changes)
		if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(10)); err != nil {
			return err
		}
	}

	return nil
}

func formatPrice(value *float64) string {
	if value == nil {
		return "-"
	}

	// Small-cap tokens need more precision than equities.
	precision := core.NumDecPlaces(*value)
	if precision < 2 {
		precision = 2
	} else if precision > 6 {
		precision = 6
	}

	return strconv.FormatFloat(*value, 'f', int(precision), 64)
}

func formatPercent(value *float64) string {
	if value == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f %%", *value)
}
