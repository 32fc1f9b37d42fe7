package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"nhl-travel-service/internal/app/picks"
	"nhl-travel-service/internal/config"
	"nhl-travel-service/internal/logging"
	"nhl-travel-service/internal/metrics"
	"nhl-travel-service/internal/server"
)

const serviceName = "nhl-travel-service"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "nhl-travel-service",
		Short:        "NHL travel burden and back-to-back matchup service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	root.AddCommand(newServeCmd(), newTravelCmd(), newPicksCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, MCP endpoint, and cache warmer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := loadRuntime(nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger, appVersion)
	if err != nil {
		return err
	}
	srv.Run(ctx, stop)
	return nil
}

func newTravelCmd() *cobra.Command {
	var (
		date     string
		lookback int
	)
	cmd := &cobra.Command{
		Use:   "travel",
		Short: "Print per-team travel (km) for a date as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			o := picks.Overrides{Date: date}
			if cmd.Flags().Changed("lookback") {
				o.LookbackDays = &lookback
			}
			return withCore(cmd, func(ctx context.Context, core *server.Core) error {
				resp, err := core.Picks.Travel(ctx, o)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "target date YYYY-MM-DD (default today in SCHEDULE_TIMEZONE)")
	cmd.Flags().IntVar(&lookback, "lookback", 0, "lookback window in days")
	return cmd
}

func newPicksCmd() *cobra.Command {
	var (
		date      string
		mode      string
		when      string
		lookback  int
		threshold float64
		night     int
		dedupe    bool
	)
	cmd := &cobra.Command{
		Use:   "picks",
		Short: "Print ranked matchups as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := picks.ParseMode(mode)
			if err != nil {
				return err
			}
			w, err := picks.ParseWhen(when)
			if err != nil {
				return err
			}
			o := picks.Overrides{Date: date}
			if cmd.Flags().Changed("lookback") {
				o.LookbackDays = &lookback
			}
			if cmd.Flags().Changed("threshold") {
				o.Threshold = &threshold
			}
			if cmd.Flags().Changed("night-start") {
				o.NightStartHour = &night
			}

			return withCore(cmd, func(ctx context.Context, core *server.Core) error {
				var (
					list any
					err  error
				)
				if m == picks.Relaxed && dedupe {
					list, err = core.Picks.NextBest(ctx, w, o, true)
				} else {
					list, err = core.Picks.Picks(ctx, m, w, o)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{envelopeKey(m, w): list})
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "anchor date YYYY-MM-DD (default today in SCHEDULE_TIMEZONE)")
	cmd.Flags().StringVar(&mode, "mode", string(picks.Strict), "strict or relaxed")
	cmd.Flags().StringVar(&when, "when", string(picks.Today), "today, tomorrow, or future")
	cmd.Flags().IntVar(&lookback, "lookback", 0, "lookback window in days")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum away travel in km")
	cmd.Flags().IntVar(&night, "night-start", 0, "earliest local start hour 0-23")
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "relaxed mode only: drop games already in the strict list")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", serviceName, appVersion)
		},
	}
}

// envelopeKey returns the HTTP response key for the mode and window.
func envelopeKey(m picks.Mode, w picks.When) string {
	if m == picks.Relaxed {
		return "next_best_odds_matchups_" + string(w)
	}
	return "best_odds_matchups_" + string(w)
}

// withCore builds the app services for one-shot commands. Logs go to stderr.
func withCore(cmd *cobra.Command, run func(context.Context, *server.Core) error) error {
	cfg, logger, err := loadRuntime(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	core, err := server.NewCore(ctx, cfg, logger, metrics.NewRecorder())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := core.Close(); cerr != nil {
			logging.Warn(logger, "close failed", slog.Any("err", cerr))
		}
	}()
	return run(ctx, core)
}

// loadRuntime loads and validates config and builds the logger. A nil writer uses stdout or LOG_FILE.
func loadRuntime(w io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid config: %w", err)
	}
	logCfg := logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Service: serviceName,
		Version: appVersion,
		File:    cfg.Logging.File,
	}
	if w == nil || strings.TrimSpace(cfg.Logging.File) != "" {
		return cfg, logging.NewLogger(logCfg), nil
	}
	return cfg, logging.NewLoggerWithWriter(logCfg, w), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
