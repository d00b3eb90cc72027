package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wptable/rankmatrix/internal/smoke"
	"github.com/wptable/rankmatrix/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func smokeCmd() *cobra.Command {
	cfg := smoke.DefaultConfig()
	var logFormat string

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Check a running server and drive concurrent reads against it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWith(cmd.ErrOrStderr(), logFormat); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
			defer cancel()

			stats, err := smoke.Run(ctx, cfg, logger.Get().Named("smoke"))
			if stats != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "checks: %d/%d passed, requests: %d/%d ok, took %s\n",
					stats.ChecksPassed, stats.Checks, stats.RequestsOK, stats.Requests, stats.Duration.Round(time.Millisecond))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the server")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP request timeout")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent workers in the load phase")
	cmd.Flags().IntVar(&cfg.Requests, "requests", cfg.Requests, "GETs issued in the load phase")
	cmd.Flags().StringVar(&cfg.RowRank, "row-rank", cfg.RowRank, "row rank for the matches check")
	cmd.Flags().StringVar(&cfg.ColRank, "col-rank", cfg.ColRank, "column rank for the matches check")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every check and failed request")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
	return cmd
}
