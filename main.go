package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"shadow-claim/internal/config"
	"shadow-claim/internal/engine"
	"shadow-claim/internal/fixture"
	"shadow-claim/internal/handler"
	"shadow-claim/internal/obs"
	"shadow-claim/internal/payout"
	"shadow-claim/internal/procedures"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "shadow-claim",
		Short:        "Hospital claim payout simulator",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the simulation HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func simulateCmd() *cobra.Command {
	var (
		file string
		now  string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one claim from a JSON or YAML request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, file, now)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "request file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&now, "now", "", "evaluation time as RFC3339, defaults to the current time")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func buildEngine(cfg *config.Config, logger zerolog.Logger, metrics *obs.Metrics, opts ...payout.Option) *engine.Engine {
	return engine.New(engine.Options{
		Simulator:        payout.New(cfg.Engine(), opts...),
		Procedures:       procedures.NewRegistry(cfg.ProcedureRegistryURL, logger),
		Metrics:          metrics,
		Logger:           logger,
		MaxBatchSize:     cfg.MaxBatchSize,
		BatchConcurrency: cfg.BatchConcurrency,
	})
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)
	metrics := obs.NewMetrics("shadow_claim", prometheus.DefaultRegisterer)

	h := handler.New(buildEngine(cfg, logger, metrics), metrics, prometheus.DefaultGatherer, logger)
	srv := &fasthttp.Server{
		Handler:      h.Handle,
		Name:         "shadow-claim",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr()).Str("env", cfg.AppEnv).Msg("shadow-claim simulator starting")
		errCh <- srv.ListenAndServe(cfg.HTTPAddr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runSimulate(cmd *cobra.Command, file, now string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)

	var opts []payout.Option
	if now != "" {
		at, err := time.Parse(time.RFC3339, now)
		if err != nil {
			return fmt.Errorf("--now: %w", err)
		}
		opts = append(opts, payout.WithClock(func() time.Time { return at }))
	}

	req, err := fixture.LoadRequest(file)
	if err != nil {
		return err
	}
	resp, simErr := buildEngine(cfg, logger, nil, opts...).Process(cmd.Context(), req)
	if simErr != nil && !engine.IsValidation(simErr) {
		return simErr
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if simErr != nil {
		return errors.New("simulation rejected")
	}
	return nil
}
