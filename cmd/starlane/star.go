package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/starlane-io/starlane/api/metrics"
	"github.com/starlane-io/starlane/config"
	"github.com/starlane-io/starlane/lane"
	"github.com/starlane-io/starlane/logging"
	"github.com/starlane-io/starlane/machine"
	"github.com/starlane-io/starlane/registry"
	"github.com/starlane-io/starlane/star"
)

func starCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "star",
		Short: "Boot and inspect stars",
	}
	cmd.AddCommand(starRunCmd(), starStatusCmd())
	return cmd
}

func starRunCmd() *cobra.Command {
	var configPath, addr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Boot a star from a config file and serve its control surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStar(cmd.Context(), configPath, addr)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to the star config file (required)")
	cmd.Flags().StringVar(&addr, "listen", "127.0.0.1:7070", "address the status/health HTTP surface listens on")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runStar(ctx context.Context, configPath, addr string) error {
	f, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	logger := logging.NewNoOp()
	key := lane.StarKeyOf(f.StarKey)

	s := star.New(key, f.Params, logger, registry.NewMemory(), registry.DriverTable{})

	promReg := metrics.NewRegistry()
	met, err := metrics.NewMetrics("starlane", promReg)
	if err != nil {
		return fmt.Errorf("starlane: register metrics: %w", err)
	}
	s.SetMetrics(met)

	gatherer := metrics.NewMultiGatherer()
	if err := gatherer.Register(string(key), promReg); err != nil {
		return fmt.Errorf("starlane: register gatherer: %w", err)
	}

	m := machine.New(logger)
	m.Add(s)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.Run(runCtx)
	go m.Run(runCtx)

	mux := http.NewServeMux()
	mux.Handle("/status", m.StatusHandler())
	mux.Handle("/health", m.HealthHandler())
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "starlane: http server: %v\n", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	fmt.Printf("starlane: star %s ready, control surface on %s\n", key, addr)

	select {
	case <-ctx.Done():
	case <-sigCh:
		fmt.Println("starlane: shutting down")
	}

	m.Terminate()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	return m.AwaitTermination(shutdownCtx)
}

func starStatusCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Query a running star's machine status over its control surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := http.Get(fmt.Sprintf("http://%s/status", addr))
			if err != nil {
				return fmt.Errorf("starlane: status query: %w", err)
			}
			defer resp.Body.Close()

			var body map[string]interface{}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("starlane: decode status response: %w", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(body)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7070", "address of the star's control surface")
	return cmd
}
