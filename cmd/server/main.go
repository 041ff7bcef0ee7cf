package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linkmux/linkmux/internal/cache/memory"
	"github.com/linkmux/linkmux/internal/config"
	"github.com/linkmux/linkmux/internal/domain"
	"github.com/linkmux/linkmux/internal/provider"
	"github.com/linkmux/linkmux/internal/repository"
	"github.com/linkmux/linkmux/internal/repository/sqlite"
	"github.com/linkmux/linkmux/internal/service"
	"github.com/linkmux/linkmux/internal/stats"
	httpTransport "github.com/linkmux/linkmux/internal/transport/http"
)

var rootCmd = &cobra.Command{
	Use:   "linkmux",
	Short: "A multi-provider URL shortening dispatcher",
	Long:  "Fans a URL out to multiple third-party shortening services (Bitly, TinyURL, Cuttly, GPLinks) with per-provider auth, timeout, and failure reporting",
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the status web server",
	RunE:  runServer,
}

var shortenCmd = &cobra.Command{
	Use:   "shorten [URL]",
	Short: "Shorten a URL with one provider or all of them",
	Args:  cobra.ExactArgs(1),
	RunE:  runShorten,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe every provider and report reachability",
	RunE:  runHealth,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-provider API key configuration",
	RunE:  runStatus,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent shorten attempts from the history store",
	RunE:  runHistory,
}

func init() {
	serverCmd.Flags().StringP("port", "p", "", "Server port (overrides PORT)")

	shortenCmd.Flags().String("provider", "", "Provider to use (bitly, tinyurl, cuttly, gplinks); all providers when omitted")

	historyCmd.Flags().Int("limit", 20, "Number of entries to show")

	rootCmd.AddCommand(serverCmd, shortenCmd, healthCmd, statusCmd, historyCmd)
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = parsed
	return cfg.Build()
}

type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	registry   *prometheus.Registry
	dispatcher service.Dispatcher
}

// newApp wires the dispatch engine from configuration.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	statsRegistry := stats.New(registry)

	var history repository.HistoryRepository
	if cfg.HistoryDBPath != "" {
		history, err = sqlite.New(cfg.HistoryDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
		logger.Info("history store enabled", zap.String("path", cfg.HistoryDBPath))
	}

	adapters := provider.NewAdapters(cfg, logger)
	dispatcher := service.NewDispatcher(adapters, memory.New(), statsRegistry, history, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		registry:   registry,
		dispatcher: dispatcher,
	}, nil
}

func (a *app) close() {
	if err := a.dispatcher.Close(); err != nil {
		a.logger.Error("error closing dispatcher", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func runServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		a.cfg.ServerPort = port
	}

	server := httpTransport.NewServer(a.dispatcher, a.cfg, a.registry, a.logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		a.logger.Info("received signal, shutting down gracefully", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("error during server shutdown", zap.Error(err))
		}
	}

	return nil
}

func runShorten(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	url := args[0]
	providerFlag, _ := cmd.Flags().GetString("provider")

	if providerFlag != "" {
		providerID := domain.ProviderID(providerFlag)
		if !providerID.Valid() {
			return fmt.Errorf("unknown provider %q", providerFlag)
		}
		printOutcome(a.dispatcher.ShortenOne(ctx, url, providerID))
		return nil
	}

	result := a.dispatcher.ShortenAll(ctx, url)
	for _, outcome := range result.Outcomes {
		printOutcome(outcome)
	}
	fmt.Printf("%d/%d successful\n", result.SuccessCount(), len(result.Outcomes))

	return nil
}

func printOutcome(outcome domain.ShortenOutcome) {
	name := outcome.Provider.Info().Name
	if outcome.OK() {
		fmt.Printf("%-8s %s\n", name+":", outcome.ShortURL)
		return
	}

	reason := "service temporarily unavailable"
	switch {
	case errors.Is(outcome.Err, domain.ErrInvalidURL):
		reason = "invalid URL"
	case errors.Is(outcome.Err, domain.ErrUnconfigured):
		reason = "API key not configured"
	case errors.Is(outcome.Err, domain.ErrQuotaOrAuth):
		reason = "quota exceeded or invalid API key"
	case errors.Is(outcome.Err, domain.ErrTimeout):
		reason = "timed out"
	}
	fmt.Printf("%-8s FAILED (%s)\n", name+":", reason)
}

func runHealth(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	health := a.dispatcher.CheckAllHealth(ctx)
	for _, id := range domain.AllProviderIDs {
		h := health[id]
		if h.Status == domain.HealthConnected {
			fmt.Printf("%-8s %s (%.1fms)\n", id.Info().Name+":", h.Status, h.ResponseTimeMS)
		} else {
			fmt.Printf("%-8s %s\n", id.Info().Name+":", h.Status)
		}
	}

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	for _, id := range domain.AllProviderIDs {
		fmt.Printf("%-8s %s\n", id.Info().Name+":", a.cfg.KeyPreview(id))
	}

	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	limit, _ := cmd.Flags().GetInt("limit")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entries, err := a.dispatcher.History(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if entries == nil {
		fmt.Println("History store disabled; set HISTORY_DB_PATH to enable it")
		return nil
	}

	for _, entry := range entries {
		status := "ok"
		if !entry.Succeeded {
			status = "failed"
		}
		fmt.Printf("%s  %-8s %-6s %s -> %s\n",
			entry.CreatedAt.Format(time.RFC3339), entry.Provider, status, entry.OriginalURL, entry.ShortURL)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
