package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ark9164-create/torscrape/internal/api"
	"github.com/ark9164-create/torscrape/internal/browser"
	"github.com/ark9164-create/torscrape/internal/config"
	"github.com/ark9164-create/torscrape/internal/monitoring"
	"github.com/ark9164-create/torscrape/internal/scraper"
	"github.com/ark9164-create/torscrape/internal/storage"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the scrape service with an HTTP API and worker pool.",
	Run: func(cmd *cobra.Command, args []string) {
		logger, _ := zap.NewProduction()
		defer logger.Sync()

		cfg, err := config.Load()
		if err != nil {
			logger.Fatal("could not load config", zap.Error(err))
		}

		pgStore, err := storage.NewPostgresStore(cfg.PostgresURL)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pgStore.Close()
		redisStore := storage.NewRedisStore(cfg.RedisAddr)

		metrics := monitoring.NewMetrics()

		session := browser.NewSession(cfg.Headless,
			time.Duration(cfg.ScrapeTimeout)*time.Second,
			time.Duration(cfg.SettleDelay)*time.Second,
			logger)
		runner := scraper.NewRunner(session, cfg.TargetURL, logger)

		service := scraper.NewService(cfg, runner, redisStore, pgStore, metrics, logger)
		service.Start()

		server := api.NewServer(cfg, service, pgStore, redisStore, logger)

		go func() {
			if err := server.Start(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("could not start server", zap.Error(err))
			}
		}()

		logger.Info("server started", zap.String("port", cfg.ServerPort))

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		service.Stop()

		if err := server.Shutdown(ctx); err != nil {
			logger.Fatal("server forced to shutdown", zap.Error(err))
		}

		logger.Info("server exiting")
	},
}
