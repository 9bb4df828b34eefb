package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ark9164-create/torscrape/internal/browser"
	"github.com/ark9164-create/torscrape/internal/config"
	"github.com/ark9164-create/torscrape/internal/export"
	"github.com/ark9164-create/torscrape/internal/scraper"
)

var (
	scrapeDate   string
	outputPrefix string
	headed       bool
	timeoutSec   int
)

func init() {
	scrapeCmd.Flags().StringVar(&scrapeDate, "date", time.Now().Format("2006-01-02"), "Date label to include in output (YYYY-MM-DD)")
	scrapeCmd.Flags().StringVar(&outputPrefix, "output-prefix", "top_of_the_rock_prices", "Output filename prefix")
	scrapeCmd.Flags().BoolVar(&headed, "headed", false, "Run browser in headed mode")
	scrapeCmd.Flags().IntVar(&timeoutSec, "timeout", 90, "Navigation timeout in seconds")
	rootCmd.AddCommand(scrapeCmd)
}

// newRunLogger picks the console-friendly development logger when a human is
// watching the browser, JSON production logging otherwise.
func newRunLogger(headed bool) (*zap.Logger, error) {
	if headed {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--date YYYY-MM-DD] [--output-prefix NAME]",
	Short: "Runs a single scrape and writes <prefix>.json and <prefix>.csv.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newRunLogger(headed)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if _, err := time.Parse("2006-01-02", scrapeDate); err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			logger.Fatal("could not load config", zap.Error(err))
		}

		session := browser.NewSession(!headed,
			time.Duration(timeoutSec)*time.Second,
			time.Duration(cfg.SettleDelay)*time.Second,
			logger)
		runner := scraper.NewRunner(session, cfg.TargetURL, logger)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec+30)*time.Second)
		defer cancel()

		slots, err := runner.Run(ctx, scrapeDate)
		if err != nil {
			// Best-effort: still write empty output files so downstream
			// tooling sees a consistent shape.
			logger.Warn("scrape failed", zap.Error(err))
		}

		jsonPath, csvPath, err := export.WriteFiles(outputPrefix, slots)
		if err != nil {
			logger.Error("failed to write output files", zap.Error(err))
			return err
		}

		logger.Info("saved slots",
			zap.Int("count", len(slots)),
			zap.String("json", jsonPath),
			zap.String("csv", csvPath))
		return nil
	},
}
