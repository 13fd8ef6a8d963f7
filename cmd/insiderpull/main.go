package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	insider "github.com/RxDataLab/go-insider"
)

func main() {
	var (
		startDate string
		endDate   string
		outputDir string
		limit     int
	)

	flag.StringVar(&startDate, "start", "", "Start date YYYY-MM-DD (or INSIDER_START_DATE)")
	flag.StringVar(&endDate, "end", "", "End date YYYY-MM-DD (or INSIDER_END_DATE)")
	flag.StringVar(&outputDir, "output", "", "Output directory (or INSIDER_OUTPUT_DIR)")
	flag.IntVar(&limit, "limit", -1, "Max filings per day, 0 = unlimited (or INSIDER_FILING_LIMIT)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: insiderpull [options]\n\n")
		fmt.Fprintf(os.Stderr, "Pull SEC Form 4 filings for a date range, enrich open-market trades\n")
		fmt.Fprintf(os.Stderr, "with price and benchmark context, and write a trades CSV.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
		fmt.Fprintf(os.Stderr, "  SEC_EMAIL          Contact email for the SEC User-Agent header (required)\n")
		fmt.Fprintf(os.Stderr, "  INSIDER_PROXIES    Comma-separated egress proxy URLs (optional)\n")
		fmt.Fprintf(os.Stderr, "  INSIDER_PACE_DELAY Delay between enrichments (default 1s)\n")
	}

	flag.Parse()

	if err := run(startDate, endDate, outputDir, limit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(startDate, endDate, outputDir string, limit int) error {
	godotenv.Load(".env")

	cfg, err := insider.LoadConfig()
	if err != nil {
		return err
	}
	if startDate != "" {
		cfg.StartDate = startDate
	}
	if endDate != "" {
		cfg.EndDate = endDate
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if limit >= 0 {
		cfg.FilingLimit = limit
	}

	start, end, err := cfg.DateRange()
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger := insider.NewErrorLedger()

	clientOpts := []insider.ClientOption{insider.WithLogger(logger)}
	if len(cfg.Proxies) > 0 {
		logger.Info("proxy usage enabled", zap.Int("proxies", len(cfg.Proxies)))
		clientOpts = append(clientOpts, insider.WithProxies(cfg.Proxies))
	}
	client := insider.NewClient(insider.BuildUserAgent(cfg.SECEmail), clientOpts...)

	runner := &insider.Runner{
		Index:  insider.NewIndexReader(client, insider.WithIndexLogger(logger)),
		Parser: insider.NewFilingParser(client, logger),
		Enricher: insider.NewEnricher(insider.NewYahooClient(), ledger,
			insider.WithPace(cfg.PaceDelay),
			insider.WithEnricherLogger(logger)),
		Ledger:      ledger,
		Logger:      logger,
		FilingLimit: cfg.FilingLimit,
	}

	logger.Info("starting Form 4 pull",
		zap.String("start", cfg.StartDate),
		zap.String("end", cfg.EndDate))

	enriched, summary, err := runner.Run(ctx, start, end)
	if err != nil {
		return err
	}

	if len(enriched) > 0 {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		tradesPath := filepath.Join(cfg.OutputDir, rangeFileName(cfg.StartDate, cfg.EndDate, "Trades"))
		if err := writeCSVFile(tradesPath, func(f *os.File) error {
			return insider.WriteCSV(f, enriched)
		}); err != nil {
			ledger.Append(insider.CategoryCSVWrite, fmt.Sprintf("%s - %v", tradesPath, err))
		} else {
			logger.Info("trades exported", zap.String("path", tradesPath), zap.Int("rows", len(enriched)))
		}
	}

	if !ledger.Empty() {
		errorsPath := filepath.Join(cfg.OutputDir, rangeFileName(cfg.StartDate, cfg.EndDate, "errors"))
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			logger.Warn("failed to create output directory", zap.Error(err))
		} else if err := writeCSVFile(errorsPath, func(f *os.File) error {
			return insider.WriteErrorCSV(f, ledger)
		}); err != nil {
			logger.Warn("failed to export error ledger", zap.Error(err))
		}
	}

	fmt.Println("--- Quantitative Impact ---")
	fmt.Print(summary)
	fmt.Println("\n--- Error Log Summary ---")
	fmt.Print(ledger.Summary())
	return nil
}

func buildLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if parsed, err := zap.ParseAtomicLevel(level); err == nil {
		zapCfg.Level = parsed
	}
	return zapCfg.Build()
}

func rangeFileName(start, end, suffix string) string {
	if start == end {
		return fmt.Sprintf("%s_%s.csv", start, suffix)
	}
	return fmt.Sprintf("%s_to_%s_%s.csv", start, end, suffix)
}

func writeCSVFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
