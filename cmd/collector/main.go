// Command collector runs a batch collection: for every company, year
// and quarter requested it fetches the OpenDART financial statements,
// derives the ratio set and merges the rows into per-company CSV files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"dartcli/internal/archive"
	"dartcli/internal/collector"
	"dartcli/internal/config"
	"dartcli/internal/dart"
	"dartcli/internal/exporter"
	"dartcli/internal/infrastructure"
	"dartcli/pkg/contracts/domain"
)

func main() {
	companiesFile := flag.String("companies", "", "company list file (.csv or .xlsx) with stock_code, corp_name, label columns")
	stockCodes := flag.String("stock-codes", "", "comma-separated stock codes to collect instead of a company file")
	years := flag.String("years", "", "years to collect: comma-separated and/or ranges, e.g. 2021,2023 or 2020-2023")
	quarters := flag.String("quarters", "", "quarters to collect (Q1,H1,Q3,ANNUAL); default all")
	fsDiv := flag.String("fs-div", "CFS", "statement division: CFS (consolidated, with OFS fallback) or OFS")
	out := flag.String("out", "", "output directory for ratio CSV files (default data/output)")
	delay := flag.Duration("delay", 0, "delay between statement fetches (default from config, 500ms)")
	force := flag.Bool("force", false, "re-fetch quarters already present in the output files")
	saveRaw := flag.Bool("save-raw", false, "save raw statement JSON locally under data/raw")
	s3Bucket := flag.String("s3-bucket", "", "mirror raw statement JSON to this S3 bucket")
	apiKey := flag.String("api-key", "", "OpenDART API key (overrides DART_API_KEY)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	if *delay > 0 {
		cfg.Dart.FetchDelay = *delay
	}
	if *out != "" {
		cfg.Paths.OutputDir = *out
	}
	if *s3Bucket != "" {
		cfg.S3.Bucket = *s3Bucket
		cfg.S3.Enabled = true
	}

	if err := cfg.Paths.EnsureDirectories(*saveRaw); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg.Logging.FilePath = cfg.Paths.LogPath("collector.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.WithTraceID(ctx, uuid.NewString())
	logger = infrastructure.LoggerFromContext(ctx)

	key, err := cfg.RequireAPIKey(*apiKey)
	if err != nil {
		logger.Error("Configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	companies, err := loadCompanies(*companiesFile, *stockCodes)
	if err != nil {
		logger.Error("Cannot load companies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	yearList, err := parseYears(*years)
	if err != nil {
		logger.Error("Invalid --years", slog.String("error", err.Error()))
		os.Exit(1)
	}
	periodList, err := parseQuarters(*quarters)
	if err != nil {
		logger.Error("Invalid --quarters", slog.String("error", err.Error()))
		os.Exit(1)
	}
	division := domain.StatementDivision(strings.ToUpper(strings.TrimSpace(*fsDiv)))
	if !division.Valid() {
		logger.Error("Invalid --fs-div", slog.String("value", *fsDiv))
		os.Exit(1)
	}

	client := dart.NewClient(key, cfg.Dart, logger)
	resolver := dart.NewResolver(client, cfg.Paths.CorpCodePath())
	store := exporter.NewRatioStore(cfg.Paths.OutputDir)

	archiver, err := buildArchiver(ctx, cfg, *saveRaw, logger)
	if err != nil {
		logger.Error("Cannot set up raw archive", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting collection",
		slog.Int("companies", len(companies)),
		slog.Any("years", yearList),
		slog.String("fs_div", string(division)),
		slog.Bool("force", *force),
		slog.String("output_dir", cfg.Paths.OutputDir))

	runner := collector.New(client, resolver, store, archiver, logger)
	summary, err := runner.Run(ctx, companies, collector.Options{
		Years:    yearList,
		Periods:  periodList,
		Division: division,
		Force:    *force,
	})
	if err != nil {
		logger.Error("Collection aborted", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Partial failures are reported but do not fail the run; only fatal
	// setup errors exit non-zero.
	fmt.Printf("Collected %d rows (%d companies, %d unresolved, %d units skipped, %d units failed)\n",
		summary.RowsCollected, summary.Companies, summary.CompaniesError,
		summary.UnitsSkipped, summary.UnitsFailed)
}

// loadCompanies builds the batch roster from a company file or an
// ad-hoc stock-code list. Exactly one source must be given.
func loadCompanies(companiesFile, stockCodes string) ([]domain.CompanyRef, error) {
	switch {
	case companiesFile != "" && stockCodes != "":
		return nil, fmt.Errorf("use either --companies or --stock-codes, not both")
	case companiesFile != "":
		return collector.LoadCompanies(companiesFile)
	case stockCodes != "":
		var companies []domain.CompanyRef
		for _, code := range strings.Split(stockCodes, ",") {
			code = strings.TrimSpace(code)
			if code == "" {
				continue
			}
			// Ad-hoc runs have no classification label; the column
			// stays empty in the output.
			companies = append(companies, domain.CompanyRef{StockCode: code})
		}
		if len(companies) == 0 {
			return nil, fmt.Errorf("--stock-codes contains no codes")
		}
		return companies, nil
	default:
		return nil, fmt.Errorf("either --companies or --stock-codes is required")
	}
}

// parseYears accepts comma-separated years and inclusive ranges, e.g.
// "2021,2023" or "2019-2022" or a mix of both.
func parseYears(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("--years is required")
	}

	var years []string
	seen := make(map[string]bool)
	add := func(year int) {
		s := strconv.Itoa(year)
		if !seen[s] {
			seen[s] = true
			years = append(years, s)
		}
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if from, to, ok := strings.Cut(part, "-"); ok {
			start, err := parseYear(from)
			if err != nil {
				return nil, err
			}
			end, err := parseYear(to)
			if err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("year range %q is reversed", part)
			}
			for y := start; y <= end; y++ {
				add(y)
			}
			continue
		}
		year, err := parseYear(part)
		if err != nil {
			return nil, err
		}
		add(year)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("--years contains no years")
	}
	return years, nil
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || year < 1990 || year > time.Now().Year()+1 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}

func parseQuarters(raw string) ([]domain.ReportPeriod, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var periods []domain.ReportPeriod
	for _, part := range strings.Split(raw, ",") {
		period := domain.ReportPeriod(strings.ToUpper(strings.TrimSpace(part)))
		if _, err := period.ReportCode(); err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	return periods, nil
}

// buildArchiver selects the raw archive backend: S3 when a bucket is
// configured, local files for --save-raw, nil otherwise.
func buildArchiver(ctx context.Context, cfg *config.Config, saveRaw bool, logger *slog.Logger) (archive.Archiver, error) {
	if cfg.S3.Enabled && cfg.S3.Bucket != "" {
		if err := cfg.RequireS3(); err != nil {
			return nil, err
		}
		return archive.NewS3Archive(ctx, cfg.S3, logger)
	}
	if saveRaw {
		return archive.NewLocalArchive(cfg.Paths.RawDir), nil
	}
	return nil, nil
}
