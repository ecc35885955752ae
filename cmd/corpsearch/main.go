// Command corpsearch looks up companies in the OpenDART corp-code
// table by name substring or stock code. The table is downloaded and
// cached under the data directory on first use.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dartcli/internal/config"
	"dartcli/internal/dart"
	"dartcli/internal/infrastructure"
)

func main() {
	name := flag.String("name", "", "company name substring (case-insensitive)")
	stockCode := flag.String("stock-code", "", "exact 6-digit stock code")
	limit := flag.Int("limit", 20, "maximum number of matches to print")
	refresh := flag.Bool("refresh", false, "force a redownload of the corp-code table")
	apiKey := flag.String("api-key", "", "OpenDART API key (overrides DART_API_KEY)")
	flag.Parse()

	if *name == "" && *stockCode == "" {
		fmt.Fprintln(os.Stderr, "either --name or --stock-code is required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	// Search output belongs on stdout; keep the log stream in the file.
	cfg.Logging.Output = "file"
	cfg.Logging.FilePath = cfg.Paths.LogPath("corpsearch.log")
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	key, err := cfg.RequireAPIKey(*apiKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := dart.NewClient(key, cfg.Dart, logger)
	resolver := dart.NewResolver(client, cfg.Paths.CorpCodePath())

	if *refresh {
		if err := resolver.Refresh(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "refresh corp-code table: %v\n", err)
			os.Exit(1)
		}
	}

	matches, err := resolver.Find(ctx, *name, *stockCode, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "search corp-code table: %v\n", err)
		os.Exit(1)
	}
	if len(matches) == 0 {
		fmt.Println("no matches")
		return
	}

	fmt.Printf("%-10s %-8s %-10s %s\n", "corp_code", "stock", "modified", "corp_name")
	for _, match := range matches {
		stock := match.StockCode
		if stock == "" {
			stock = "-"
		}
		fmt.Printf("%-10s %-8s %-10s %s\n", match.CorpCode, stock, match.ModifyDate, match.CorpName)
	}
}
