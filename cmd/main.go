package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"fleaflip/pkg/config"
	"fleaflip/pkg/logging"
	"fleaflip/pkg/report"
	"fleaflip/pkg/tarkov"
)

func main() {
	var (
		configPath = flag.String("config", "config.yml", "Path to the configuration file")
		limit      = flag.Int("limit", 25, "Number of items to print (0 prints every item)")
		markdown   = flag.String("markdown", "", "Also write the listing as a markdown table to this file")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		fmt.Println("FleaFlip - flea market flips")
		fmt.Println("============================")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  -config=config.yml  Configuration file (optional)")
		fmt.Println("  -limit=N            Print the N most profitable items (0 = all)")
		fmt.Println("  -markdown=FILE      Save the listing as a markdown table")
		fmt.Println("  -help               Show this help message")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  ./main -limit=10")
		fmt.Println("  ./main -limit=0 -markdown=output/flips.md")
		return
	}

	if *limit < 0 {
		log.Fatal("-limit must be zero or positive. Use -help for more information.")
	}

	cfg, err := config.LoadConfigForCLI(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger.SetOutput(os.Stderr)

	fmt.Printf("Configuration loaded:\n")
	fmt.Printf("   API URL: %s\n", cfg.Tarkov.APIURL)
	if cfg.Tarkov.GameMode != "" {
		fmt.Printf("   Game mode: %s\n", cfg.Tarkov.GameMode)
	}
	fmt.Printf("   Market vendor: %s\n", cfg.Tarkov.MarketVendor)
	fmt.Printf("   Log Level: %s\n", cfg.Logging.Level)

	source := tarkov.NewAPIDataSource(&tarkov.ClientConfig{
		BaseURL:   cfg.Tarkov.APIURL,
		UserAgent: cfg.Tarkov.UserAgent,
		GameMode:  cfg.Tarkov.GameMode,
		Timeout:   cfg.Tarkov.GetTimeout(),
	})
	builder := tarkov.NewCatalogBuilder(source, cfg.Tarkov.MarketVendor, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Refresh.GetTimeout())
	defer cancel()

	fmt.Println("\nLoading flea market data...")
	start := time.Now()
	catalog, err := builder.BuildCatalog(ctx)
	if err != nil {
		log.Fatalf("Failed to build catalog: %v", err)
	}

	formatter := report.NewOutputFormatter()
	fmt.Print(formatter.FormatForTerminal(catalog, *limit))

	if *markdown != "" {
		filename := filepath.Clean(*markdown)
		if dir := filepath.Dir(filename); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatalf("Failed to create output directory: %v", err)
			}
		}
		if err := os.WriteFile(filename, []byte(formatter.FormatForMarkdown(catalog, *limit)), 0644); err != nil {
			log.Fatalf("Failed to write markdown file %s: %v", filename, err)
		}
		fmt.Printf("Results saved to: %s\n", filename)
	}

	fmt.Printf("\nDone in %s: %d items with a flea price\n", time.Since(start).Truncate(time.Millisecond), catalog.Len())
}
