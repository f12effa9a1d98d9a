package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"dealtrack/extractor"
	"dealtrack/internal/types"
	"dealtrack/tracker"
	"dealtrack/utils"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	var (
		urlFlag      = flag.String("url", "", "Product page URL to extract")
		fileFlag     = flag.String("file", "", "Local HTML file to extract (use with -page-url)")
		pageURLFlag  = flag.String("page-url", "", "Page URL to associate with -file input")
		outputFlag   = flag.String("output", "", "Output file path (default: stdout)")
		requestDelay = flag.Duration("delay", 1*time.Second, "Delay between requests")
		maxRetries   = flag.Int("retries", 3, "Maximum retry attempts")
		timeout      = flag.Duration("timeout", 30*time.Second, "Request timeout")
		useBrowser   = flag.Bool("browser", false, "Fetch with a headless browser (for JavaScript-heavy sites)")
		trackFlag    = flag.Bool("track", false, "Submit a tracking request after extraction")
		targetPrice  = flag.Float64("target-price", 0, "Target price for -track")
		trackDays    = flag.Int("track-days", 30, "Tracking window in days for -track")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if *urlFlag == "" && *fileFlag == "" {
		log.Fatal("Either -url or -file is required")
	}
	if *urlFlag != "" && *fileFlag != "" {
		log.Fatal("Cannot use both -url and -file")
	}

	// Setup logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	config := types.DefaultConfig()
	config.RequestDelay = *requestDelay
	config.MaxRetries = *maxRetries
	config.Timeout = *timeout
	config.UseHeadlessBrowser = *useBrowser

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	html, pageURL, err := loadPage(ctx, config, logger, *urlFlag, *fileFlag, *pageURLFlag)
	if err != nil {
		logger.Fatalf("Failed to load page: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Fatalf("Failed to parse HTML: %v", err)
	}

	ex := extractor.New(config, logger)
	info := ex.Extract(doc, pageURL)

	jsonData, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		logger.Fatalf("Failed to marshal result: %v", err)
	}

	if *outputFlag != "" {
		if err := os.WriteFile(*outputFlag, jsonData, 0644); err != nil {
			logger.Fatalf("Failed to write output file: %v", err)
		}
		logger.Infof("Result written to: %s", *outputFlag)
	} else {
		fmt.Println(string(jsonData))
	}

	if *trackFlag {
		if err := submitTracking(ctx, config, logger, info, *targetPrice, *trackDays); err != nil {
			logger.Fatalf("Tracking failed: %v", err)
		}
		logger.Info("Tracking request submitted")
	}
}

// loadPage fetches the product page over HTTP or a headless browser, or reads
// a local HTML file for offline runs.
func loadPage(ctx context.Context, config *types.Config, logger types.Logger, url, file, pageURL string) (string, string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return string(data), pageURL, nil
	}

	if config.UseHeadlessBrowser {
		browser := utils.NewBrowserClient(config, logger)
		html, err := browser.GetPageContent(ctx, url)
		return html, url, err
	}

	client := utils.NewHTTPClient(config, logger)
	defer client.Close()
	body, err := client.Get(ctx, url)
	if err != nil {
		return "", "", err
	}
	return string(body), url, nil
}

func submitTracking(ctx context.Context, config *types.Config, logger types.Logger, info *types.ProductInfo, targetPrice float64, days int) error {
	baseURL := os.Getenv("TRACK_API_URL")
	if baseURL == "" {
		return fmt.Errorf("TRACK_API_URL not set")
	}
	token := os.Getenv("TRACK_API_TOKEN")

	req, err := tracker.BuildTrackRequest(info, targetPrice, time.Now().AddDate(0, 0, days))
	if err != nil {
		return err
	}

	client := tracker.NewClient(baseURL, token, config, logger)
	defer client.Close()

	_, err = client.Track(ctx, req)
	return err
}
