package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"dealtrack/extractor"
	"dealtrack/internal/types"
	"dealtrack/utils"
)

// ExtractRequest accepts either a URL to fetch or pre-fetched HTML with the
// page URL it came from (the extension path: the page is already loaded).
type ExtractRequest struct {
	URL     string `json:"url,omitempty"`
	HTML    string `json:"html,omitempty"`
	PageURL string `json:"page_url,omitempty"`
}

// ExtractResponse is the API envelope
type ExtractResponse struct {
	Success bool               `json:"success"`
	Data    *types.ProductInfo `json:"data,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// Server holds the API server configuration
type Server struct {
	logger    *logrus.Logger
	config    *types.Config
	extractor *extractor.Extractor
}

// NewServer creates a new API server
func NewServer() *Server {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := logrus.ParseLevel(levelStr); err == nil {
			logger.SetLevel(level)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	config := types.DefaultConfig()

	return &Server{
		logger:    logger,
		config:    config,
		extractor: extractor.New(config, logger),
	}
}

// handleExtract handles the extraction API endpoint
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" && req.HTML == "" {
		s.sendError(w, "Either url or html is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	html := req.HTML
	pageURL := req.PageURL
	if req.URL != "" {
		pageURL = req.URL
		fetched, err := s.fetchPage(ctx, req.URL)
		if err != nil {
			s.logger.Warnf("Failed to fetch %s: %v", req.URL, err)
			s.sendError(w, fmt.Sprintf("Failed to fetch page: %v", err), http.StatusBadGateway)
			return
		}
		html = fetched
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		s.sendError(w, "Failed to parse HTML", http.StatusBadRequest)
		return
	}

	s.logger.Infof("Extracting product info for %s", pageURL)
	info := s.extractor.Extract(doc, pageURL)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ExtractResponse{Success: true, Data: info}); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

func (s *Server) fetchPage(ctx context.Context, url string) (string, error) {
	if s.config.UseHeadlessBrowser {
		browser := utils.NewBrowserClient(s.config, s.logger)
		return browser.GetPageContent(ctx, url)
	}
	client := utils.NewHTTPClient(s.config, s.logger)
	defer client.Close()
	body, err := client.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ExtractResponse{Success: false, Error: message}); err != nil {
		s.logger.Errorf("Failed to encode error response: %v", err)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// handleClearCache drops the per-URL variant cache
func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.extractor.Cache().Clear()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "cleared"})
}

// Start starts the API server
func (s *Server) Start(port string) error {
	http.HandleFunc("/extract", s.handleExtract)
	http.HandleFunc("/cache/clear", s.handleClearCache)
	http.HandleFunc("/health", s.handleHealth)

	s.logger.Infof("Starting API server on port %s", port)
	s.logger.Info("Available endpoints:")
	s.logger.Info("  POST /extract     - Extract product info from a URL or HTML")
	s.logger.Info("  POST /cache/clear - Clear the variant cache")
	s.logger.Info("  GET  /health      - Health check")

	return http.ListenAndServe(":"+port, nil)
}

func main() {
	serverPort := "8080"
	if envPort := os.Getenv("API_PORT"); envPort != "" {
		serverPort = envPort
	}

	server := NewServer()
	log.Fatal(server.Start(serverPort))
}
