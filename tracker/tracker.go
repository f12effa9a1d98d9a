// Package tracker turns an extracted ProductInfo into a tracking request and
// submits it to the backend. The transform is deliberately thin: numeric
// coercion of the extractor's $-prefixed price, a vendor name derived from
// the page hostname, and the caller's goal fields. Token storage and refresh
// live outside this package; the client just carries a bearer token.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dealtrack/internal/types"
	"dealtrack/utils"
)

// TrackRequest is the backend's product tracking payload
type TrackRequest struct {
	ProductURL      string  `json:"productUrl"`
	ProductName     string  `json:"productName"`
	ProductImageURL string  `json:"productImageUrl"`
	Vendor          string  `json:"vendor"`
	CurrentPrice    float64 `json:"currentPrice"`
	TargetPrice     float64 `json:"targetPrice"`
	ExpiresAt       string  `json:"expiresAt"`
}

// TrackResponse is the backend's envelope
type TrackResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// BuildTrackRequest maps a ProductInfo onto a TrackRequest. The extraction
// may legitimately be missing fields; only a missing price is a hard failure
// since the backend cannot track without one.
func BuildTrackRequest(info *types.ProductInfo, targetPrice float64, expiresAt time.Time) (*TrackRequest, error) {
	if info == nil {
		return nil, fmt.Errorf("no product info")
	}
	if info.Price == nil || info.Price.Value == "" {
		return nil, fmt.Errorf("product info has no price")
	}

	price, err := ParsePrice(info.Price.Value)
	if err != nil {
		return nil, fmt.Errorf("unparseable price %q: %w", info.Price.Value, err)
	}

	req := &TrackRequest{
		ProductURL:   info.URL,
		Vendor:       VendorFromURL(info.URL),
		CurrentPrice: price,
		TargetPrice:  targetPrice,
		ExpiresAt:    expiresAt.UTC().Format(time.RFC3339),
	}
	if info.Title != nil {
		req.ProductName = info.Title.Value
	}
	if info.Image != nil {
		req.ProductImageURL = info.Image.Value
	}

	return req, nil
}

// ParsePrice coerces the extractor's normalized "$123.45" form to a float
func ParsePrice(value string) (float64, error) {
	cleaned := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(value), "$"))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if price <= 0 {
		return 0, fmt.Errorf("price must be positive, got %v", price)
	}
	return price, nil
}

// VendorFromURL derives a vendor name from the page hostname
func VendorFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// Client submits tracking requests to the backend
type Client struct {
	baseURL string
	token   string
	http    *utils.HTTPClient
	logger  types.Logger
}

// NewClient creates a tracking client for the given backend
func NewClient(baseURL, token string, config *types.Config, logger types.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    utils.NewHTTPClient(config, logger),
		logger:  logger,
	}
}

// Track submits one tracking request
func (c *Client) Track(ctx context.Context, req *TrackRequest) (*TrackResponse, error) {
	endpoint := c.baseURL + "/products/track"
	c.logger.Infof("Submitting tracking request for %s to %s", req.ProductURL, endpoint)

	body, status, err := c.http.PostJSON(ctx, endpoint, c.token, req)
	if err != nil {
		return nil, fmt.Errorf("tracking request failed: %w", err)
	}

	var resp TrackResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("invalid tracking response: %w", err)
	}

	if status != http.StatusOK && status != http.StatusCreated {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		if msg == "" {
			msg = fmt.Sprintf("status %d", status)
		}
		return &resp, fmt.Errorf("tracking rejected: %s", msg)
	}

	return &resp, nil
}

// Close cleans up resources
func (c *Client) Close() {
	if c.http != nil {
		c.http.Close()
	}
}
