package types

import "time"

// FieldValue pairs an extracted value with the CSS selector it came from.
// The selector is kept so a later pass can re-read the same element; synthetic
// sources use a pseudo-selector like "structured-data" or "meta".
type FieldValue struct {
	Selector string `json:"selector"`
	Value    string `json:"value"`
}

// SelectorHint records how to re-drive a variant selection programmatically:
// the group container, the option inside it and its index within the group.
type SelectorHint struct {
	Name           string `json:"name"`
	Value          string `json:"value"`
	GroupSelector  string `json:"group_selector"`
	OptionIndex    int    `json:"option_index"`
	OptionSelector string `json:"option_selector"`
}

// SelectorData groups the reselection hints captured after a merge.
type SelectorData struct {
	URLParams map[string]string `json:"url_params,omitempty"`
	Hints     []SelectorHint    `json:"hints,omitempty"`

	// KeyParam is set when the variant key matches a known URL parameter
	// name (sku, asin, tcin, ...), so the key can be re-applied via the URL.
	KeyParam string `json:"key_param,omitempty"`
}

// VariantInfo is the merged variant record built from all signal sources.
type VariantInfo struct {
	// SelectedVariant maps lower-cased attribute names (color, size, ...) to
	// the currently selected value.
	SelectedVariant map[string]string `json:"selected_variant"`

	// VariantKey is a retailer SKU/ASIN/item id uniquely identifying the
	// exact variant, when one could be found.
	VariantKey string `json:"variant_key,omitempty"`

	// Options lists the possible values per attribute where a source exposed
	// them.
	Options map[string][]string `json:"options,omitempty"`

	// Source records which parsers contributed, in contribution order.
	// Values are drawn from "ld+json", "og/meta", "embedded", "dom" and may
	// repeat.
	Source []string `json:"source"`

	VariantSelectorData *SelectorData `json:"variant_selector_data,omitempty"`
}

// ProductMeta carries secondary extraction context alongside the main fields.
type ProductMeta struct {
	CanonicalURL    string            `json:"canonical_url,omitempty"`
	ImageCandidates []string          `json:"image_candidates,omitempty"`
	FieldSources    map[string]string `json:"field_sources,omitempty"`
}

// ProductInfo is the normalized output of one extraction pass over a page.
// It is created fresh per call and never mutated afterwards.
type ProductInfo struct {
	Title    *FieldValue       `json:"title,omitempty"`
	Price    *FieldValue       `json:"price,omitempty"`
	Image    *FieldValue       `json:"image,omitempty"`
	URL      string            `json:"url"`
	Variants map[string]string `json:"variants"`

	VariantInfo *VariantInfo `json:"variant_info,omitempty"`
	Meta        *ProductMeta `json:"meta,omitempty"`
}

// Config holds the configuration for fetching and extraction
type Config struct {
	RequestDelay       time.Duration
	MaxRetries         int
	Timeout            time.Duration
	UseHeadlessBrowser bool
	UserAgent          string

	// MaxTitleLength rejects title candidates longer than this (likely page
	// body text, not a product name).
	MaxTitleLength int

	// MinImagePixels is the minimum width/height attribute value accepted by
	// the last-resort image fallback.
	MinImagePixels int
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		RequestDelay:       1 * time.Second,
		MaxRetries:         3,
		Timeout:            30 * time.Second,
		UseHeadlessBrowser: false,
		UserAgent:          "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		MaxTitleLength:     200,
		MinImagePixels:     200,
	}
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
