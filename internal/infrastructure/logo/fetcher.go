package logo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hidenkeys/receipt/internal/domain/receipt"
	"go.uber.org/zap"
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultMaxBytes     = 10 << 20 // 10MB
)

// Fetcher retrieves the raw logo bytes
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPFetcherConfig contains configuration for the HTTP logo fetcher
type HTTPFetcherConfig struct {
	// URL of the logo image
	URL string
	// Timeout bounds a single download (default: 30s)
	Timeout time.Duration
	// MaxBytes caps the accepted body size (default: 10MB)
	MaxBytes int64
	// Client overrides the HTTP client (optional)
	Client *http.Client
	// Logger for debug output
	Logger *zap.Logger
}

// HTTPFetcher downloads the logo with a single GET request
type HTTPFetcher struct {
	config *HTTPFetcherConfig
	client *http.Client
	logger *zap.Logger
}

// NewHTTPFetcher creates a new HTTP logo fetcher
func NewHTTPFetcher(config *HTTPFetcherConfig) (*HTTPFetcher, error) {
	if config == nil {
		config = &HTTPFetcherConfig{}
	}
	u, err := url.Parse(config.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid logo URL %q", config.URL)
	}

	if config.Timeout == 0 {
		config.Timeout = defaultFetchTimeout
	}
	if config.MaxBytes == 0 {
		config.MaxBytes = defaultMaxBytes
	}

	client := config.Client
	if client == nil {
		client = &http.Client{}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPFetcher{
		config: config,
		client: client,
		logger: logger,
	}, nil
}

// URL returns the logo URL this fetcher downloads
func (f *HTTPFetcher) URL() string {
	return f.config.URL
}

// Fetch downloads the logo. Any status other than 200 OK is an image fetch error.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.config.URL, nil)
	if err != nil {
		return nil, receipt.NewImageFetchError("failed to build logo request", err)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, receipt.NewImageFetchError("unable to fetch logo from "+f.config.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, receipt.NewImageFetchError(
			fmt.Sprintf("unable to fetch logo from %s. HTTP Status Code: %d", f.config.URL, resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes+1))
	if err != nil {
		return nil, receipt.NewImageFetchError("failed to read logo body", err)
	}
	if int64(len(data)) > f.config.MaxBytes {
		return nil, receipt.NewImageFetchError(
			fmt.Sprintf("logo exceeds %d bytes", f.config.MaxBytes), nil)
	}

	f.logger.Debug("logo fetched",
		zap.String("url", f.config.URL),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))

	return data, nil
}

// Ensure HTTPFetcher implements Fetcher
var _ Fetcher = (*HTTPFetcher)(nil)
