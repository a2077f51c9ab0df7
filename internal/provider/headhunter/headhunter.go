// Package headhunter implements the job provider contract on top of the
// hh.ru vacancies API.
package headhunter

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/jobs"
	"github.com/pathforge-labs/pathforge/internal/provider"
)

const (
	Name = "hh"

	apiURL    = "https://api.hh.ru"
	userAgent = "pathforge-labs/pathforge (jobs@pathforge.dev)"
	// Max value for search per page.
	maxPerPage = 100
	// hh.ru answers with captcha requests when polled too often.
	requestInterval = 500 * time.Millisecond
)

type Config struct {
	TokenFile string `mapstructure:"token-file"`
	UserAgent string `mapstructure:"user-agent"`
}

type Client struct {
	token      string
	logger     *zap.Logger
	throttle   *provider.Throttle
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New creates a client. The token is optional for vacancy search; when set it
// is sent as a bearer token.
func New(token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  strings.TrimSpace(token),
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		throttle:  provider.NewThrottle(requestInterval),
		UserAgent: userAgent,
	}
}

func (c *Client) Name() string { return Name }

// Search fetches one page of vacancies. hh.ru serves every country from one
// host, so params.CountryCode is ignored.
func (c *Client) Search(ctx context.Context, params provider.SearchParams) ([]jobs.RawListing, error) {
	vacancies, err := c.search(ctx, params)
	if err != nil {
		return nil, provider.Wrap(Name, "search", err)
	}

	listings := make([]jobs.RawListing, 0, vacancies.Len())
	for _, v := range vacancies.Items {
		if v == nil || v.Archived {
			continue
		}
		listings = append(listings, v.ToListing())
	}

	return listings, nil
}
