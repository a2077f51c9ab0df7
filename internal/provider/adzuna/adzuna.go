// Package adzuna implements the job provider contract on top of the Adzuna
// public search API.
package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/jobs"
	"github.com/pathforge-labs/pathforge/internal/provider"
	"github.com/pathforge-labs/pathforge/internal/utils"
)

const (
	Name = "adzuna"

	defaultBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	defaultCountry  = "gb"
	defaultPageSize = 50
	// Adzuna rejects larger pages.
	maxPageSize = 50
	httpTimeout = 15 * time.Second
	// Adzuna allows 25 requests a minute on the free tier.
	requestInterval = 2500 * time.Millisecond
)

type Config struct {
	AppID   string `mapstructure:"app-id"`
	AppKey  string `mapstructure:"app-key"`
	Country string `mapstructure:"country"`
}

type Client struct {
	appID   string
	appKey  string
	country string
	logger  *zap.Logger

	throttle   *provider.Throttle
	HTTPClient *http.Client
	BaseURL    string
}

func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	country := strings.ToLower(strings.TrimSpace(cfg.Country))
	if country == "" {
		country = defaultCountry
	}

	return &Client{
		appID:      strings.TrimSpace(cfg.AppID),
		appKey:     strings.TrimSpace(cfg.AppKey),
		country:    country,
		logger:     logger,
		throttle:   provider.NewThrottle(requestInterval),
		HTTPClient: &http.Client{Timeout: httpTimeout},
		BaseURL:    defaultBaseURL,
	}
}

func (c *Client) Name() string { return Name }

type searchResponse struct {
	Results []result `json:"results"`
	Count   int      `json:"count"`
}

type result struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Company      displayName  `json:"company"`
	Location     location     `json:"location"`
	Category     categoryInfo `json:"category"`
	SalaryMin    float64      `json:"salary_min"`
	SalaryMax    float64      `json:"salary_max"`
	RedirectURL  string       `json:"redirect_url"`
	Created      string       `json:"created"`
	ContractTime string       `json:"contract_time"`
	ContractType string       `json:"contract_type"`
}

type displayName struct {
	DisplayName string `json:"display_name"`
}

type location struct {
	DisplayName string   `json:"display_name"`
	Area        []string `json:"area"`
}

type categoryInfo struct {
	Label string `json:"label"`
	Tag   string `json:"tag"`
}

// Search fetches one page of results. The country code in params overrides
// the configured one.
func (c *Client) Search(ctx context.Context, params provider.SearchParams) ([]jobs.RawListing, error) {
	if c.appID == "" || c.appKey == "" {
		return nil, provider.Wrap(Name, "search", provider.ErrMissingCredentials)
	}

	params = params.WithDefaults(defaultPageSize)
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}

	country := strings.ToLower(strings.TrimSpace(params.CountryCode))
	if country == "" {
		country = c.country
	}

	endpoint := fmt.Sprintf("%s/%s/search/%d", strings.TrimRight(c.BaseURL, "/"), country, params.Page)

	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("app_key", c.appKey)
	q.Set("results_per_page", strconv.Itoa(params.PageSize))
	if params.Keywords != "" {
		q.Set("what", params.Keywords)
	}
	if params.Location != "" {
		q.Set("where", params.Location)
	}
	q.Set("content-type", "application/json")
	q.Set("sort_by", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, provider.Wrap(Name, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	if err := c.throttle.Wait(ctx); err != nil {
		return nil, provider.Wrap(Name, "rate limit", err)
	}

	c.logger.Debug("make request",
		zap.String("provider", Name),
		zap.String("country", country),
		zap.Int("page", params.Page),
		zap.String("keywords", params.Keywords),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, provider.Wrap(Name, "http get", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.Wrap(Name, "read body", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, provider.Wrap(Name, "search", fmt.Errorf("bad status: %s: %s", resp.Status, utils.TruncateForLog(string(body), 200)))
	}

	var apiResp searchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, provider.Wrap(Name, "decode response", err)
	}

	listings := make([]jobs.RawListing, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		listings = append(listings, r.toListing())
	}

	c.logger.Debug("got response from adzuna",
		zap.Int("results", len(listings)),
		zap.Int("total", apiResp.Count),
	)

	return listings, nil
}

func (r result) toListing() jobs.RawListing {
	extra := map[string]any{}
	if r.Created != "" {
		extra["created"] = r.Created
	}
	if r.ContractType != "" {
		extra["contract_type"] = r.ContractType
	}
	if r.Category.Tag != "" {
		extra["category"] = r.Category.Tag
	}
	if len(r.Location.Area) > 0 {
		extra["area"] = r.Location.Area
	}

	return jobs.RawListing{
		Title:          strings.TrimSpace(r.Title),
		Company:        strings.TrimSpace(r.Company.DisplayName),
		Description:    strings.TrimSpace(r.Description),
		Location:       strings.TrimSpace(r.Location.DisplayName),
		WorkType:       workType(r.ContractTime, r.ContractType),
		SalaryInfo:     salaryInfo(r.SalaryMin, r.SalaryMax),
		SourceURL:      r.RedirectURL,
		SourcePlatform: Name,
		ExternalID:     externalID(r.ID),
		Extra:          extra,
	}
}

func workType(contractTime, contractType string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{contractTime, contractType} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func salaryInfo(min, max float64) string {
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	switch {
	case min > 0 && max > 0 && min != max:
		return format(min) + "-" + format(max)
	case min > 0:
		return format(min)
	case max > 0:
		return format(max)
	default:
		return ""
	}
}

func externalID(id string) string {
	if id == "" {
		return ""
	}
	return Name + ":" + id
}
