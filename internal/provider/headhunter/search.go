package headhunter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/pathforge-labs/pathforge/internal/provider"
)

const (
	SearchPath = "/vacancies"
)

func (c *Client) search(ctx context.Context, params provider.SearchParams) (*Vacancies, error) {
	params = params.WithDefaults(maxPerPage)
	if params.PageSize > maxPerPage {
		params.PageSize = maxPerPage
	}

	apiURLSearch := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	response, err := c.GetPage(ctx, apiURLSearch, buildParams(params))
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response from HH.ru",
		zap.Int("found", response.Found),
		zap.Int("pages", response.Pages),
		zap.Int("page", response.Page),
	)

	var vacancies []*Vacancy
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &vacancies,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(response.Items); err != nil {
		return nil, fmt.Errorf("decode vacancies: %w", err)
	}

	return &Vacancies{
		Items: vacancies,
	}, nil
}

// buildParams maps the provider search onto hh.ru query parameters.
// hh.ru pages are zero based. A numeric location is an hh.ru area id; any
// other location is folded into the text query.
func buildParams(params provider.SearchParams) url.Values {
	q := url.Values{}

	text := strings.TrimSpace(params.Keywords)
	location := strings.TrimSpace(params.Location)
	if location != "" {
		if _, err := strconv.Atoi(location); err == nil {
			q.Set("area", location)
		} else if text == "" {
			text = location
		} else {
			text = text + " " + location
		}
	}

	if text != "" {
		q.Set("text", text)
	}
	q.Set("page", strconv.Itoa(params.Page-1))
	q.Set("per_page", strconv.Itoa(params.PageSize))
	q.Set("order_by", "publication_time")

	return q
}
