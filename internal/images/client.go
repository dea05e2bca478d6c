package images

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/samber/lo"
	"resty.dev/v3"

	"inkfeed/internal/config"
	"inkfeed/internal/core"
)

const searchPhotos = "/search/photos"

// Client proxies featured-image search to the external image provider.
type Client struct {
	Logger *slog.Logger
	Config *config.Config

	client *resty.Client
}

type photo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	URLs        struct {
		Small   string `json:"small"`
		Regular string `json:"regular"`
	} `json:"urls"`
}

type searchResult struct {
	Results []photo `json:"results"`
}

func (c *Client) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "images.Client")

	c.client = resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         1 * time.Second,
		DialerKeepAlive:       1 * time.Second,
		IdleConnTimeout:       1 * time.Second,
		TLSHandshakeTimeout:   1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}).SetBaseURL(c.Config.ImagesURL)

	if c.Config.ImagesAccessKey != "" {
		c.client.SetHeader("Authorization", "Client-ID "+c.Config.ImagesAccessKey)
	}

	return nil
}

func (c *Client) Shutdown(_ context.Context) error {
	return c.client.Close()
}

func (c *Client) Search(ctx context.Context, query string) ([]core.ImageResult, error) {
	res, err := c.client.R().
		WithContext(ctx).
		SetQueryParamsFromValues(url.Values{
			"query":       []string{query},
			"orientation": []string{"landscape"},
		}).
		SetResult(&searchResult{}).
		Get(searchPhotos)
	if err != nil {
		return nil, err
	}

	if res.IsError() {
		return nil, fmt.Errorf("image search failed: %s", res.Status())
	}

	return lo.Map(res.Result().(*searchResult).Results, func(p photo, _ int) core.ImageResult {
		return core.ImageResult{
			ID:          p.ID,
			Description: p.Description,
			ThumbURL:    p.URLs.Small,
			FullURL:     p.URLs.Regular,
		}
	}), nil
}
