package blobstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"resty.dev/v3"

	"inkfeed/internal/config"
)

// Client uploads blobs to the external object store and hands back the
// public URL they are served from.
type Client struct {
	Logger *slog.Logger
	Config *config.Config

	client *resty.Client
}

func (c *Client) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "blobstore.Client")

	c.client = resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         1 * time.Second,
		DialerKeepAlive:       1 * time.Second,
		IdleConnTimeout:       1 * time.Second,
		TLSHandshakeTimeout:   1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
	}).SetBaseURL(c.Config.BlobstoreURL)

	if c.Config.BlobstoreKey != "" {
		c.client.SetAuthToken(c.Config.BlobstoreKey)
	}

	return nil
}

func (c *Client) Shutdown(_ context.Context) error {
	return c.client.Close()
}

func (c *Client) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	res, err := c.client.R().
		WithContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put("/object/" + path)
	if err != nil {
		return "", err
	}

	if res.IsError() {
		return "", fmt.Errorf("blobstore upload failed: %s", res.Status())
	}

	return c.Config.PublicBlobURL(path), nil
}
