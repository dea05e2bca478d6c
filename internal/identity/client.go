package identity

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"resty.dev/v3"

	"inkfeed/internal/config"
)

// Client talks to the external identity provider. The provider is a black
// box: a bearer token either resolves to a user id or it does not.
type Client struct {
	Logger *slog.Logger
	Config *config.Config

	client *resty.Client
}

type session struct {
	UserID string `json:"userId"`
}

func (c *Client) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "identity.Client")

	c.client = resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         1 * time.Second,
		DialerKeepAlive:       1 * time.Second,
		IdleConnTimeout:       1 * time.Second,
		TLSHandshakeTimeout:   1 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 1 * time.Second,
	}).SetBaseURL(c.Config.IdentityURL)

	return nil
}

func (c *Client) Shutdown(_ context.Context) error {
	return c.client.Close()
}

// Resolve returns the user id behind the token, or nil when the provider
// does not recognize it.
func (c *Client) Resolve(ctx context.Context, token string) (*string, error) {
	res, err := c.client.R().
		WithContext(ctx).
		SetAuthToken(token).
		SetResult(&session{}).
		Get("/session")
	if err != nil {
		return nil, err
	}

	if res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusNotFound {
		return nil, nil
	}

	s := res.Result().(*session)
	if s.UserID == "" {
		return nil, nil
	}
	return &s.UserID, nil
}
