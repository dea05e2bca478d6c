package config

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	APIAddr  string `envconfig:"API_ADDR" default:":8080"`
	DiagAddr string `envconfig:"DIAG_ADDR" default:":9090"`

	NATSURL  string `envconfig:"NATS_URL" default:"nats://127.0.0.1:4222"`
	NATSInit bool   `envconfig:"NATS_INIT" default:"false"`

	IdentityURL string `envconfig:"IDENTITY_URL" required:"true"`

	BlobstoreURL       string `envconfig:"BLOBSTORE_URL" required:"true"`
	BlobstoreKey       string `envconfig:"BLOBSTORE_KEY"`
	BlobstorePublicURL string `envconfig:"BLOBSTORE_PUBLIC_URL"`

	ImagesURL       string `envconfig:"IMAGES_URL" default:"https://api.unsplash.com"`
	ImagesAccessKey string `envconfig:"IMAGES_ACCESS_KEY"`
}

func (c *Config) Init(_ context.Context) error {
	return envconfig.Process("inkfeed", c)
}

func (c *Config) PostgresDSN() string {
	return c.DatabaseURL
}

// PublicBlobURL builds the URL a stored blob is served from. Falls back to
// the store URL itself when no CDN/public host is configured.
func (c *Config) PublicBlobURL(path string) string {
	base := c.BlobstorePublicURL
	if base == "" {
		base = c.BlobstoreURL
	}
	return fmt.Sprintf("%s/%s", base, path)
}
