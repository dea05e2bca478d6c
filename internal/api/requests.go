package api

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"inkfeed/internal/core"
)

// Request payloads. Bind runs after decoding; validation limits mirror the
// authoring form.

type CreatePostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Text        string   `json:"text"`
	HTML        string   `json:"html"`
	TagIDs      []string `json:"tagIds"`
}

func (p *CreatePostRequest) Bind(_ *http.Request) error {
	if len(p.Title) < 20 {
		return fmt.Errorf("%w: title must be at least 20 characters", core.ErrValidation)
	}
	if len(p.Description) < 60 {
		return fmt.Errorf("%w: description must be at least 60 characters", core.ErrValidation)
	}
	if len(p.HTML) < 100 {
		return fmt.Errorf("%w: html must be at least 100 characters", core.ErrValidation)
	}
	return nil
}

type CommentRequest struct {
	Text string `json:"text"`
}

func (c *CommentRequest) Bind(_ *http.Request) error {
	if len(c.Text) < 3 {
		return fmt.Errorf("%w: comment must be at least 3 characters", core.ErrValidation)
	}
	return nil
}

type CreateTagRequest struct {
	Name string `json:"name"`
}

func (t *CreateTagRequest) Bind(_ *http.Request) error {
	if t.Name == "" {
		return fmt.Errorf("%w: tag name is required", core.ErrValidation)
	}
	return nil
}

type FeaturedImageRequest struct {
	URL string `json:"url"`
}

func (f *FeaturedImageRequest) Bind(_ *http.Request) error {
	if f.URL == "" {
		return fmt.Errorf("%w: url is required", core.ErrValidation)
	}
	return nil
}

type UploadAvatarRequest struct {
	ImageAsDataURL string `json:"imageAsDataUrl"`
	Username       string `json:"username"`
}

func (u *UploadAvatarRequest) Bind(_ *http.Request) error {
	if u.Username == "" {
		return fmt.Errorf("%w: username is required", core.ErrValidation)
	}
	_, _, err := parseDataURI(u.ImageAsDataURL)
	return err
}

// parseDataURI splits a base64 data URI ("data:image/png;base64,....")
// into its payload and media type.
func parseDataURI(uri string) ([]byte, string, error) {
	rest, found := strings.CutPrefix(uri, "data:")
	if !found {
		return nil, "", fmt.Errorf("%w: not a data URI", core.ErrValidation)
	}

	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, "", fmt.Errorf("%w: malformed data URI", core.ErrValidation)
	}

	mediaType, encoding, found := strings.Cut(meta, ";")
	if !found || encoding != "base64" {
		return nil, "", fmt.Errorf("%w: data URI must be base64 encoded", core.ErrValidation)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid base64 payload", core.ErrValidation)
	}

	return data, mediaType, nil
}
