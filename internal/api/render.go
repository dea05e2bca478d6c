package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"inkfeed/internal/core"
)

// ErrResponse renderer for all error replies. Status codes follow the
// core taxonomy: validation 400, conflict 409, forbidden 403, missing 404.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
}

func (e *ErrResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

var (
	ErrUnauthorized = &ErrResponse{HTTPStatusCode: http.StatusUnauthorized, StatusText: "Authentication required."}
	ErrNotFound     = &ErrResponse{HTTPStatusCode: http.StatusNotFound, StatusText: "Resource not found."}
)

func errRenderer(err error) render.Renderer {
	switch {
	case errors.Is(err, core.ErrValidation):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusBadRequest,
			StatusText:     "Invalid request.",
			ErrorText:      err.Error(),
		}
	case errors.Is(err, core.ErrConflict):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusConflict,
			StatusText:     "Conflict.",
			ErrorText:      err.Error(),
		}
	case errors.Is(err, core.ErrForbidden):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusForbidden,
			StatusText:     "Forbidden.",
		}
	case errors.Is(err, core.ErrNotFound):
		return ErrNotFound
	default:
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusInternalServerError,
			StatusText:     "Internal server error.",
		}
	}
}

// renderBindError keeps malformed request bodies at 400 even when the
// decode failure is not part of the core taxonomy.
func (b *Backend) renderBindError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrValidation) {
		b.renderError(w, r, err)
		return
	}
	if err := render.Render(w, r, ErrInvalidRequest(err)); err != nil {
		b.Logger.Error("failed to render error response", "error", err)
	}
}

func (b *Backend) renderError(w http.ResponseWriter, r *http.Request, err error) {
	renderer := errRenderer(err)
	if resp, ok := renderer.(*ErrResponse); ok && resp.HTTPStatusCode >= http.StatusInternalServerError {
		b.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	if err := render.Render(w, r, renderer); err != nil {
		b.Logger.Error("failed to render error response", "error", err)
	}
}
