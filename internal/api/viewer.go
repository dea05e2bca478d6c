package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

const viewerContextKey = contextKey("viewer")

// withViewer resolves the bearer token through the identity provider and
// stores the viewer id in the request context. Anonymous requests and
// unknown tokens pass through with no viewer; handlers that require one
// use requireViewer.
func (b *Backend) withViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		viewerID, err := b.Identity.Resolve(r.Context(), token)
		if err != nil {
			b.Logger.Warn("identity resolution failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if viewerID == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), viewerContextKey, *viewerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return token
}

// viewerFrom returns the authenticated viewer id, or nil for anonymous
// requests.
func viewerFrom(ctx context.Context) *string {
	id, ok := ctx.Value(viewerContextKey).(string)
	if !ok {
		return nil
	}
	return &id
}

func (b *Backend) requireViewer(w http.ResponseWriter, r *http.Request) (string, bool) {
	viewer := viewerFrom(r.Context())
	if viewer == nil {
		if err := render.Render(w, r, ErrUnauthorized); err != nil {
			b.Logger.Error("failed to render error response", "error", err)
		}
		return "", false
	}
	return *viewer, true
}
