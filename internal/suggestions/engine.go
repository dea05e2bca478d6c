package suggestions

import (
	"context"
	"log/slog"

	"inkfeed/internal/core"
)

const (
	// signalLimit caps how many recent likes and bookmarks feed the
	// interest set, bounding query cost.
	signalLimit = 10

	maxSuggestions = 4
)

// Engine computes "people you might follow" by two-hop tag affinity: the
// viewer's recent engagement resolves to a tag interest set, and any other
// user who engaged with a post carrying one of those tags qualifies.
type Engine struct {
	Logger *slog.Logger
	Users  core.UserRepository
}

func (e *Engine) Init(_ context.Context) error {
	e.Logger = e.Logger.With("component", "suggestions.Engine")
	return nil
}

func (e *Engine) GetSuggestions(ctx context.Context, viewerID string) ([]core.UserSummary, error) {
	liked, err := e.Users.RecentLikedTags(ctx, viewerID, signalLimit)
	if err != nil {
		return nil, err
	}

	bookmarked, err := e.Users.RecentBookmarkedTags(ctx, viewerID, signalLimit)
	if err != nil {
		return nil, err
	}

	// Duplicates are harmless here: the interest set is an inclusion
	// filter, not a score.
	interest := append(liked, bookmarked...)

	// An empty interest set must short-circuit to "no match", never
	// "match everything".
	if len(interest) == 0 {
		return nil, nil
	}

	return e.Users.EngagedWithTags(ctx, interest, viewerID, maxSuggestions)
}
