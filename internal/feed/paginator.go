package feed

import (
	"context"
	"log/slog"

	"inkfeed/internal/core"
)

// PageSize is the fixed feed page size.
const PageSize = 10

// Paginator produces pages of posts ordered by recency with opaque-cursor
// forward pagination. It fetches PageSize+1 rows: the extra row, when
// present, is trimmed off the page and its id becomes the next cursor.
type Paginator struct {
	Logger *slog.Logger
	Posts  core.PostRepository
}

func (p *Paginator) Init(_ context.Context) error {
	p.Logger = p.Logger.With("component", "feed.Paginator")
	return nil
}

func (p *Paginator) GetPosts(ctx context.Context, cursor *string, viewerID *string) (*core.PostPage, error) {
	rows, err := p.Posts.FeedPage(ctx, cursor, viewerID, PageSize+1)
	if err != nil {
		return nil, err
	}

	page := &core.PostPage{Posts: rows}
	if len(rows) > PageSize {
		next := rows[PageSize].ID
		page.Posts = rows[:PageSize]
		page.NextCursor = &next
	}

	return page, nil
}
