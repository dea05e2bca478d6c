package feed_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"inkfeed/internal/core"
	"inkfeed/internal/feed"
)

// fakePosts serves feed pages from an in-memory slice ordered newest
// first, with the same cursor semantics as the real repository: the page
// starts at the cursor post, an unknown cursor yields an empty page.
type fakePosts struct {
	core.PostRepository

	posts     []core.PostSummary
	lastLimit int
	lastView  *string
}

func (f *fakePosts) FeedPage(_ context.Context, cursor *string, viewerID *string, limit int) ([]core.PostSummary, error) {
	f.lastLimit = limit
	f.lastView = viewerID

	start := 0
	if cursor != nil {
		_, idx, found := lo.FindIndexOf(f.posts, func(p core.PostSummary) bool {
			return p.ID == *cursor
		})
		if !found {
			return nil, nil
		}
		start = idx
	}

	end := min(start+limit, len(f.posts))
	return f.posts[start:end], nil
}

func newFakePosts(n int) *fakePosts {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := make([]core.PostSummary, n)
	for i := range posts {
		posts[i] = core.PostSummary{
			ID:        fmt.Sprintf("post-%03d", n-i),
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
	}
	return &fakePosts{posts: posts}
}

func newPaginator(t *testing.T, posts *fakePosts) *feed.Paginator {
	t.Helper()

	p := &feed.Paginator{Logger: testLogger(), Posts: posts}
	require.NoError(t, p.Init(t.Context()))
	return p
}

func TestGetPostsFirstPage(t *testing.T) {
	t.Parallel()

	posts := newFakePosts(25)
	p := newPaginator(t, posts)

	page, err := p.GetPosts(t.Context(), nil, nil)
	require.NoError(t, err)

	require.Len(t, page.Posts, feed.PageSize)
	require.NotNil(t, page.NextCursor)
	require.Equal(t, feed.PageSize+1, posts.lastLimit)

	// The next cursor names the first post of the following page, which
	// must not appear on this one.
	for _, post := range page.Posts {
		require.NotEqual(t, *page.NextCursor, post.ID)
	}
}

func TestGetPostsShortFeed(t *testing.T) {
	t.Parallel()

	p := newPaginator(t, newFakePosts(3))

	page, err := p.GetPosts(t.Context(), nil, nil)
	require.NoError(t, err)

	require.Len(t, page.Posts, 3)
	require.Nil(t, page.NextCursor)
}

func TestGetPostsVisitsEveryPostOnce(t *testing.T) {
	t.Parallel()

	posts := newFakePosts(25)
	p := newPaginator(t, posts)

	var visited []string
	var cursor *string
	for {
		page, err := p.GetPosts(t.Context(), cursor, nil)
		require.NoError(t, err)
		require.LessOrEqual(t, len(page.Posts), feed.PageSize)

		visited = append(visited, lo.Map(page.Posts, func(p core.PostSummary, _ int) string {
			return p.ID
		})...)

		if page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}

	require.Len(t, visited, 25)
	require.Len(t, lo.Uniq(visited), 25)

	// Non-increasing createdAt across the whole walk.
	byID := lo.Associate(posts.posts, func(p core.PostSummary) (string, core.PostSummary) {
		return p.ID, p
	})
	for i := 1; i < len(visited); i++ {
		prev := byID[visited[i-1]].CreatedAt
		curr := byID[visited[i]].CreatedAt
		require.False(t, curr.After(prev))
	}
}

func TestGetPostsStaleCursor(t *testing.T) {
	t.Parallel()

	p := newPaginator(t, newFakePosts(5))

	cursor := "deleted-post"
	page, err := p.GetPosts(t.Context(), &cursor, nil)
	require.NoError(t, err)

	require.Empty(t, page.Posts)
	require.Nil(t, page.NextCursor)
}

func TestGetPostsForwardsViewer(t *testing.T) {
	t.Parallel()

	posts := newFakePosts(5)
	p := newPaginator(t, posts)

	viewer := "user-1"
	_, err := p.GetPosts(t.Context(), nil, &viewer)
	require.NoError(t, err)

	require.NotNil(t, posts.lastView)
	require.Equal(t, viewer, *posts.lastView)
}
