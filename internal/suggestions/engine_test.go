package suggestions_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"inkfeed/internal/core"
	"inkfeed/internal/suggestions"
)

type engagement struct {
	userID string
	tags   []string
}

// fakeUsers answers the engine's three queries from fixture data.
type fakeUsers struct {
	core.UserRepository

	likedTags      map[string][]string
	bookmarkedTags map[string][]string
	likes          []engagement
	bookmarks      []engagement

	engagedCalled bool
	lastLimit     int
}

func (f *fakeUsers) RecentLikedTags(_ context.Context, userID string, _ int) ([]string, error) {
	return f.likedTags[userID], nil
}

func (f *fakeUsers) RecentBookmarkedTags(_ context.Context, userID string, _ int) ([]string, error) {
	return f.bookmarkedTags[userID], nil
}

func (f *fakeUsers) EngagedWithTags(_ context.Context, tagNames []string, excludeUserID string, limit int) ([]core.UserSummary, error) {
	f.engagedCalled = true
	f.lastLimit = limit

	tagSet := lo.Associate(tagNames, func(name string) (string, bool) {
		return name, true
	})

	var matched []string
	for _, e := range append(f.likes, f.bookmarks...) {
		if e.userID == excludeUserID {
			continue
		}
		if lo.SomeBy(e.tags, func(tag string) bool { return tagSet[tag] }) {
			matched = append(matched, e.userID)
		}
	}

	matched = lo.Uniq(matched)
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return lo.Map(matched, func(id string, _ int) core.UserSummary {
		return core.UserSummary{ID: id}
	}), nil
}

func newEngine(t *testing.T, users *fakeUsers) *suggestions.Engine {
	t.Helper()

	e := &suggestions.Engine{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Users:  users,
	}
	require.NoError(t, e.Init(t.Context()))
	return e
}

func TestGetSuggestionsMatchesByTagAffinity(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{
		likedTags:      map[string][]string{"viewer": {"rust"}},
		bookmarkedTags: map[string][]string{"viewer": {"go"}},
		likes: []engagement{
			{userID: "u1", tags: []string{"rust"}},
			{userID: "u2", tags: []string{"css"}},
		},
	}
	e := newEngine(t, users)

	got, err := e.GetSuggestions(t.Context(), "viewer")
	require.NoError(t, err)

	ids := lo.Map(got, func(u core.UserSummary, _ int) string { return u.ID })
	require.Contains(t, ids, "u1")
	require.NotContains(t, ids, "u2")
}

func TestGetSuggestionsNeverIncludesViewer(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{
		likedTags: map[string][]string{"viewer": {"go"}},
		likes: []engagement{
			{userID: "viewer", tags: []string{"go"}},
			{userID: "u1", tags: []string{"go"}},
		},
	}
	e := newEngine(t, users)

	got, err := e.GetSuggestions(t.Context(), "viewer")
	require.NoError(t, err)

	ids := lo.Map(got, func(u core.UserSummary, _ int) string { return u.ID })
	require.NotContains(t, ids, "viewer")
	require.Contains(t, ids, "u1")
}

func TestGetSuggestionsCapsAtFour(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{
		likedTags: map[string][]string{"viewer": {"go"}},
		likes: []engagement{
			{userID: "u1", tags: []string{"go"}},
			{userID: "u2", tags: []string{"go"}},
			{userID: "u3", tags: []string{"go"}},
			{userID: "u4", tags: []string{"go"}},
			{userID: "u5", tags: []string{"go"}},
			{userID: "u6", tags: []string{"go"}},
		},
	}
	e := newEngine(t, users)

	got, err := e.GetSuggestions(t.Context(), "viewer")
	require.NoError(t, err)

	require.Len(t, got, 4)
	require.Equal(t, 4, users.lastLimit)
}

func TestGetSuggestionsEmptyEngagementShortCircuits(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{
		likes: []engagement{
			{userID: "u1", tags: []string{"go"}},
		},
	}
	e := newEngine(t, users)

	got, err := e.GetSuggestions(t.Context(), "viewer")
	require.NoError(t, err)

	require.Empty(t, got)
	// An empty interest set must never reach the store: "no signals"
	// means "no matches", not "match everything".
	require.False(t, users.engagedCalled)
}

func TestGetSuggestionsBookmarkSignalAlsoCounts(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{
		bookmarkedTags: map[string][]string{"viewer": {"databases"}},
		bookmarks: []engagement{
			{userID: "u7", tags: []string{"databases", "go"}},
		},
	}
	e := newEngine(t, users)

	got, err := e.GetSuggestions(t.Context(), "viewer")
	require.NoError(t, err)

	ids := lo.Map(got, func(u core.UserSummary, _ int) string { return u.ID })
	require.Contains(t, ids, "u7")
}
