package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"inkfeed/internal/api"
	"inkfeed/internal/core"
	"inkfeed/internal/events"
)

type fakeIdentity struct {
	sessions map[string]string
}

func (f *fakeIdentity) Resolve(_ context.Context, token string) (*string, error) {
	id, ok := f.sessions[token]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

type fakeFeed struct {
	page       *core.PostPage
	lastCursor *string
	lastViewer *string
}

func (f *fakeFeed) GetPosts(_ context.Context, cursor *string, viewerID *string) (*core.PostPage, error) {
	f.lastCursor = cursor
	f.lastViewer = viewerID
	return f.page, nil
}

type fakePosts struct {
	core.PostRepository

	liked       map[string]bool
	featuredErr error
}

func (f *fakePosts) BySlug(_ context.Context, slug string, _ *string) (*core.PostDetail, error) {
	if slug != "a-known-post" {
		return nil, core.ErrNotFound
	}
	return &core.PostDetail{ID: "post-1", Slug: slug}, nil
}

func (f *fakePosts) Create(_ context.Context, authorID string, draft core.PostDraft) (*core.PostDetail, error) {
	return &core.PostDetail{
		ID:     "post-new",
		Title:  draft.Title,
		Author: core.AuthorSummary{Username: authorID},
	}, nil
}

func (f *fakePosts) Like(_ context.Context, userID, postID string) error {
	key := userID + "/" + postID
	if f.liked[key] {
		return fmt.Errorf("%w: already liked", core.ErrConflict)
	}
	if f.liked == nil {
		f.liked = map[string]bool{}
	}
	f.liked[key] = true
	return nil
}

func (f *fakePosts) SetFeaturedImage(_ context.Context, _, _, _ string) error {
	return f.featuredErr
}

type fakeUsers struct {
	core.UserRepository

	followErr error
}

func (f *fakeUsers) Follow(_ context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return fmt.Errorf("%w: cannot follow yourself", core.ErrValidation)
	}
	return f.followErr
}

func (f *fakeUsers) Unfollow(_ context.Context, _, _ string) error {
	return nil
}

type published struct {
	subject string
	msgID   string
}

type fakeEvents struct {
	events []published
}

func (f *fakeEvents) Publish(_ context.Context, subject, msgID string, _ any) error {
	f.events = append(f.events, published{subject: subject, msgID: msgID})
	return nil
}

type fixture struct {
	handler http.Handler
	posts   *fakePosts
	users   *fakeUsers
	feed    *fakeFeed
	events  *fakeEvents
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		posts:  &fakePosts{},
		users:  &fakeUsers{},
		feed:   &fakeFeed{page: &core.PostPage{}},
		events: &fakeEvents{},
	}

	b := &api.Backend{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Posts:    f.posts,
		Users:    f.users,
		Feed:     f.feed,
		Identity: &fakeIdentity{sessions: map[string]string{"token-1": "user-1"}},
		Events:   f.events,
	}
	require.NoError(t, b.Init(t.Context()))

	r := chi.NewRouter()
	b.Routes(r)
	f.handler = r
	return f
}

func (f *fixture) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestGetPostsAnonymous(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.feed.page = &core.PostPage{
		Posts:      []core.PostSummary{{ID: "post-1"}},
		NextCursor: lo.ToPtr("post-2"),
	}

	rec := f.do(t, http.MethodGet, "/v1/posts", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page core.PostPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Posts, 1)
	require.Equal(t, "post-2", *page.NextCursor)

	require.Nil(t, f.feed.lastCursor)
	require.Nil(t, f.feed.lastViewer)
}

func TestGetPostsForwardsCursorAndViewer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/posts?cursor=post-9", "token-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, f.feed.lastCursor)
	require.Equal(t, "post-9", *f.feed.lastCursor)
	require.NotNil(t, f.feed.lastViewer)
	require.Equal(t, "user-1", *f.feed.lastViewer)
}

func TestCreatePostRequiresAuth(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/posts", "", `{"title":"x"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, f.events.events)
}

func TestCreatePostValidatesBody(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/posts", "token-1", `{"title":"too short"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, f.events.events)
}

func TestCreatePostPublishesEvent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	body, err := json.Marshal(map[string]any{
		"title":       strings.Repeat("t", 20),
		"description": strings.Repeat("d", 60),
		"html":        strings.Repeat("h", 100),
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/v1/posts", "token-1", string(body))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, f.events.events, 1)
	require.Equal(t, events.SubjectPostCreated, f.events.events[0].subject)
}

func TestGetPostNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/posts/no-such-post", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikePostDeduplicatesEventID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/posts/post-1/like", "token-1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.Len(t, f.events.events, 1)
	require.Equal(t, events.SubjectPostLiked, f.events.events[0].subject)
	require.Equal(t, "user-1-post-1", f.events.events[0].msgID)
}

func TestLikePostTwiceConflicts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/posts/post-1/like", "token-1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/posts/post-1/like", "token-1", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	// The failed like must not emit a second event.
	require.Len(t, f.events.events, 1)
}

func TestFollowSelfRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/users/user-1/follow", "token-1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, f.events.events)
}

func TestFollowDuplicateConflicts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.users.followErr = fmt.Errorf("%w: idx_follows_pair", core.ErrConflict)

	rec := f.do(t, http.MethodPost, "/v1/users/user-2/follow", "token-1", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Empty(t, f.events.events)
}

func TestFollowPublishesEvent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/users/user-2/follow", "token-1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.Len(t, f.events.events, 1)
	require.Equal(t, events.SubjectUserFollowed, f.events.events[0].subject)
	require.Equal(t, "user-1-user-2", f.events.events[0].msgID)
}

func TestUnfollowIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodDelete, "/v1/users/user-2/follow", "token-1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/v1/users/user-2/follow", "token-1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUpdateFeaturedImageForbidden(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.posts.featuredErr = fmt.Errorf("%w: post belongs to another author", core.ErrForbidden)

	rec := f.do(t, http.MethodPut, "/v1/posts/post-1/featured-image", "token-1", `{"url":"https://img.example/1.png"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSearchImagesRequiresQuery(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/images", "token-1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownTokenIsAnonymous(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	// A stale session must degrade to anonymous, not fail the request.
	rec := f.do(t, http.MethodGet, "/v1/posts", "expired-token", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, f.feed.lastViewer)

	rec = f.do(t, http.MethodGet, "/v1/reading-list", "expired-token", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
