package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"inkfeed/internal/core"
	"inkfeed/internal/events"
)

type Backend struct {
	Logger      *slog.Logger
	Posts       core.PostRepository
	Users       core.UserRepository
	Tags        core.TagRepository
	Feed        core.FeedPaginator
	Suggestions core.SuggestionEngine
	Identity    core.IdentityProvider
	Blobs       core.BlobStore
	Images      core.ImageSearcher
	Events      core.EventPublisher
}

func (b *Backend) Init(context.Context) error {
	b.Logger = b.Logger.With("component", "api.Backend")
	return nil
}

func (b *Backend) Routes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Use(b.withViewer)

		r.Get("/posts", b.getPosts)
		r.Post("/posts", b.createPost)
		r.Get("/posts/{slug}", b.getPost)
		r.Put("/posts/{id}/featured-image", b.updateFeaturedImage)
		r.Post("/posts/{id}/like", b.likePost)
		r.Delete("/posts/{id}/like", b.dislikePost)
		r.Post("/posts/{id}/bookmark", b.bookmarkPost)
		r.Delete("/posts/{id}/bookmark", b.removeBookmark)
		r.Get("/posts/{id}/comments", b.getComments)
		r.Post("/posts/{id}/comments", b.submitComment)

		r.Get("/reading-list", b.getReadingList)
		r.Get("/suggestions", b.getSuggestions)

		r.Get("/tags", b.getTags)
		r.Post("/tags", b.createTag)

		r.Get("/users/{username}", b.getUserProfile)
		r.Get("/users/{username}/posts", b.getUserPosts)
		r.Post("/users/{id}/follow", b.followUser)
		r.Delete("/users/{id}/follow", b.unfollowUser)
		r.Get("/users/{id}/followers", b.getAllFollowers)
		r.Get("/users/{id}/following", b.getAllFollowing)

		r.Post("/avatar", b.uploadAvatar)
		r.Get("/images", b.searchImages)
	})
}

func (b *Backend) getPosts(w http.ResponseWriter, r *http.Request) {
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	page, err := b.Feed.GetPosts(r.Context(), cursor, viewerFrom(r.Context()))
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, page)
}

func (b *Backend) createPost(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	data := &CreatePostRequest{}
	if err := render.Bind(r, data); err != nil {
		b.renderBindError(w, r, err)
		return
	}

	post, err := b.Posts.Create(r.Context(), viewer, core.PostDraft{
		Title:       data.Title,
		Description: data.Description,
		Text:        data.Text,
		HTML:        data.HTML,
		TagIDs:      data.TagIDs,
	})
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	b.publish(r.Context(), events.SubjectPostCreated, post.ID, map[string]string{
		"postId":   post.ID,
		"authorId": viewer,
	})

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, post)
}

func (b *Backend) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := b.Posts.BySlug(r.Context(), chi.URLParam(r, "slug"), viewerFrom(r.Context()))
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, post)
}

func (b *Backend) updateFeaturedImage(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	data := &FeaturedImageRequest{}
	if err := render.Bind(r, data); err != nil {
		b.renderBindError(w, r, err)
		return
	}

	err := b.Posts.SetFeaturedImage(r.Context(), chi.URLParam(r, "id"), viewer, data.URL)
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

func (b *Backend) likePost(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	postID := chi.URLParam(r, "id")
	if err := b.Posts.Like(r.Context(), viewer, postID); err != nil {
		b.renderError(w, r, err)
		return
	}

	b.publish(r.Context(), events.SubjectPostLiked, fmt.Sprintf("%s-%s", viewer, postID), map[string]string{
		"postId": postID,
		"userId": viewer,
	})

	render.NoContent(w, r)
}

func (b *Backend) dislikePost(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	if err := b.Posts.Unlike(r.Context(), viewer, chi.URLParam(r, "id")); err != nil {
		b.renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

func (b *Backend) bookmarkPost(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	postID := chi.URLParam(r, "id")
	if err := b.Posts.Bookmark(r.Context(), viewer, postID); err != nil {
		b.renderError(w, r, err)
		return
	}

	b.publish(r.Context(), events.SubjectPostBookmarked, fmt.Sprintf("%s-%s", viewer, postID), map[string]string{
		"postId": postID,
		"userId": viewer,
	})

	render.NoContent(w, r)
}

func (b *Backend) removeBookmark(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	if err := b.Posts.Unbookmark(r.Context(), viewer, chi.URLParam(r, "id")); err != nil {
		b.renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

func (b *Backend) getComments(w http.ResponseWriter, r *http.Request) {
	comments, err := b.Posts.Comments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, comments)
}

func (b *Backend) submitComment(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	data := &CommentRequest{}
	if err := render.Bind(r, data); err != nil {
		b.renderBindError(w, r, err)
		return
	}

	comment, err := b.Posts.AddComment(r.Context(), viewer, chi.URLParam(r, "id"), data.Text)
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, comment)
}

func (b *Backend) getReadingList(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	list, err := b.Posts.ReadingList(r.Context(), viewer, 4)
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, list)
}

func (b *Backend) getSuggestions(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	users, err := b.Suggestions.GetSuggestions(r.Context(), viewer)
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, users)
}

func (b *Backend) getTags(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.requireViewer(w, r); !ok {
		return
	}

	tags, err := b.Tags.All(r.Context())
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, tags)
}

func (b *Backend) createTag(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.requireViewer(w, r); !ok {
		return
	}

	data := &CreateTagRequest{}
	if err := render.Bind(r, data); err != nil {
		b.renderBindError(w, r, err)
		return
	}

	tag, err := b.Tags.Create(r.Context(), data.Name)
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, tag)
}

func (b *Backend) getUserProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := b.Users.Profile(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, profile)
}

func (b *Backend) getUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := b.Posts.ByAuthor(r.Context(), chi.URLParam(r, "username"), viewerFrom(r.Context()))
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, posts)
}

func (b *Backend) followUser(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	target := chi.URLParam(r, "id")
	if err := b.Users.Follow(r.Context(), viewer, target); err != nil {
		b.renderError(w, r, err)
		return
	}

	b.publish(r.Context(), events.SubjectUserFollowed, fmt.Sprintf("%s-%s", viewer, target), map[string]string{
		"followerId": viewer,
		"followeeId": target,
	})

	render.NoContent(w, r)
}

func (b *Backend) unfollowUser(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	if err := b.Users.Unfollow(r.Context(), viewer, chi.URLParam(r, "id")); err != nil {
		b.renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

func (b *Backend) getAllFollowers(w http.ResponseWriter, r *http.Request) {
	users, err := b.Users.Followers(r.Context(), chi.URLParam(r, "id"), viewerFrom(r.Context()))
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, users)
}

func (b *Backend) getAllFollowing(w http.ResponseWriter, r *http.Request) {
	users, err := b.Users.Following(r.Context(), chi.URLParam(r, "id"), viewerFrom(r.Context()))
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, users)
}

func (b *Backend) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	viewer, ok := b.requireViewer(w, r)
	if !ok {
		return
	}

	data := &UploadAvatarRequest{}
	if err := render.Bind(r, data); err != nil {
		b.renderBindError(w, r, err)
		return
	}

	user, err := b.Users.ByUsername(r.Context(), data.Username)
	if err != nil {
		b.renderError(w, r, err)
		return
	}
	if user.ID != viewer {
		b.renderError(w, r, fmt.Errorf("%w: username does not belong to the caller", core.ErrForbidden))
		return
	}

	blob, _, err := parseDataURI(data.ImageAsDataURL)
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	url, err := b.Blobs.Put(r.Context(), "avatars/"+data.Username+".png", blob, "image/png")
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	if err := b.Users.SetImage(r.Context(), viewer, url); err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]string{"image": url})
}

func (b *Backend) searchImages(w http.ResponseWriter, r *http.Request) {
	if _, ok := b.requireViewer(w, r); !ok {
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		b.renderError(w, r, fmt.Errorf("%w: query is required", core.ErrValidation))
		return
	}

	results, err := b.Images.Search(r.Context(), query)
	if err != nil {
		b.renderError(w, r, err)
		return
	}

	render.JSON(w, r, results)
}

// publish emits a domain event; failures are logged, never surfaced to
// the caller.
func (b *Backend) publish(ctx context.Context, subject, msgID string, payload any) {
	if err := b.Events.Publish(ctx, subject, msgID, payload); err != nil {
		b.Logger.Error("failed to publish event", "subject", subject, "error", err)
	}
}
