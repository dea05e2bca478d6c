package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"inkfeed/internal/core"
	"inkfeed/internal/persistence"
)

type Repository struct {
	Logger *slog.Logger
	DB     core.DB
}

func (r *Repository) Init(_ context.Context) error {
	r.Logger = r.Logger.With("component", "posts.Repository")
	return nil
}

// FeedPage returns up to limit posts ordered by created_at DESC, id DESC.
// The cursor anchors the page with a row-value comparison against the
// cursor post; if that post was deleted the subquery yields NULL and the
// page comes back empty, which is exactly the stale-cursor contract.
func (r *Repository) FeedPage(ctx context.Context, cursor *string, viewerID *string, limit int) ([]core.PostSummary, error) {
	q := r.DB.Model(&core.Post{}).
		WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit)

	if cursor != nil {
		q = q.Where(
			"(posts.created_at, posts.id) <= (SELECT c.created_at, c.id FROM posts c WHERE c.id = ?)",
			*cursor,
		)
	}

	var rows []core.Post
	if err := q.Find(&rows).Error; err != nil {
		return nil, persistence.TranslateError(err)
	}

	summaries := lo.Map(rows, func(p core.Post, _ int) core.PostSummary {
		return toSummary(p)
	})

	if viewerID != nil {
		if err := r.annotateBookmarks(ctx, *viewerID, summaries); err != nil {
			return nil, err
		}
	}

	return summaries, nil
}

func (r *Repository) ByAuthor(ctx context.Context, username string, viewerID *string) ([]core.PostSummary, error) {
	var rows []core.Post
	err := r.DB.Model(&core.Post{}).
		WithContext(ctx).
		Joins("JOIN users ON users.id = posts.author_id").
		Where("users.username = ?", username).
		Preload("Author").
		Preload("Tags").
		Order("posts.created_at DESC, posts.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}

	summaries := lo.Map(rows, func(p core.Post, _ int) core.PostSummary {
		return toSummary(p)
	})

	if viewerID != nil {
		if err := r.annotateBookmarks(ctx, *viewerID, summaries); err != nil {
			return nil, err
		}
	}

	return summaries, nil
}

func (r *Repository) BySlug(ctx context.Context, postSlug string, viewerID *string) (*core.PostDetail, error) {
	var post core.Post
	err := r.DB.Model(&core.Post{}).
		WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Where("posts.slug = ?", postSlug).
		First(&post).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}

	detail := toDetail(post)

	if viewerID != nil {
		var count int64
		err = r.DB.Model(&core.Like{}).
			WithContext(ctx).
			Where("user_id = ? AND post_id = ?", *viewerID, post.ID).
			Count(&count).Error
		if err != nil {
			return nil, persistence.TranslateError(err)
		}
		detail.Liked = lo.ToPtr(count > 0)
	}

	return &detail, nil
}

func (r *Repository) Create(ctx context.Context, authorID string, draft core.PostDraft) (*core.PostDetail, error) {
	post := core.Post{
		ID:          uuid.NewString(),
		Slug:        slug.Make(draft.Title),
		Title:       draft.Title,
		Description: draft.Description,
		Text:        draft.Text,
		HTML:        draft.HTML,
		AuthorID:    authorID,
		Tags: lo.Map(draft.TagIDs, func(id string, _ int) core.Tag {
			return core.Tag{ID: id}
		}),
	}

	// Omit("Tags.*") keeps gorm from upserting the tag rows themselves
	// while still writing the post_tags join records.
	err := r.DB.Gorm().
		WithContext(ctx).
		Omit("Tags.*").
		Create(&post).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}

	return r.BySlug(ctx, post.Slug, nil)
}

// SetFeaturedImage is a single conditional update: the ownership check and
// the write happen in one statement, so there is no window between them.
func (r *Repository) SetFeaturedImage(ctx context.Context, postID, authorID, url string) error {
	res := r.DB.Model(&core.Post{}).
		WithContext(ctx).
		Where("id = ? AND author_id = ?", postID, authorID).
		Update("featured_image", url)
	if res.Error != nil {
		return persistence.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: post %s is not owned by the caller", core.ErrForbidden, postID)
	}
	return nil
}

func (r *Repository) Like(ctx context.Context, userID, postID string) error {
	like := core.Like{
		ID:     uuid.NewString(),
		UserID: userID,
		PostID: postID,
	}
	return persistence.TranslateError(
		r.DB.Model(&core.Like{}).WithContext(ctx).Create(&like).Error,
	)
}

func (r *Repository) Unlike(ctx context.Context, userID, postID string) error {
	return persistence.TranslateError(
		r.DB.Model(&core.Like{}).
			WithContext(ctx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&core.Like{}).Error,
	)
}

func (r *Repository) Bookmark(ctx context.Context, userID, postID string) error {
	bookmark := core.Bookmark{
		ID:     uuid.NewString(),
		UserID: userID,
		PostID: postID,
	}
	return persistence.TranslateError(
		r.DB.Model(&core.Bookmark{}).WithContext(ctx).Create(&bookmark).Error,
	)
}

func (r *Repository) Unbookmark(ctx context.Context, userID, postID string) error {
	return persistence.TranslateError(
		r.DB.Model(&core.Bookmark{}).
			WithContext(ctx).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&core.Bookmark{}).Error,
	)
}

func (r *Repository) ReadingList(ctx context.Context, userID string, limit int) ([]core.ReadingListItem, error) {
	var rows []core.Bookmark
	err := r.DB.Model(&core.Bookmark{}).
		WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Preload("Post.Author").
		Preload("Post.Tags").
		Find(&rows).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}

	return lo.Map(rows, func(b core.Bookmark, _ int) core.ReadingListItem {
		return core.ReadingListItem{
			ID:   b.ID,
			Post: toSummary(b.Post),
		}
	}), nil
}

func (r *Repository) AddComment(ctx context.Context, userID, postID, text string) (*core.CommentSummary, error) {
	comment := core.Comment{
		ID:     uuid.NewString(),
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	err := r.DB.Model(&core.Comment{}).WithContext(ctx).Create(&comment).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}

	var user core.User
	err = r.DB.Model(&core.User{}).WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistence.TranslateError(err)
	}

	return &core.CommentSummary{
		ID:        comment.ID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
		Author: core.AuthorSummary{
			Name:     user.Name,
			Image:    user.Image,
			Username: user.Username,
		},
	}, nil
}

func (r *Repository) Comments(ctx context.Context, postID string) ([]core.CommentSummary, error) {
	var rows []core.Comment
	err := r.DB.Model(&core.Comment{}).
		WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Preload("User").
		Find(&rows).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}

	return lo.Map(rows, func(c core.Comment, _ int) core.CommentSummary {
		return core.CommentSummary{
			ID:        c.ID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
			Author: core.AuthorSummary{
				Name:     c.User.Name,
				Image:    c.User.Image,
				Username: c.User.Username,
			},
		}
	}), nil
}

// annotateBookmarks fills the viewer-scoped Bookmarked flag with a single
// membership query over the page's post ids.
func (r *Repository) annotateBookmarks(ctx context.Context, viewerID string, summaries []core.PostSummary) error {
	if len(summaries) == 0 {
		return nil
	}

	ids := lo.Map(summaries, func(p core.PostSummary, _ int) string {
		return p.ID
	})

	var marked []string
	err := r.DB.Model(&core.Bookmark{}).
		WithContext(ctx).
		Where("user_id = ? AND post_id IN (?)", viewerID, ids).
		Pluck("post_id", &marked).Error
	if err != nil {
		return persistence.TranslateError(err)
	}

	markedSet := lo.Associate(marked, func(id string) (string, bool) {
		return id, true
	})

	for i := range summaries {
		summaries[i].Bookmarked = lo.ToPtr(markedSet[summaries[i].ID])
	}

	return nil
}

func toSummary(p core.Post) core.PostSummary {
	return core.PostSummary{
		ID:            p.ID,
		Slug:          p.Slug,
		Title:         p.Title,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		FeaturedImage: p.FeaturedImage,
		Author: core.AuthorSummary{
			Name:     p.Author.Name,
			Image:    p.Author.Image,
			Username: p.Author.Username,
		},
		Tags: lo.Map(p.Tags, func(t core.Tag, _ int) core.TagSummary {
			return core.TagSummary{ID: t.ID, Name: t.Name, Slug: t.Slug}
		}),
	}
}

func toDetail(p core.Post) core.PostDetail {
	return core.PostDetail{
		ID:            p.ID,
		Slug:          p.Slug,
		Title:         p.Title,
		Description:   p.Description,
		Text:          p.Text,
		HTML:          p.HTML,
		FeaturedImage: p.FeaturedImage,
		CreatedAt:     p.CreatedAt,
		Author: core.AuthorSummary{
			Name:     p.Author.Name,
			Image:    p.Author.Image,
			Username: p.Author.Username,
		},
		Tags: lo.Map(p.Tags, func(t core.Tag, _ int) core.TagSummary {
			return core.TagSummary{ID: t.ID, Name: t.Name, Slug: t.Slug}
		}),
	}
}
