package core

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type DB interface {
	Model(a any) *gorm.DB
	Raw(sql string, values ...any) *gorm.DB
	Gorm() *gorm.DB
	EstimatedCount(tableName string) (int64, error)
	DB() (*sql.DB, error)
	HealthCheck(ctx context.Context) error
}

type Migrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
}

type PostRepository interface {
	// FeedPage returns up to limit posts ordered by recency, anchored at
	// the cursor post when cursor is non-nil. An unknown cursor yields an
	// empty page, not an error.
	FeedPage(ctx context.Context, cursor *string, viewerID *string, limit int) ([]PostSummary, error)
	BySlug(ctx context.Context, slug string, viewerID *string) (*PostDetail, error)
	ByAuthor(ctx context.Context, username string, viewerID *string) ([]PostSummary, error)
	Create(ctx context.Context, authorID string, draft PostDraft) (*PostDetail, error)
	SetFeaturedImage(ctx context.Context, postID, authorID, url string) error

	Like(ctx context.Context, userID, postID string) error
	Unlike(ctx context.Context, userID, postID string) error
	Bookmark(ctx context.Context, userID, postID string) error
	Unbookmark(ctx context.Context, userID, postID string) error
	ReadingList(ctx context.Context, userID string, limit int) ([]ReadingListItem, error)

	AddComment(ctx context.Context, userID, postID, text string) (*CommentSummary, error)
	Comments(ctx context.Context, postID string) ([]CommentSummary, error)
}

type UserRepository interface {
	Profile(ctx context.Context, username string) (*Profile, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	SetImage(ctx context.Context, userID, url string) error

	// Engagement signals for the suggestion engine: tag names attached to
	// the posts behind the user's most recent likes/bookmarks.
	RecentLikedTags(ctx context.Context, userID string, limit int) ([]string, error)
	RecentBookmarkedTags(ctx context.Context, userID string, limit int) ([]string, error)
	EngagedWithTags(ctx context.Context, tagNames []string, excludeUserID string, limit int) ([]UserSummary, error)

	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	Followers(ctx context.Context, userID string, viewerID *string) ([]UserSummary, error)
	Following(ctx context.Context, userID string, viewerID *string) ([]UserSummary, error)
}

type TagRepository interface {
	Create(ctx context.Context, name string) (*TagSummary, error)
	All(ctx context.Context) ([]TagSummary, error)
}

type FeedPaginator interface {
	GetPosts(ctx context.Context, cursor *string, viewerID *string) (*PostPage, error)
}

type SuggestionEngine interface {
	GetSuggestions(ctx context.Context, viewerID string) ([]UserSummary, error)
}

// IdentityProvider resolves a bearer token to a user id. A nil id with a
// nil error means the token does not belong to a session.
type IdentityProvider interface {
	Resolve(ctx context.Context, token string) (*string, error)
}

// BlobStore persists opaque blobs and returns their public URL.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

type ImageSearcher interface {
	Search(ctx context.Context, query string) ([]ImageResult, error)
}

// EventPublisher emits domain events for downstream consumers. Publishing
// is best-effort from the caller's point of view.
type EventPublisher interface {
	Publish(ctx context.Context, subject, msgID string, payload any) error
}
