package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"inkfeed/internal/core"
	"inkfeed/internal/persistence"
)

type Repository struct {
	Logger *slog.Logger
	DB     core.DB
}

func (r *Repository) Init(_ context.Context) error {
	r.Logger = r.Logger.With("component", "users.Repository")
	return nil
}

func (r *Repository) Profile(ctx context.Context, username string) (*core.Profile, error) {
	var profile core.Profile
	res := r.DB.Raw(`
		SELECT u.id, u.name, u.image, u.username,
			(SELECT count(*) FROM posts p WHERE p.author_id = u.id) AS post_count
		FROM users u
		WHERE u.username = ?`, username).
		WithContext(ctx).
		Scan(&profile)
	if res.Error != nil {
		return nil, persistence.TranslateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, core.ErrNotFound
	}
	return &profile, nil
}

func (r *Repository) ByUsername(ctx context.Context, username string) (*core.User, error) {
	var user core.User
	err := r.DB.Model(&core.User{}).
		WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}
	return &user, nil
}

func (r *Repository) SetImage(ctx context.Context, userID, url string) error {
	return persistence.TranslateError(
		r.DB.Model(&core.User{}).
			WithContext(ctx).
			Where("id = ?", userID).
			Update("image", url).Error,
	)
}

// RecentLikedTags resolves the user's newest like rows (capped before the
// join, so the cap bounds engagement rows, not tag rows) to tag names.
func (r *Repository) RecentLikedTags(ctx context.Context, userID string, limit int) ([]string, error) {
	return r.recentEngagedTags(ctx, "likes", userID, limit)
}

func (r *Repository) RecentBookmarkedTags(ctx context.Context, userID string, limit int) ([]string, error) {
	return r.recentEngagedTags(ctx, "bookmarks", userID, limit)
}

func (r *Repository) recentEngagedTags(ctx context.Context, table, userID string, limit int) ([]string, error) {
	var names []string
	err := r.DB.Raw(fmt.Sprintf(`
		SELECT t.name
		FROM (
			SELECT post_id FROM %s
			WHERE user_id = ?
			ORDER BY created_at DESC
			LIMIT ?
		) recent
		JOIN post_tags pt ON pt.post_id = recent.post_id
		JOIN tags t ON t.id = pt.tag_id`, table), userID, limit).
		WithContext(ctx).
		Scan(&names).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}
	return names, nil
}

// EngagedWithTags finds users, other than excludeUserID, who liked or
// bookmarked at least one post carrying any of the given tags. Any match
// qualifies equally; ordering by id only makes the result deterministic.
func (r *Repository) EngagedWithTags(ctx context.Context, tagNames []string, excludeUserID string, limit int) ([]core.UserSummary, error) {
	if len(tagNames) == 0 {
		return nil, nil
	}

	var rows []core.UserSummary
	err := r.DB.Raw(`
		SELECT u.id, u.name, u.image, u.username
		FROM users u
		WHERE u.id <> ?
		AND (
			EXISTS (
				SELECT 1 FROM likes l
				JOIN post_tags pt ON pt.post_id = l.post_id
				JOIN tags t ON t.id = pt.tag_id
				WHERE l.user_id = u.id AND t.name IN (?)
			)
			OR EXISTS (
				SELECT 1 FROM bookmarks b
				JOIN post_tags pt ON pt.post_id = b.post_id
				JOIN tags t ON t.id = pt.tag_id
				WHERE b.user_id = u.id AND t.name IN (?)
			)
		)
		ORDER BY u.id
		LIMIT ?`, excludeUserID, tagNames, tagNames, limit).
		WithContext(ctx).
		Scan(&rows).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}
	return rows, nil
}

// Follow creates the directed edge follower -> followee. Duplicate edges
// are rejected by the unique index, surfacing as ErrConflict even under
// concurrent calls.
func (r *Repository) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return fmt.Errorf("%w: cannot follow yourself", core.ErrValidation)
	}

	follow := core.Follow{
		ID:         uuid.NewString(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
	return persistence.TranslateError(
		r.DB.Model(&core.Follow{}).WithContext(ctx).Create(&follow).Error,
	)
}

// Unfollow is idempotent: deleting an absent edge is not an error.
func (r *Repository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return persistence.TranslateError(
		r.DB.Model(&core.Follow{}).
			WithContext(ctx).
			Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			Delete(&core.Follow{}).Error,
	)
}

func (r *Repository) Followers(ctx context.Context, userID string, viewerID *string) ([]core.UserSummary, error) {
	return r.followEdges(ctx, "f.follower_id", "f.followee_id", userID, viewerID)
}

func (r *Repository) Following(ctx context.Context, userID string, viewerID *string) ([]core.UserSummary, error) {
	return r.followEdges(ctx, "f.followee_id", "f.follower_id", userID, viewerID)
}

type followRow struct {
	ID        string
	Name      string
	Image     string
	Username  string
	Following bool
}

func (r *Repository) followEdges(ctx context.Context, selectCol, whereCol, userID string, viewerID *string) ([]core.UserSummary, error) {
	viewer := ""
	if viewerID != nil {
		viewer = *viewerID
	}

	var rows []followRow
	err := r.DB.Raw(fmt.Sprintf(`
		SELECT u.id, u.name, u.image, u.username,
			EXISTS (
				SELECT 1 FROM follows vf
				WHERE vf.follower_id = ? AND vf.followee_id = u.id
			) AS following
		FROM follows f
		JOIN users u ON u.id = %s
		WHERE %s = ?
		ORDER BY f.created_at DESC`, selectCol, whereCol), viewer, userID).
		WithContext(ctx).
		Scan(&rows).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}

	return lo.Map(rows, func(row followRow, _ int) core.UserSummary {
		summary := core.UserSummary{
			ID:       row.ID,
			Name:     row.Name,
			Image:    row.Image,
			Username: row.Username,
		}
		if viewerID != nil {
			summary.Following = lo.ToPtr(row.Following)
		}
		return summary
	}), nil
}
