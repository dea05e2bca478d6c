package tags

import (
	"context"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/samber/lo"

	"inkfeed/internal/core"
	"inkfeed/internal/persistence"
)

type Repository struct {
	DB core.DB
}

// Create relies on the unique name index: a duplicate name comes back as
// ErrConflict regardless of interleaving.
func (r *Repository) Create(ctx context.Context, name string) (*core.TagSummary, error) {
	tag := core.Tag{
		ID:   uuid.NewString(),
		Name: name,
		Slug: slug.Make(name),
	}
	err := r.DB.Model(&core.Tag{}).WithContext(ctx).Create(&tag).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}
	return &core.TagSummary{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}, nil
}

func (r *Repository) All(ctx context.Context) ([]core.TagSummary, error) {
	var rows []core.Tag
	err := r.DB.Model(&core.Tag{}).
		WithContext(ctx).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, persistence.TranslateError(err)
	}
	return lo.Map(rows, func(t core.Tag, _ int) core.TagSummary {
		return core.TagSummary{ID: t.ID, Name: t.Name, Slug: t.Slug}
	}), nil
}
