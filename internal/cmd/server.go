package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"inkfeed/internal/api"
	"inkfeed/internal/blobstore"
	"inkfeed/internal/core"
	"inkfeed/internal/events"
	"inkfeed/internal/feed"
	"inkfeed/internal/identity"
	"inkfeed/internal/images"
	"inkfeed/internal/metrics"
	"inkfeed/internal/nats"
	"inkfeed/internal/persistence"
	"inkfeed/internal/persistence/posts"
	"inkfeed/internal/persistence/tags"
	"inkfeed/internal/persistence/users"
	"inkfeed/internal/suggestions"
)

var serverCmd = &cli.Command{
	Name:  "server",
	Usage: "Serve the feed, suggestion and engagement HTTP APIs",
	Action: func(ctx context.Context, _ *cli.Command) error {
		return run(ctx,
			pal.Provide[core.DB](&persistence.DB{}),
			pal.Provide[core.PostRepository](&posts.Repository{}),
			pal.Provide[core.UserRepository](&users.Repository{}),
			pal.Provide[core.TagRepository](&tags.Repository{}),
			pal.Provide[core.FeedPaginator](&feed.Paginator{}),
			pal.Provide[core.SuggestionEngine](&suggestions.Engine{}),
			pal.Provide[core.IdentityProvider](&identity.Client{}),
			pal.Provide[core.BlobStore](&blobstore.Client{}),
			pal.Provide[core.ImageSearcher](&images.Client{}),
			pal.Provide[core.EventPublisher](&events.Publisher{}),
			pal.Provide(&nats.NATS{}),
			pal.Provide(&api.Backend{}),
			pal.Provide(&api.Server{}),
			pal.Provide(&metrics.Collector{}),
			pal.Provide(&metrics.Server{}),
		)
	},
}
