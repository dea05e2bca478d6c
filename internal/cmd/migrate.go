package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"inkfeed/internal/core"
	"inkfeed/internal/persistence"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Manage the database schema",
	Commands: []*cli.Command{
		{
			Name:  "up",
			Usage: "Apply all pending migrations",
			Action: func(ctx context.Context, _ *cli.Command) error {
				return run(ctx,
					pal.Provide[core.DB](&persistence.DB{}),
					pal.Provide[core.Migrator](&persistence.Migrator{}),
					pal.Provide(&persistence.MigrationUpRunner{}),
				)
			},
		},
		{
			Name:  "down",
			Usage: "Roll back the most recent migration",
			Action: func(ctx context.Context, _ *cli.Command) error {
				return run(ctx,
					pal.Provide[core.DB](&persistence.DB{}),
					pal.Provide[core.Migrator](&persistence.Migrator{}),
					pal.Provide(&persistence.MigrationDownRunner{}),
				)
			},
		},
	},
}
