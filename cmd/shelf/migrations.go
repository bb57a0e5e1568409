package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/shelf/pkg/migrations"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

var errNoMigrationName = errors.New("a migration name is required")

func (s *shelf) migrationsCommand() *cli.Command {
	migrator := func() *migrate.Migrator {
		return migrate.NewMigrator(s.db, migrations.Migrations)
	}

	return &cli.Command{
		Name:  "migrations",
		Usage: "manage the database schema",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create the migration bookkeeping tables",
				Action: func(c *cli.Context) error {
					return migrator().Init(s.context(c))
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					ctx := s.context(c)
					m := migrator()
					if err := m.Init(ctx); err != nil {
						return err
					}

					group, err := m.Migrate(ctx)
					if err != nil {
						return err
					}
					if group.ID == 0 {
						fmt.Fprintln(c.App.Writer, "Schema is up to date")
						return nil
					}

					logger.FromContext(ctx).Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
					fmt.Fprintf(c.App.Writer, "Migrated to %s\n", group)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					ctx := s.context(c)
					group, err := migrator().Rollback(ctx)
					if err != nil {
						return err
					}
					if group.ID == 0 {
						fmt.Fprintln(c.App.Writer, "Nothing to roll back")
						return nil
					}

					logger.FromContext(ctx).Info("rolled back group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
					fmt.Fprintf(c.App.Writer, "Rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "create a Go migration in pkg/migrations",
				ArgsUsage: "<name words...>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errNoMigrationName
					}
					name := strings.Join(c.Args().Slice(), "_")
					mf, err := migrator().CreateGoMigration(s.context(c), name, migrate.WithGoTemplate(migrationTemplate))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Created %s (%s)\n", mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "show applied and pending migrations",
				Action: func(c *cli.Context) error {
					ms, err := migrator().MigrationsWithStatus(s.context(c))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Applied: %s\n", ms.Applied())
					fmt.Fprintf(c.App.Writer, "Pending: %s\n", ms.Unapplied())
					fmt.Fprintf(c.App.Writer, "Last group: %s\n", ms.LastGroup())
					return nil
				},
			},
		},
	}
}

// migrationTemplate matches the layout of the schema files in pkg/migrations:
// raw SQL statements, each wrapped with a stack.
const migrationTemplate = `package %s

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(` + "``" + `)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(` + "``" + `)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
`
