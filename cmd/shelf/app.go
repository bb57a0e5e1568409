package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/shelf/pkg/books"
	"github.com/shishobooks/shelf/pkg/database"
	"github.com/shishobooks/shelf/pkg/library"
	"github.com/shishobooks/shelf/pkg/members"
	"github.com/shishobooks/shelf/pkg/migrations"
	"github.com/shishobooks/shelf/pkg/models"
	"github.com/shishobooks/shelf/pkg/notifications"
	"github.com/shishobooks/shelf/pkg/version"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

// shelf holds what the command actions share.
type shelf struct {
	db  *bun.DB
	log logger.Logger
}

// context returns a context whose logger is tagged with a fresh ID so the
// notification and query logs of one invocation can be traced together.
func (s *shelf) context(c *cli.Context) context.Context {
	l := s.log.ID(uuid.New().String()).Root(logger.Data{"command": c.Command.FullName()})
	return database.WithLogging(l.WithContext(c.Context))
}

// bringUpToDate runs pending migrations before commands that touch the shelf.
func (s *shelf) bringUpToDate(c *cli.Context) error {
	group, err := migrations.BringUpToDate(s.context(c), s.db)
	if err != nil {
		return err
	}
	if group.ID != 0 {
		s.log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}
	return nil
}

func newApp(db *bun.DB, log logger.Logger) *cli.App {
	s := &shelf{db: db, log: log}

	memberService := members.NewService(db)
	notificationService := notifications.NewService(db)
	svc := library.NewService(books.NewService(db), memberService, notificationService)

	lendingFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.IntFlag{Name: "member", Usage: "member ID", Required: true},
			&cli.StringFlag{Name: "title", Usage: "book title", Required: true},
		}
	}

	return &cli.App{
		Name:    "shelf",
		Usage:   "CLI to manage the library shelf",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:   "add-book",
				Usage:  "add copies of a title",
				Before: s.bringUpToDate,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "book title", Required: true},
					&cli.IntFlag{Name: "copies", Usage: "number of copies to add", Value: 1},
				},
				Action: func(c *cli.Context) error {
					title := c.String("title")
					if err := svc.AddBook(s.context(c), title, c.Int("copies")); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Added %d copies of %q\n", c.Int("copies"), title)
					return nil
				},
			},
			{
				Name:   "borrow",
				Usage:  "borrow a copy of a title",
				Before: s.bringUpToDate,
				Flags:  lendingFlags(),
				Action: func(c *cli.Context) error {
					ok, err := svc.BorrowBook(s.context(c), c.Int("member"), c.String("title"))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintf(c.App.Writer, "No copies of %q are available\n", c.String("title"))
						return nil
					}
					fmt.Fprintf(c.App.Writer, "Member %d borrowed %q\n", c.Int("member"), c.String("title"))
					return nil
				},
			},
			{
				Name:   "return",
				Usage:  "return a copy of a title",
				Before: s.bringUpToDate,
				Flags:  lendingFlags(),
				Action: func(c *cli.Context) error {
					ok, err := svc.ReturnBook(s.context(c), c.Int("member"), c.String("title"))
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintf(c.App.Writer, "%q is not on the shelf\n", c.String("title"))
						return nil
					}
					fmt.Fprintf(c.App.Writer, "Member %d returned %q\n", c.Int("member"), c.String("title"))
					return nil
				},
			},
			{
				Name:   "available",
				Usage:  "list titles with copies on the shelf",
				Before: s.bringUpToDate,
				Action: func(c *cli.Context) error {
					available, err := svc.GetAvailableBooks(s.context(c))
					if err != nil {
						return err
					}
					for _, book := range available {
						fmt.Fprintf(c.App.Writer, "%s\t%d\n", book.Title, book.Copies)
					}
					return nil
				},
			},
			{
				Name:   "add-member",
				Usage:  "register a new member",
				Before: s.bringUpToDate,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "member name", Required: true},
				},
				Action: func(c *cli.Context) error {
					member := &models.Member{Name: c.String("name")}
					if err := memberService.CreateMember(s.context(c), member); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Created member %d (%s)\n", member.ID, member.Name)
					return nil
				},
			},
			{
				Name:   "members",
				Usage:  "list active members",
				Before: s.bringUpToDate,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "include deactivated members"},
				},
				Action: func(c *cli.Context) error {
					list, err := memberService.ListMembers(s.context(c), members.ListMembersOptions{
						IncludeDeactivated: c.Bool("all"),
					})
					if err != nil {
						return err
					}
					for _, member := range list {
						fmt.Fprintf(c.App.Writer, "%d\t%s\n", member.ID, member.Name)
					}
					return nil
				},
			},
			{
				Name:   "notifications",
				Usage:  "list borrow and return notifications, newest first",
				Before: s.bringUpToDate,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "member", Usage: "only notifications for this member ID"},
					&cli.IntFlag{Name: "limit", Usage: "maximum number of notifications", Value: 50},
				},
				Action: func(c *cli.Context) error {
					limit := c.Int("limit")
					opts := notifications.ListNotificationsOptions{Limit: &limit}
					if c.IsSet("member") {
						memberID := c.Int("member")
						opts.MemberID = &memberID
					}
					list, err := notificationService.ListNotifications(s.context(c), opts)
					if err != nil {
						return err
					}
					for _, n := range list {
						fmt.Fprintf(c.App.Writer, "%s\t%s\t%d\t%s\n", n.CreatedAt.Format("2006-01-02 15:04:05"), n.Type, n.MemberID, n.Title)
					}
					return nil
				},
			},
			s.migrationsCommand(),
		},
	}
}
