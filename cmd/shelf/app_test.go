package main

import (
	"bytes"
	"testing"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/shelf/pkg/config"
	"github.com/shishobooks/shelf/pkg/database"
	"github.com/shishobooks/shelf/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := database.New(config.NewForTest())
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func runApp(t *testing.T, db *bun.DB, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	app := newApp(db, logger.New())
	app.Writer = out
	app.ErrWriter = out
	err := app.Run(append([]string{"shelf"}, args...))
	return out.String(), err
}

func TestApp_LendingFlow(t *testing.T) {
	db := newTestDB(t)

	out, err := runApp(t, db, "add-member", "--name", "Ada")
	require.NoError(t, err)
	assert.Equal(t, "Created member 1 (Ada)\n", out)

	out, err = runApp(t, db, "add-book", "--title", "Dune", "--copies", "1")
	require.NoError(t, err)
	assert.Equal(t, "Added 1 copies of \"Dune\"\n", out)

	out, err = runApp(t, db, "borrow", "--member", "1", "--title", "Dune")
	require.NoError(t, err)
	assert.Equal(t, "Member 1 borrowed \"Dune\"\n", out)

	out, err = runApp(t, db, "borrow", "--member", "1", "--title", "Dune")
	require.NoError(t, err)
	assert.Equal(t, "No copies of \"Dune\" are available\n", out)

	out, err = runApp(t, db, "available")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = runApp(t, db, "return", "--member", "1", "--title", "Dune")
	require.NoError(t, err)
	assert.Equal(t, "Member 1 returned \"Dune\"\n", out)

	out, err = runApp(t, db, "available")
	require.NoError(t, err)
	assert.Equal(t, "Dune\t1\n", out)

	out, err = runApp(t, db, "members")
	require.NoError(t, err)
	assert.Equal(t, "1\tAda\n", out)

	out, err = runApp(t, db, "notifications", "--member", "1")
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "return\t1\tDune")
	assert.Contains(t, string(lines[1]), "borrow\t1\tDune")
}

func TestApp_BorrowInvalidMember(t *testing.T) {
	db := newTestDB(t)

	_, err := runApp(t, db, "add-book", "--title", "Dune")
	require.NoError(t, err)

	_, err = runApp(t, db, "borrow", "--member", "7", "--title", "Dune")
	assert.ErrorIs(t, err, errcodes.InvalidOperation("invalid member"))
}

func TestApp_AddBookInvalidCopies(t *testing.T) {
	db := newTestDB(t)

	_, err := runApp(t, db, "add-book", "--title", "Dune", "--copies", "0")
	assert.ErrorIs(t, err, errcodes.InvalidArgument("copies"))
}

func TestApp_Migrations(t *testing.T) {
	db := newTestDB(t)

	out, err := runApp(t, db, "migrations", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated to")

	out, err = runApp(t, db, "migrations", "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Schema is up to date\n", out)

	out, err = runApp(t, db, "migrations", "rollback")
	require.NoError(t, err)
	assert.Contains(t, out, "Rolled back")

	out, err = runApp(t, db, "migrations", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending: 20261019000000")
}

func TestApp_CreateMigrationNeedsName(t *testing.T) {
	db := newTestDB(t)

	_, err := runApp(t, db, "migrations", "create")
	assert.ErrorIs(t, err, errNoMigrationName)
}
