package database

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shishobooks/shelf/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InMemory(t *testing.T) {
	t.Parallel()

	db, err := New(config.NewForTest())
	require.NoError(t, err)
	defer db.Close()

	var one int
	err = db.NewRaw("SELECT 1").Scan(context.Background(), &one)
	require.NoError(t, err)
	assert.Equal(t, 1, one)
}

func TestNew_DebugQueryHook(t *testing.T) {
	t.Parallel()

	cfg := config.NewForTest()
	cfg.DatabaseDebug = true

	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecContext(WithLogging(context.Background()), "SELECT 1")
	require.NoError(t, err)
}

func TestNew_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "test.db")

	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE shelf_counts (id INTEGER PRIMARY KEY AUTOINCREMENT, label TEXT NOT NULL)`)
	require.NoError(t, err)

	const workers = 10
	const writes = 20

	var wg sync.WaitGroup
	errs := make(chan error, workers*writes)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < writes; i++ {
				_, err := db.Exec("INSERT INTO shelf_counts (label) VALUES (?)", fmt.Sprintf("w%d-%d", id, i))
				if err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	var count int
	err = db.NewRaw("SELECT COUNT(*) FROM shelf_counts").Scan(context.Background(), &count)
	require.NoError(t, err)
	assert.Equal(t, workers*writes, count)
}
