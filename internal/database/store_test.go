package database_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"resourcesvc/internal/config"
	"resourcesvc/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type row struct {
	ID       int64
	Name     string
	Price    float64
	Quantity int64
}

func openMemory(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema(context.Background()))
	return store
}

func insert(t *testing.T, store *database.Store, name string, price float64, qty int64) int64 {
	t.Helper()
	var id int64
	found, err := store.FetchOne(context.Background(), &id,
		"INSERT INTO resources (name, description, category, price, quantity) VALUES (?, ?, ?, ?, ?) RETURNING id",
		name, "desc", "cat", price, qty)
	require.NoError(t, err)
	require.True(t, found)
	return id
}

func TestOpen_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "resources.db")
	_, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not accessible")
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.db")
	store, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, database.DialectSQLite, store.Dialect())
	assert.NoError(t, store.Ping(context.Background()))
	assert.FileExists(t, path)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestInitSchema_Idempotent(t *testing.T) {
	store := openMemory(t)
	require.NoError(t, store.InitSchema(context.Background()))
	require.NoError(t, store.InitSchema(context.Background()))

	insert(t, store, "Laptop", 10, 1)
}

func TestExec_RowsAffected(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()
	id := insert(t, store, "Laptop", 10, 1)

	n, err := store.Exec(ctx, "UPDATE resources SET quantity = ? WHERE id = ?", 7, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Exec(ctx, "UPDATE resources SET quantity = ? WHERE id = ?", 7, id+100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestFetchOne_Absent(t *testing.T) {
	store := openMemory(t)

	var r row
	found, err := store.FetchOne(context.Background(), &r, "SELECT id, name, price, quantity FROM resources WHERE id = ?", 42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFetchMany(t *testing.T) {
	store := openMemory(t)
	for i := 0; i < 3; i++ {
		insert(t, store, fmt.Sprintf("item-%d", i), float64(i), int64(i))
	}

	var rows []row
	require.NoError(t, store.FetchMany(context.Background(), &rows, "SELECT id, name, price, quantity FROM resources WHERE price >= ? ORDER BY id", 1))
	require.Len(t, rows, 2)
	assert.Equal(t, "item-1", rows[0].Name)
	assert.Equal(t, "item-2", rows[1].Name)

	rows = nil
	require.NoError(t, store.FetchMany(context.Background(), &rows, "SELECT id, name, price, quantity FROM resources WHERE price > ?", 100))
	assert.Empty(t, rows)
}

func TestParametersAreNotInterpolated(t *testing.T) {
	store := openMemory(t)
	hostile := "x'); DROP TABLE resources; --"
	id := insert(t, store, hostile, 1, 1)

	var r row
	found, err := store.FetchOne(context.Background(), &r, "SELECT id, name, price, quantity FROM resources WHERE name = ?", hostile)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, hostile, r.Name)
}

func TestConstraintViolationKind(t *testing.T) {
	store := openMemory(t)
	ctx := context.Background()

	_, err := store.Exec(ctx,
		"INSERT INTO resources (name, description, category, price, quantity) VALUES (?, ?, ?, ?, ?)",
		"Bad", "desc", "cat", -1.0, 1)
	require.Error(t, err)
	kind, ok := database.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, database.KindConstraintViolation, kind)

	_, err = store.Exec(ctx,
		"INSERT INTO resources (name, description, category, price, quantity) VALUES (?, ?, ?, ?, ?)",
		nil, "desc", "cat", 1.0, 1)
	require.Error(t, err)
	kind, _ = database.KindOf(err)
	assert.Equal(t, database.KindConstraintViolation, kind)
}

func TestStorageErrorKind(t *testing.T) {
	store := openMemory(t)

	_, err := store.Exec(context.Background(), "UPDATE no_such_table SET x = ?", 1)
	require.Error(t, err)
	kind, ok := database.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, database.KindStorage, kind)

	var dbErr *database.Error
	require.True(t, errors.As(err, &dbErr))
	assert.Equal(t, "exec", dbErr.Op)
}

func TestKindOf_ForeignError(t *testing.T) {
	_, ok := database.KindOf(errors.New("boom"))
	assert.False(t, ok)
}
