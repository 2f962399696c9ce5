package repositories_test

import (
	"context"
	"testing"
	"time"

	"resourcesvc/internal/config"
	"resourcesvc/internal/database"
	"resourcesvc/internal/models"
	"resourcesvc/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRepo(t *testing.T) *repositories.SQLResourceRepository {
	t.Helper()
	store, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.InitSchema(context.Background()))
	return repositories.NewSQLResourceRepository(store)
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func int64Ptr(i int64) *int64     { return &i }

// seed creates the inputs in order, pausing so created_at values differ.
func seed(t *testing.T, repo *repositories.SQLResourceRepository, inputs ...models.CreateResourceInput) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		id, err := repo.Create(context.Background(), in)
		require.NoError(t, err)
		ids = append(ids, id)
		time.Sleep(3 * time.Millisecond)
	}
	return ids
}

func TestCreate_IDsStrictlyIncrease(t *testing.T) {
	repo := setupRepo(t)
	var last int64
	for i := 0; i < 5; i++ {
		id, err := repo.Create(context.Background(), models.CreateResourceInput{
			Name: "Item", Description: "Thing", Category: "Misc", Price: 1, Quantity: 1,
		})
		require.NoError(t, err)
		assert.Greater(t, id, last)
		last = id
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	repo := setupRepo(t)
	in := models.CreateResourceInput{
		Name: "Laptop", Description: "High-performance laptop", Category: "Electronics", Price: 999.99, Quantity: 5,
	}
	id, err := repo.Create(context.Background(), in)
	require.NoError(t, err)

	got, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.Description, got.Description)
	assert.Equal(t, in.Category, got.Category)
	assert.Equal(t, in.Price, got.Price)
	assert.Equal(t, in.Quantity, got.Quantity)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestCreate_ConstraintViolation(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.Create(context.Background(), models.CreateResourceInput{
		Name: "Bad", Description: "Negative", Category: "Misc", Price: -5, Quantity: 1,
	})
	require.Error(t, err)
	kind, ok := database.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, database.KindConstraintViolation, kind)
}

func TestFindByID_Absent(t *testing.T) {
	repo := setupRepo(t)
	got, err := repo.FindByID(context.Background(), 99999)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindAll_Filters(t *testing.T) {
	repo := setupRepo(t)
	ids := seed(t, repo,
		models.CreateResourceInput{Name: "Laptop", Description: "d", Category: "Electronics", Price: 999.99, Quantity: 5},
		models.CreateResourceInput{Name: "Mouse", Description: "d", Category: "Electronics", Price: 25, Quantity: 50},
		models.CreateResourceInput{Name: "Monitor", Description: "d", Category: "Electronics", Price: 150, Quantity: 10},
		models.CreateResourceInput{Name: "Desk", Description: "d", Category: "Furniture", Price: 300, Quantity: 2},
		models.CreateResourceInput{Name: "laptop sleeve", Description: "d", Category: "Accessories", Price: 20, Quantity: 9},
	)
	ctx := context.Background()

	t.Run("no filter newest first", func(t *testing.T) {
		got, err := repo.FindAll(ctx, models.ResourceFilter{})
		require.NoError(t, err)
		require.Len(t, got, 5)
		for i, r := range got {
			assert.Equal(t, ids[len(ids)-1-i], r.ID)
		}
	})

	t.Run("category and price range", func(t *testing.T) {
		got, err := repo.FindAll(ctx, models.ResourceFilter{
			Category: strPtr("Electronics"), MinPrice: floatPtr(100), MaxPrice: floatPtr(1000),
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Monitor", got[0].Name)
		assert.Equal(t, "Laptop", got[1].Name)
	})

	t.Run("price bounds inclusive", func(t *testing.T) {
		got, err := repo.FindAll(ctx, models.ResourceFilter{MinPrice: floatPtr(25), MaxPrice: floatPtr(300)})
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, r := range got {
			assert.GreaterOrEqual(t, r.Price, 25.0)
			assert.LessOrEqual(t, r.Price, 300.0)
		}
	})

	t.Run("name substring is case sensitive", func(t *testing.T) {
		got, err := repo.FindAll(ctx, models.ResourceFilter{Name: strPtr("apt")})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = repo.FindAll(ctx, models.ResourceFilter{Name: strPtr("Lap")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Laptop", got[0].Name)
	})

	t.Run("limit and offset", func(t *testing.T) {
		got, err := repo.FindAll(ctx, models.ResourceFilter{Limit: intPtr(2), Offset: intPtr(1)})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, ids[3], got[0].ID)
		assert.Equal(t, ids[2], got[1].ID)
	})

	t.Run("offset without limit", func(t *testing.T) {
		got, err := repo.FindAll(ctx, models.ResourceFilter{Offset: intPtr(3)})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("explicit zero limit", func(t *testing.T) {
		got, err := repo.FindAll(ctx, models.ResourceFilter{Limit: intPtr(0)})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	ids := seed(t, repo, models.CreateResourceInput{Name: "Laptop", Description: "d", Category: "Electronics", Price: 10, Quantity: 1})

	before, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)

	ok, err := repo.Update(ctx, ids[0], models.UpdateResourceInput{Price: floatPtr(12.5), Quantity: int64Ptr(3)})
	require.NoError(t, err)
	assert.True(t, ok)

	after, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Laptop", after.Name)
	assert.Equal(t, 12.5, after.Price)
	assert.Equal(t, int64(3), after.Quantity)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "updated_at %s should be after %s", after.UpdatedAt, before.UpdatedAt)
}

func TestUpdate_UpdatedAtIncreasesBackToBack(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	id, err := repo.Create(ctx, models.CreateResourceInput{Name: "Laptop", Description: "d", Category: "Electronics", Price: 10, Quantity: 0})
	require.NoError(t, err)

	prev, err := repo.FindByID(ctx, id)
	require.NoError(t, err)

	stalled := 0
	for i := 1; i <= 200; i++ {
		ok, err := repo.Update(ctx, id, models.UpdateResourceInput{Quantity: int64Ptr(int64(i))})
		require.NoError(t, err)
		require.True(t, ok)

		cur, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		if !cur.UpdatedAt.After(prev.UpdatedAt) {
			stalled++
		}
		prev = cur
	}
	assert.Zero(t, stalled, "updated_at did not increase in %d of 200 updates", stalled)
	assert.Equal(t, int64(200), prev.Quantity)
}

func TestUpdate_NoFieldsLeavesRowUntouched(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	ids := seed(t, repo, models.CreateResourceInput{Name: "Laptop", Description: "d", Category: "Electronics", Price: 10, Quantity: 1})

	before, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)

	ok, err := repo.Update(ctx, ids[0], models.UpdateResourceInput{})
	require.NoError(t, err)
	assert.False(t, ok)

	after, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_UnknownID(t *testing.T) {
	repo := setupRepo(t)
	ok, err := repo.Update(context.Background(), 99999, models.UpdateResourceInput{Name: strPtr("x")})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	ids := seed(t, repo, models.CreateResourceInput{Name: "Laptop", Description: "d", Category: "Electronics", Price: 10, Quantity: 1})

	ok, err := repo.Delete(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Nil(t, got)

	// Delete does not verify prior existence.
	ok, err = repo.Delete(ctx, ids[0])
	require.NoError(t, err)
	assert.True(t, ok)
}
