package repositories

import (
	"context"
	"fmt"
	"strings"

	"resourcesvc/internal/database"
	"resourcesvc/internal/models"
)

const resourceColumns = "id, name, description, category, price, quantity, created_at, updated_at"

// SQLResourceRepository builds parameterized SQL for resources and runs it
// through the persistence adapter.
type SQLResourceRepository struct {
	store *database.Store
}

// NewSQLResourceRepository creates a new instance of SQLResourceRepository.
func NewSQLResourceRepository(store *database.Store) *SQLResourceRepository {
	return &SQLResourceRepository{
		store: store,
	}
}

// Create inserts a resource and returns the identifier assigned by the store.
// The id comes back from the INSERT itself, so concurrent creates never
// observe each other's identifiers.
func (r *SQLResourceRepository) Create(ctx context.Context, in models.CreateResourceInput) (int64, error) {
	var id int64
	found, err := r.store.FetchOne(ctx, &id,
		"INSERT INTO resources (name, description, category, price, quantity) VALUES (?, ?, ?, ?, ?) RETURNING id",
		in.Name, in.Description, in.Category, in.Price, in.Quantity,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create resource: %w", err)
	}
	if !found {
		return 0, fmt.Errorf("failed to create resource: no id returned")
	}
	return id, nil
}

// FindAll lists resources matching filter, newest first.
func (r *SQLResourceRepository) FindAll(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Name != nil {
		if r.store.Dialect() == database.DialectPostgres {
			conds = append(conds, "strpos(name, ?) > 0")
		} else {
			conds = append(conds, "instr(name, ?) > 0")
		}
		args = append(args, *filter.Name)
	}
	if filter.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, *filter.Category)
	}
	if filter.MinPrice != nil {
		conds = append(conds, "price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + resourceColumns + " FROM resources")
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")

	switch {
	case filter.Limit != nil:
		sb.WriteString(" LIMIT ?")
		args = append(args, *filter.Limit)
	case filter.Offset != nil && r.store.Dialect() == database.DialectSQLite:
		// sqlite only accepts OFFSET after a LIMIT clause.
		sb.WriteString(" LIMIT -1")
	}
	if filter.Offset != nil {
		sb.WriteString(" OFFSET ?")
		args = append(args, *filter.Offset)
	}

	resources := []models.Resource{}
	if err := r.store.FetchMany(ctx, &resources, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

// FindByID returns the resource with id, or nil when it does not exist.
func (r *SQLResourceRepository) FindByID(ctx context.Context, id int64) (*models.Resource, error) {
	var resource models.Resource
	found, err := r.store.FetchOne(ctx, &resource,
		"SELECT "+resourceColumns+" FROM resources WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource by ID %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &resource, nil
}

// Update writes only the supplied fields. It reports false when nothing was
// supplied or no row has the given id. updated_at is refreshed by the
// database trigger.
func (r *SQLResourceRepository) Update(ctx context.Context, id int64, in models.UpdateResourceInput) (bool, error) {
	var (
		sets []string
		args []interface{}
	)
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *in.Description)
	}
	if in.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *in.Category)
	}
	if in.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *in.Price)
	}
	if in.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *in.Quantity)
	}
	if len(sets) == 0 {
		return false, nil
	}
	args = append(args, id)

	n, err := r.store.Exec(ctx, "UPDATE resources SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("failed to update resource %d: %w", id, err)
	}
	return n > 0, nil
}

// Delete removes the resource with id. It does not check that the row
// existed; callers look it up first.
func (r *SQLResourceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, err := r.store.Exec(ctx, "DELETE FROM resources WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("failed to delete resource %d: %w", id, err)
	}
	return true, nil
}
