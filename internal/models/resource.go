package models

import "time"

// Resource represents a stock item managed by the service.
type Resource struct {
	ID          int64     `json:"id" gorm:"column:id;primaryKey"`
	Name        string    `json:"name" gorm:"column:name"`
	Description string    `json:"description" gorm:"column:description"`
	Category    string    `json:"category" gorm:"column:category"`
	Price       float64   `json:"price" gorm:"column:price"`
	Quantity    int64     `json:"quantity" gorm:"column:quantity"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// CreateResourceInput carries the client supplied fields of a new resource.
// ID and timestamps are always assigned by the store.
type CreateResourceInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Quantity    int64
}

// UpdateResourceInput is a partial update. A nil field is left untouched.
type UpdateResourceInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Quantity    *int64
}

// IsEmpty reports whether no field was supplied.
func (in UpdateResourceInput) IsEmpty() bool {
	return in.Name == nil && in.Description == nil && in.Category == nil &&
		in.Price == nil && in.Quantity == nil
}

// ResourceFilter narrows a listing. Nil fields are not applied.
type ResourceFilter struct {
	Name     *string  `json:"name,omitempty"`     // case-sensitive substring
	Category *string  `json:"category,omitempty"` // exact match
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Limit    *int     `json:"limit,omitempty"`
	Offset   *int     `json:"offset,omitempty"`
}
