package domain

import "time"

// Product represents a product in the catalog
type Product struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     int64     `json:"price" db:"price"`
	Category  string    `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProductAttributes is a partial set of mutable product fields.
// A nil field means "leave unchanged".
type ProductAttributes struct {
	Name     *string
	Price    *int64
	Category *string
}

// Apply overwrites the fields of p that are set in attrs
func (attrs ProductAttributes) Apply(p *Product) {
	if attrs.Name != nil {
		p.Name = *attrs.Name
	}
	if attrs.Price != nil {
		p.Price = *attrs.Price
	}
	if attrs.Category != nil {
		p.Category = *attrs.Category
	}
}
