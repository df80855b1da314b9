// internal/models/property.go
package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Property is the persisted listing record, keyed by MLS number. The
// property type lives in its own reference table and is carried as a
// foreign key, not denormalized here.
type Property struct {
	PropertyID    int64               `json:"propertyId"`
	MLSNumber     string              `json:"mlsNumber"`
	Address       sql.NullString      `json:"address"`
	City          sql.NullString      `json:"city"`
	State         sql.NullString      `json:"state"`
	ZipCode       sql.NullString      `json:"zipCode"`
	ListPrice     decimal.NullDecimal `json:"listPrice"`
	SquareFootage sql.NullInt64       `json:"squareFootage"`
	Bedrooms      sql.NullInt64       `json:"bedrooms"`
	Bathrooms     sql.NullFloat64     `json:"bathrooms"`
	CurrentStatus string              `json:"currentStatus"`
	DateListed    sql.NullTime        `json:"dateListed"`
}

// PropertyDoc is the search-index projection of a loaded property.
type PropertyDoc struct {
	MLSNumber     string  `json:"mlsNumber"`
	PropertyType  string  `json:"propertyType"`
	Address       string  `json:"address,omitempty"`
	City          string  `json:"city,omitempty"`
	State         string  `json:"state,omitempty"`
	ZipCode       string  `json:"zipCode,omitempty"`
	ListPrice     float64 `json:"listPrice,omitempty"`
	Bedrooms      int64   `json:"bedrooms,omitempty"`
	Bathrooms     float64 `json:"bathrooms,omitempty"`
	CurrentStatus string  `json:"currentStatus"`
	LoadedAt      string  `json:"loadedAt"`
}
