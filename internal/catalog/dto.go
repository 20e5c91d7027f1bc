package catalog

import "github.com/shopspring/decimal"

// ListFilters represents product listing filters.
type ListFilters struct {
	Search   string
	IsActive *bool
	Page     int
	Limit    int
}

// ProductForm carries create/update payloads.
type ProductForm struct {
	Code     string          `json:"code" validate:"required,max=50"`
	Barcode  string          `json:"barcode" validate:"required,max=64"`
	Name     string          `json:"name" validate:"required,max=200"`
	Price    decimal.Decimal `json:"price"`
	IsActive bool            `json:"is_active"`
}
