package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a sellable catalog entry.
type Product struct {
	ID        int64           `json:"id"`
	Code      string          `json:"code"`
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
