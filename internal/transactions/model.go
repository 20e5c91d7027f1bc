package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
)

type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeCredit PaymentType = "credit"
)

// Transaction is a finalized point-of-sale invoice.
type Transaction struct {
	ID           int64             `json:"id" db:"id"`
	DocNumber    string            `json:"doc_number" db:"doc_number"`
	CustomerID   *int64            `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName string            `json:"customer_name" db:"customer_name"`
	Currency     Currency          `json:"currency" db:"currency"`
	PaymentType  PaymentType       `json:"payment_type" db:"payment_type"`
	Subtotal     decimal.Decimal   `json:"subtotal" db:"subtotal"`
	Discount     decimal.Decimal   `json:"discount" db:"discount"`
	Tax          decimal.Decimal   `json:"tax" db:"tax"`
	Total        decimal.Decimal   `json:"total" db:"total"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	Items        []TransactionItem `json:"items,omitempty" db:"-"`
}

// TransactionItem is one sold product line with the price captured at sale time.
type TransactionItem struct {
	ID            int64           `json:"id" db:"id"`
	TransactionID int64           `json:"transaction_id" db:"transaction_id"`
	ProductID     int64           `json:"product_id" db:"product_id"`
	ProductName   string          `json:"product_name" db:"product_name"`
	Quantity      int             `json:"quantity" db:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal     decimal.Decimal `json:"line_total" db:"line_total"`
	LineOrder     int             `json:"line_order" db:"line_order"`
}

type ListTransactionsRequest struct {
	CustomerID *int64     `json:"customer_id,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	Limit      int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int        `json:"offset" validate:"gte=0"`
}
