package register

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atlas-pos/atlas-pos/internal/transactions"
)

// FallbackCustomerName is used when a draft has neither a selected customer
// nor a typed name at submission time.
const FallbackCustomerName = "unspecified customer"

// LineItem is one product entry on the invoice-in-progress. The unit price is
// captured when the product is first added and never re-read from the catalog.
type LineItem struct {
	ID          string          `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Draft is the in-progress, not-yet-submitted invoice state of one register.
type Draft struct {
	ID           string                   `json:"id"`
	CustomerID   *int64                   `json:"customer_id,omitempty"`
	CustomerName string                   `json:"customer_name,omitempty"`
	Currency     transactions.Currency    `json:"currency"`
	PaymentType  transactions.PaymentType `json:"payment_type"`
	Discount     decimal.Decimal          `json:"discount"`
	Items        []LineItem               `json:"items"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// NewDraft creates an empty draft with defaults.
func NewDraft(currency transactions.Currency, paymentType transactions.PaymentType) *Draft {
	now := time.Now()
	if currency == "" {
		currency = transactions.CurrencyTRY
	}
	if paymentType == "" {
		paymentType = transactions.PaymentTypeCash
	}
	return &Draft{
		ID:          uuid.NewString(),
		Currency:    currency,
		PaymentType: paymentType,
		Discount:    decimal.Zero,
		Items:       []LineItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddItem appends a product as a line item, or increments the quantity of an
// existing line for the same product. The given price is captured for the
// lifetime of the line.
func (d *Draft) AddItem(productID int64, productName string, unitPrice decimal.Decimal) *LineItem {
	for i := range d.Items {
		if d.Items[i].ProductID == productID {
			d.Items[i].Quantity++
			d.Items[i].LineTotal = unitQty(d.Items[i].Quantity).Mul(d.Items[i].UnitPrice)
			return &d.Items[i]
		}
	}
	item := LineItem{
		ID:          uuid.NewString(),
		ProductID:   productID,
		ProductName: productName,
		Quantity:    1,
		UnitPrice:   unitPrice,
		LineTotal:   unitPrice,
	}
	d.Items = append(d.Items, item)
	return &d.Items[len(d.Items)-1]
}

// RemoveItem deletes the line with the given id. Removal is all-or-nothing;
// there is no quantity decrement.
func (d *Draft) RemoveItem(lineID string) bool {
	for i := range d.Items {
		if d.Items[i].ID == lineID {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Subtotal sums the current line totals.
func (d *Draft) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range d.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	return subtotal
}

// Total is subtotal minus discount. Negative totals are representable.
func (d *Draft) Total() decimal.Decimal {
	return d.Subtotal().Sub(d.Discount)
}

// ResolvedCustomerName returns the typed name or the fallback when no
// customer information is present.
func (d *Draft) ResolvedCustomerName() string {
	if d.CustomerName != "" {
		return d.CustomerName
	}
	return FallbackCustomerName
}

func unitQty(qty int) decimal.Decimal {
	return decimal.NewFromInt(int64(qty))
}
