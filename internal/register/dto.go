package register

import "github.com/shopspring/decimal"

type OpenDraftRequest struct {
	Currency    string `json:"currency" validate:"omitempty,oneof=TRY USD"`
	PaymentType string `json:"payment_type" validate:"omitempty,oneof=cash credit"`
}

type SetCustomerRequest struct {
	CustomerID   *int64  `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	CustomerName *string `json:"customer_name,omitempty" validate:"omitempty,max=200"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type ScanRequest struct {
	Barcode string `json:"barcode" validate:"required,max=64"`
}

type SetDiscountRequest struct {
	Discount decimal.Decimal `json:"discount"`
}

type SetCurrencyRequest struct {
	Currency string `json:"currency" validate:"required,oneof=TRY USD"`
}

type SetPaymentTypeRequest struct {
	PaymentType string `json:"payment_type" validate:"required,oneof=cash credit"`
}

// ScanResponse reports a barcode lookup outcome. A miss is a soft notice and
// never mutates the draft.
type ScanResponse struct {
	Found   bool       `json:"found"`
	Message string     `json:"message,omitempty"`
	Draft   *DraftView `json:"draft"`
}
