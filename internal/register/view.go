package register

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/atlas-pos/atlas-pos/internal/transactions"
)

// DraftView is the API shape of a draft with derived totals attached.
// Totals are recomputed from the items and discount on every render.
type DraftView struct {
	*Draft
	Subtotal        decimal.Decimal `json:"subtotal"`
	Total           decimal.Decimal `json:"total"`
	SubtotalDisplay string          `json:"subtotal_display"`
	TotalDisplay    string          `json:"total_display"`
}

// NewDraftView computes the derived values for the draft.
func NewDraftView(draft *Draft) *DraftView {
	subtotal := draft.Subtotal()
	total := draft.Total()
	return &DraftView{
		Draft:           draft,
		Subtotal:        subtotal,
		Total:           total,
		SubtotalDisplay: FormatAmount(draft.Currency, subtotal),
		TotalDisplay:    FormatAmount(draft.Currency, total),
	}
}

var displayPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with its currency symbol. The currency only
// affects presentation, never arithmetic.
func FormatAmount(cur transactions.Currency, amount decimal.Decimal) string {
	unit, err := currency.ParseISO(string(cur))
	if err != nil {
		return amount.StringFixed(2)
	}
	return displayPrinter.Sprintf("%v", currency.Symbol(unit.Amount(amount.InexactFloat64())))
}
