package register

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-pos/atlas-pos/internal/transactions"
)

func TestNewDraftViewComputesTotals(t *testing.T) {
	draft := NewDraft(transactions.CurrencyTRY, transactions.PaymentTypeCash)
	draft.AddItem(1, "Coffee", decimal.NewFromInt(10))
	draft.AddItem(2, "Tea", decimal.NewFromInt(5))
	draft.Discount = decimal.NewFromInt(3)

	view := NewDraftView(draft)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(15)))
	assert.True(t, view.Total.Equal(decimal.NewFromInt(12)))
	assert.NotEmpty(t, view.TotalDisplay)
}

func TestFormatAmountFallback(t *testing.T) {
	out := FormatAmount(transactions.Currency("ZZ"), decimal.RequireFromString("12.345"))
	require.Equal(t, "12.35", out, "unknown currencies fall back to a plain fixed-point amount")
}
