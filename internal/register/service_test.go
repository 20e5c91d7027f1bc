package register

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-pos/atlas-pos/internal/catalog"
	"github.com/atlas-pos/atlas-pos/internal/customers"
	"github.com/atlas-pos/atlas-pos/internal/transactions"
)

type mockProducts struct {
	byID      map[int64]catalog.Product
	byBarcode map[string]catalog.Product
}

func (m *mockProducts) Get(ctx context.Context, id int64) (catalog.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (m *mockProducts) LookupBarcode(ctx context.Context, barcode string) (catalog.Product, error) {
	p, ok := m.byBarcode[barcode]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

type mockCustomers struct {
	byID map[int64]*customers.Customer
}

func (m *mockCustomers) Get(ctx context.Context, id int64) (*customers.Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, customers.ErrNotFound
	}
	return c, nil
}

type mockTxns struct {
	createCalls int
	createErr   error
	lastCreated transactions.Transaction
}

func (m *mockTxns) Create(ctx context.Context, txn transactions.Transaction) (*transactions.Transaction, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.lastCreated = txn
	created := txn
	created.ID = int64(m.createCalls)
	created.DocNumber = "TXN-TEST-0001"
	created.CreatedAt = time.Now()
	return &created, nil
}

type mockCache struct {
	bumps int
}

func (m *mockCache) Bump(ctx context.Context) error {
	m.bumps++
	return nil
}

type mockEnqueuer struct {
	enqueued int
}

func (m *mockEnqueuer) EnqueueDashboardRefresh(ctx context.Context, day time.Time) error {
	m.enqueued++
	return nil
}

type fixture struct {
	svc      *Service
	store    *DraftStore
	products *mockProducts
	txns     *mockTxns
	cache    *mockCache
	enqueuer *mockEnqueuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewDraftStore(client, time.Hour, 30*time.Second)
	products := &mockProducts{
		byID: map[int64]catalog.Product{
			1: {ID: 1, Name: "Coffee", Barcode: "123", Price: decimal.NewFromInt(10)},
			2: {ID: 2, Name: "Tea", Barcode: "456", Price: decimal.NewFromInt(5)},
		},
		byBarcode: map[string]catalog.Product{},
	}
	for _, p := range products.byID {
		products.byBarcode[p.Barcode] = p
	}
	custs := &mockCustomers{byID: map[int64]*customers.Customer{
		7: {ID: 7, Code: "CUST-0007", Name: "Acme Market", IsActive: true},
	}}
	txns := &mockTxns{}
	cache := &mockCache{}
	enqueuer := &mockEnqueuer{}

	logger := slog.Default()
	svc := NewService(logger, store, products, custs, txns, cache, enqueuer)
	return &fixture{svc: svc, store: store, products: products, txns: txns, cache: cache, enqueuer: enqueuer}
}

func TestOpenAndGetDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{Currency: "USD", PaymentType: "credit"})
	require.NoError(t, err)

	loaded, err := f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, transactions.CurrencyUSD, loaded.Currency)
	assert.Equal(t, transactions.PaymentTypeCredit, loaded.PaymentType)
	assert.Empty(t, loaded.Items)
}

func TestGetUnknownDraft(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrDraftNotFound)
}

func TestScanAddsProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)

	updated, found, err := f.svc.Scan(ctx, draft.ID, "123")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, int64(1), updated.Items[0].ProductID)
	assert.Equal(t, 1, updated.Items[0].Quantity)
	assert.True(t, updated.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
}

func TestScanUnknownBarcode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)
	_, err = f.svc.AddProduct(ctx, draft.ID, 2)
	require.NoError(t, err)

	updated, found, err := f.svc.Scan(ctx, draft.ID, "000")
	require.NoError(t, err)
	assert.False(t, found)
	require.Len(t, updated.Items, 1, "a failed lookup must not mutate items")

	persisted, err := f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, persisted.Items, 1)
}

func TestScanSameProductIncrements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)

	_, _, err = f.svc.Scan(ctx, draft.ID, "123")
	require.NoError(t, err)
	updated, _, err := f.svc.Scan(ctx, draft.ID, "123")
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, 2, updated.Items[0].Quantity)
	assert.True(t, updated.Items[0].LineTotal.Equal(decimal.NewFromInt(20)))
}

func TestScanBlankBarcode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)

	_, _, err = f.svc.Scan(ctx, draft.ID, "   ")
	require.ErrorIs(t, err, ErrBarcodeRequired)

	persisted, err := f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Empty(t, persisted.Items)
}

func TestSetCustomerResolvesName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)

	id := int64(7)
	updated, err := f.svc.SetCustomer(ctx, draft.ID, SetCustomerRequest{CustomerID: &id})
	require.NoError(t, err)
	assert.Equal(t, "Acme Market", updated.CustomerName)
	require.NotNil(t, updated.CustomerID)
	assert.Equal(t, int64(7), *updated.CustomerID)

	unknown := int64(99)
	_, err = f.svc.SetCustomer(ctx, draft.ID, SetCustomerRequest{CustomerID: &unknown})
	require.ErrorIs(t, err, customers.ErrNotFound)
}

func TestRemoveOnlyItemBlocksSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)
	updated, err := f.svc.AddProduct(ctx, draft.ID, 1)
	require.NoError(t, err)

	updated, err = f.svc.RemoveItem(ctx, draft.ID, updated.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Items)

	_, err = f.svc.Submit(ctx, draft.ID)
	require.ErrorIs(t, err, ErrEmptyDraft)
	assert.Zero(t, f.txns.createCalls, "an empty draft must never reach the transaction store")
}

func TestSubmitEmptyDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, draft.ID)
	require.ErrorIs(t, err, ErrEmptyDraft)
	assert.Zero(t, f.txns.createCalls)
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)
	_, err = f.svc.AddProduct(ctx, draft.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.AddProduct(ctx, draft.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.AddProduct(ctx, draft.ID, 2)
	require.NoError(t, err)
	_, err = f.svc.SetDiscount(ctx, draft.ID, decimal.NewFromInt(3))
	require.NoError(t, err)

	txn, err := f.svc.Submit(ctx, draft.ID)
	require.NoError(t, err)

	assert.True(t, txn.Subtotal.Equal(decimal.NewFromInt(25)), "subtotal = %s", txn.Subtotal)
	assert.True(t, txn.Total.Equal(decimal.NewFromInt(22)), "total = %s", txn.Total)
	assert.True(t, txn.Tax.IsZero(), "tax is fixed to zero")
	assert.Equal(t, FallbackCustomerName, txn.CustomerName)
	require.Len(t, f.txns.lastCreated.Items, 2)
	assert.Equal(t, 2, f.txns.lastCreated.Items[0].Quantity)

	// Draft is discarded and dependent views invalidated.
	_, err = f.svc.Get(ctx, draft.ID)
	require.ErrorIs(t, err, ErrDraftNotFound)
	assert.Equal(t, 1, f.cache.bumps)
	assert.Equal(t, 1, f.enqueuer.enqueued)
}

func TestSubmitFailureRetainsDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)
	_, err = f.svc.AddProduct(ctx, draft.ID, 1)
	require.NoError(t, err)

	f.txns.createErr = errors.New("backend unavailable")
	_, err = f.svc.Submit(ctx, draft.ID)
	require.Error(t, err)

	// Draft survives for resubmission, no invalidation happened.
	persisted, err := f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, persisted.Items, 1)
	assert.Zero(t, f.cache.bumps)
	assert.Zero(t, f.enqueuer.enqueued)

	// A retry after the backend recovers succeeds.
	f.txns.createErr = nil
	_, err = f.svc.Submit(ctx, draft.ID)
	require.NoError(t, err)
}

func TestSubmitLockPreventsOverlap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)
	_, err = f.svc.AddProduct(ctx, draft.ID, 1)
	require.NoError(t, err)

	acquired, err := f.store.AcquireSubmitLock(ctx, draft.ID)
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = f.svc.Submit(ctx, draft.ID)
	require.ErrorIs(t, err, ErrSubmitInProgress)
	assert.Zero(t, f.txns.createCalls)
}

func TestCancelDiscardsDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, draft.ID))
	_, err = f.svc.Get(ctx, draft.ID)
	require.ErrorIs(t, err, ErrDraftNotFound)

	require.ErrorIs(t, f.svc.Cancel(ctx, draft.ID), ErrDraftNotFound)
}

func TestSetDiscountRejectsNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.svc.Open(ctx, OpenDraftRequest{})
	require.NoError(t, err)

	_, err = f.svc.SetDiscount(ctx, draft.ID, decimal.NewFromInt(-1))
	require.Error(t, err)
}
