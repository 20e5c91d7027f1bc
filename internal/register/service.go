package register

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlas-pos/atlas-pos/internal/catalog"
	"github.com/atlas-pos/atlas-pos/internal/customers"
	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
	"github.com/atlas-pos/atlas-pos/internal/transactions"
)

// ProductLookup resolves catalog products for picks and scans.
type ProductLookup interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
	LookupBarcode(ctx context.Context, barcode string) (catalog.Product, error)
}

// CustomerLookup resolves selected customers to their display name.
type CustomerLookup interface {
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// TransactionCreator persists the finalized invoice.
type TransactionCreator interface {
	Create(ctx context.Context, txn transactions.Transaction) (*transactions.Transaction, error)
}

// CacheInvalidator signals dependent views that transaction data changed.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// TaskEnqueuer schedules background follow-up work after submission.
type TaskEnqueuer interface {
	EnqueueDashboardRefresh(ctx context.Context, day time.Time) error
}

type Service struct {
	logger    *slog.Logger
	store     *DraftStore
	products  ProductLookup
	customers CustomerLookup
	txns      TransactionCreator
	cache     CacheInvalidator
	enqueuer  TaskEnqueuer
}

func NewService(
	logger *slog.Logger,
	store *DraftStore,
	products ProductLookup,
	customers CustomerLookup,
	txns TransactionCreator,
	cache CacheInvalidator,
	enqueuer TaskEnqueuer,
) *Service {
	return &Service{
		logger:    logger,
		store:     store,
		products:  products,
		customers: customers,
		txns:      txns,
		cache:     cache,
		enqueuer:  enqueuer,
	}
}

// Open creates a new empty draft.
func (s *Service) Open(ctx context.Context, req OpenDraftRequest) (*Draft, error) {
	draft := NewDraft(transactions.Currency(req.Currency), transactions.PaymentType(req.PaymentType))
	if err := s.store.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Get loads the draft by id.
func (s *Service) Get(ctx context.Context, id string) (*Draft, error) {
	return s.store.Get(ctx, id)
}

// SetCustomer assigns either a catalog customer or a free-typed name. Picking
// a customer resolves its name immediately so the draft stays self-contained.
func (s *Service) SetCustomer(ctx context.Context, id string, req SetCustomerRequest) (*Draft, error) {
	draft, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case req.CustomerID != nil:
		customer, err := s.customers.Get(ctx, *req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("verify customer: %w", err)
		}
		draft.CustomerID = &customer.ID
		draft.CustomerName = customer.Name
	case req.CustomerName != nil:
		draft.CustomerID = nil
		draft.CustomerName = strings.TrimSpace(*req.CustomerName)
	default:
		draft.CustomerID = nil
		draft.CustomerName = ""
	}

	draft.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddProduct adds a picked product to the draft, incrementing the quantity
// when the product is already on it. The listed price is captured at add time.
func (s *Service) AddProduct(ctx context.Context, id string, productID int64) (*Draft, error) {
	draft, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	draft.AddItem(product.ID, product.Name, product.Price)
	draft.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Scan resolves a barcode and adds the product when found. A miss leaves the
// draft untouched and reports found=false rather than failing.
func (s *Service) Scan(ctx context.Context, id string, barcode string) (*Draft, bool, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, false, ErrBarcodeRequired
	}

	draft, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	product, err := s.products.LookupBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return draft, false, nil
		}
		return nil, false, fmt.Errorf("barcode lookup: %w", err)
	}

	draft.AddItem(product.ID, product.Name, product.Price)
	draft.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, draft); err != nil {
		return nil, false, err
	}
	return draft, true, nil
}

// RemoveItem deletes a whole line by id.
func (s *Service) RemoveItem(ctx context.Context, id string, lineID string) (*Draft, error) {
	draft, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !draft.RemoveItem(lineID) {
		return nil, ErrLineNotFound
	}

	draft.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetDiscount updates the draft-level discount amount.
func (s *Service) SetDiscount(ctx context.Context, id string, discount decimal.Decimal) (*Draft, error) {
	if discount.IsNegative() {
		return nil, fmt.Errorf("%w: discount must not be negative", httpx.ErrValidation)
	}

	draft, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	draft.Discount = discount
	draft.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetCurrency switches the presentation currency.
func (s *Service) SetCurrency(ctx context.Context, id string, cur transactions.Currency) (*Draft, error) {
	draft, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	draft.Currency = cur
	draft.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SetPaymentType switches the payment type.
func (s *Service) SetPaymentType(ctx context.Context, id string, pt transactions.PaymentType) (*Draft, error) {
	draft, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	draft.PaymentType = pt
	draft.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Submit finalizes the draft into a transaction. An empty draft is the only
// business-rule rejection. On success the draft is discarded and dependent
// views are invalidated; on failure the draft is retained for resubmission.
func (s *Service) Submit(ctx context.Context, id string) (*transactions.Transaction, error) {
	draft, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(draft.Items) == 0 {
		return nil, ErrEmptyDraft
	}

	acquired, err := s.store.AcquireSubmitLock(ctx, id)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSubmitInProgress
	}
	defer func() {
		if err := s.store.ReleaseSubmitLock(ctx, id); err != nil {
			s.logger.Warn("release submit lock", "error", err, "draft_id", id)
		}
	}()

	txn := transactions.Transaction{
		CustomerID:   draft.CustomerID,
		CustomerName: draft.ResolvedCustomerName(),
		Currency:     draft.Currency,
		PaymentType:  draft.PaymentType,
		Subtotal:     draft.Subtotal(),
		Discount:     draft.Discount,
		Tax:          decimal.Zero,
		Total:        draft.Total(),
	}
	for i, item := range draft.Items {
		txn.Items = append(txn.Items, transactions.TransactionItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
			LineOrder:   i + 1,
		})
	}

	created, err := s.txns.Create(ctx, txn)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Warn("discard submitted draft", "error", err, "draft_id", id)
	}
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("bump dashboard cache", "error", err)
		}
	}
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueDashboardRefresh(ctx, created.CreatedAt); err != nil {
			s.logger.Warn("enqueue dashboard refresh", "error", err)
		}
	}

	return created, nil
}

// Cancel discards the draft without submitting.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
