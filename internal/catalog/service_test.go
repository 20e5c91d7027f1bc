package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu          sync.Mutex
	byID        map[int64]Product
	byBarcode   map[string]Product
	nextID      int64
	lookupCalls int

	// Optional gates for concurrency tests: entered signals a lookup is in
	// flight, release holds it open until closed.
	entered chan struct{}
	release chan struct{}
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[int64]Product), byBarcode: make(map[string]Product)}
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	var out []Product
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) GetByBarcode(ctx context.Context, barcode string) (Product, error) {
	r.mu.Lock()
	r.lookupCalls++
	r.mu.Unlock()

	if r.entered != nil {
		select {
		case r.entered <- struct{}{}:
		default:
		}
	}
	if r.release != nil {
		<-r.release
	}

	p, ok := r.byBarcode[barcode]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, product Product) (Product, error) {
	r.nextID++
	product.ID = r.nextID
	r.byID[product.ID] = product
	r.byBarcode[product.Barcode] = product
	return product, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, product Product) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	product.ID = id
	r.byID[id] = product
	r.byBarcode[product.Barcode] = product
	return nil
}

func TestLookupBarcode(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, Product{Code: "SKU-1", Barcode: "123", Name: "Coffee", Price: decimal.NewFromInt(10), IsActive: true})
	require.NoError(t, err)

	found, err := svc.LookupBarcode(ctx, " 123 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID, "lookup trims whitespace from scanned codes")

	_, err = svc.LookupBarcode(ctx, "000")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.LookupBarcode(ctx, "")
	require.Error(t, err)
}

func TestLookupBarcodeCoalescesConcurrentScans(t *testing.T) {
	repo := newMemoryRepo()
	repo.entered = make(chan struct{}, 1)
	repo.release = make(chan struct{})
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, Product{Code: "SKU-1", Barcode: "123", Name: "Coffee", Price: decimal.NewFromInt(10), IsActive: true})
	require.NoError(t, err)
	repo.mu.Lock()
	repo.lookupCalls = 0
	repo.mu.Unlock()

	const scanners = 5
	errs := make(chan error, scanners)
	var wg sync.WaitGroup

	// First scan reaches the repository and blocks there; the rest fire while
	// it is in flight and must share its result.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.LookupBarcode(ctx, "123")
		errs <- err
	}()
	<-repo.entered

	for i := 1; i < scanners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.LookupBarcode(ctx, "123")
			errs <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(repo.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, 1, repo.lookupCalls, "identical in-flight scans must share one lookup")
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Product{Barcode: "1", Name: "Coffee"})
	require.Error(t, err, "missing code")

	_, err = svc.Create(ctx, Product{Code: "SKU-1", Name: "Coffee"})
	require.Error(t, err, "missing barcode")

	_, err = svc.Create(ctx, Product{Code: "SKU-1", Barcode: "1"})
	require.Error(t, err, "missing name")

	_, err = svc.Create(ctx, Product{Code: "SKU-1", Barcode: "1", Name: "Coffee", Price: decimal.NewFromInt(-1)})
	require.Error(t, err, "negative price")
}

func TestGetInvalidID(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Get(context.Background(), 0)
	require.Error(t, err)
}
