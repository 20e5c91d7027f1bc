package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atlas-pos/atlas-pos/internal/platform/db"
	"github.com/atlas-pos/atlas-pos/internal/platform/httpx"
)

var (
	ErrNotFound  = fmt.Errorf("transaction %w", httpx.ErrNotFound)
	ErrDuplicate = fmt.Errorf("transaction %w", httpx.ErrDuplicate)
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Transaction, error)
	List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, int, error)
	Insert(ctx context.Context, txn Transaction) (int64, error)
	InsertItem(ctx context.Context, item TransactionItem) (int64, error)
	GenerateNumber(ctx context.Context, date time.Time) (string, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		repoTx := &repository{db: tx, pool: r.pool}
		return fn(ctx, repoTx)
	})
}

const txnColumns = `id, doc_number, customer_id, customer_name, currency, payment_type, subtotal, discount, tax, total, created_at`

func (r *repository) Get(ctx context.Context, id int64) (*Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE id = $1`
	var t Transaction
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.DocNumber, &t.CustomerID, &t.CustomerName, &t.Currency, &t.PaymentType,
		&t.Subtotal, &t.Discount, &t.Tax, &t.Total, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Items = items
	return &t, nil
}

func (r *repository) listItems(ctx context.Context, txnID int64) ([]TransactionItem, error) {
	query := `SELECT id, transaction_id, product_id, product_name, quantity, unit_price, line_total, line_order
		FROM transaction_items WHERE transaction_id = $1 ORDER BY line_order ASC`
	rows, err := r.db.Query(ctx, query, txnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TransactionItem
	for rows.Next() {
		var it TransactionItem
		if err := rows.Scan(&it.ID, &it.TransactionID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.LineTotal, &it.LineOrder); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + txnColumns + ` FROM transactions` + where + ` ORDER BY created_at DESC`
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, req.Limit, req.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.DocNumber, &t.CustomerID, &t.CustomerName, &t.Currency, &t.PaymentType, &t.Subtotal, &t.Discount, &t.Tax, &t.Total, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		txns = append(txns, t)
	}
	return txns, total, rows.Err()
}

func (r *repository) Insert(ctx context.Context, txn Transaction) (int64, error) {
	query := `INSERT INTO transactions (doc_number, customer_id, customer_name, currency, payment_type, subtotal, discount, tax, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		txn.DocNumber, txn.CustomerID, txn.CustomerName, txn.Currency, txn.PaymentType,
		txn.Subtotal, txn.Discount, txn.Tax, txn.Total, time.Now(),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) InsertItem(ctx context.Context, item TransactionItem) (int64, error) {
	query := `INSERT INTO transaction_items (transaction_id, product_id, product_name, quantity, unit_price, line_total, line_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		item.TransactionID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.LineTotal, item.LineOrder,
	).Scan(&id)
	return id, err
}

func (r *repository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	// TXN-{YY}{MM}{DD}-{SEQ}
	var count int64
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM transactions WHERE created_at::date = $1::date", date).Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("TXN-%s-%04d", date.Format("060102"), count+1), nil
}
