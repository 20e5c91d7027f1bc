package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a transaction header and its items atomically.
func (s *Service) Create(ctx context.Context, txn Transaction) (*Transaction, error) {
	if len(txn.Items) == 0 {
		return nil, errors.New("transaction requires at least one item")
	}

	var txnID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		docNumber, err := repo.GenerateNumber(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("generate doc number: %w", err)
		}
		txn.DocNumber = docNumber

		id, err := repo.Insert(ctx, txn)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		txnID = id

		for i, item := range txn.Items {
			item.TransactionID = txnID
			if item.LineOrder == 0 {
				item.LineOrder = i + 1
			}
			if _, err := repo.InsertItem(ctx, item); err != nil {
				return fmt.Errorf("insert transaction item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, txnID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, int, error) {
	return s.repo.List(ctx, req)
}
