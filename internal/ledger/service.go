// Package ledger implements the money-movement write path: deposits,
// withdrawals and transfers. Each operation validates its amount, builds an
// immutable transaction record and hands it to the store, which applies the
// record and the balance changes it implies atomically.
package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bancofiuba/backend/internal/models"
	"github.com/bancofiuba/backend/internal/storage"
)

// Service validates movement requests and appends them to the ledger.
type Service struct {
	store storage.Ledger
}

// New creates a Service over the given ledger store.
func New(store storage.Ledger) *Service {
	return &Service{store: store}
}

// Deposit credits amount to the destination account and records it.
func (s *Service) Deposit(ctx context.Context, destinationID int64, amount decimal.Decimal) (models.Transaction, error) {
	amt, err := normalizeAmount(amount)
	if err != nil {
		return models.Transaction{}, err
	}
	return s.store.Record(ctx, models.Transaction{
		Reference:     uuid.New(),
		Amount:        amt,
		Kind:          models.KindDeposit,
		DestinationID: &destinationID,
	})
}

// Withdraw debits amount from the source account and records it. A debit
// past zero fails with storage.ErrInsufficientFunds and writes nothing.
func (s *Service) Withdraw(ctx context.Context, sourceID int64, amount decimal.Decimal) (models.Transaction, error) {
	amt, err := normalizeAmount(amount)
	if err != nil {
		return models.Transaction{}, err
	}
	return s.store.Record(ctx, models.Transaction{
		Reference: uuid.New(),
		Amount:    amt,
		Kind:      models.KindWithdrawal,
		SourceID:  &sourceID,
	})
}

// Transfer moves amount from the source to the destination account. The
// caller is responsible for rejecting same-account transfers; the service
// records whatever pair it is given. Replaying a transfer appends a second
// ledger entry and doubles the balance effect.
func (s *Service) Transfer(ctx context.Context, sourceID, destinationID int64, amount decimal.Decimal) (models.Transaction, error) {
	amt, err := normalizeAmount(amount)
	if err != nil {
		return models.Transaction{}, err
	}
	return s.store.Record(ctx, models.Transaction{
		Reference:     uuid.New(),
		Amount:        amt,
		Kind:          models.KindTransfer,
		SourceID:      &sourceID,
		DestinationID: &destinationID,
	})
}

// normalizeAmount rejects non-positive amounts and fixes the precision at
// two decimal places so NUMERIC(18,2) columns never round implicitly.
func normalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return amount.Round(2), nil
}
