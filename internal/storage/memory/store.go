// Package memory provides a mutex-guarded in-memory implementation of the
// storage interfaces. It backs unit tests and local development runs where
// no Postgres is available, and mirrors the semantics of the Postgres
// store, including its error sentinels and the all-or-nothing movement
// guarantee.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bancofiuba/backend/internal/models"
	"github.com/bancofiuba/backend/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps all state behind one mutex; every operation is serialized,
// so a movement's writes are atomic by construction.
type Store struct {
	mu sync.Mutex

	nextUserID    int64
	nextAccountID int64
	nextTxID      int64

	users        map[int64]models.User
	accounts     map[int64]models.Account
	transactions []models.Transaction
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:    make(map[int64]models.User),
		accounts: make(map[int64]models.Account),
	}
}

// CreateUser inserts a user, enforcing email uniqueness.
func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
		if user.DNI != nil && u.DNI != nil && *u.DNI == *user.DNI {
			return models.User{}, storage.ErrAlreadyExists
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

// FindUserByEmail fetches a user by email address.
func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// FindUserByDNI fetches a user by national id.
func (s *Store) FindUserByDNI(_ context.Context, dni string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.DNI != nil && *u.DNI == dni {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

// UpdateUserContact sets the address and phone of an existing user.
func (s *Store) UpdateUserContact(_ context.Context, id int64, address, phone string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	u.Address = &address
	u.Phone = &phone
	s.users[id] = u
	return u, nil
}

// DeleteUser removes a user unless accounts still reference it.
func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	for _, a := range s.accounts {
		if a.UserID == id {
			return storage.ErrConflict
		}
	}
	delete(s.users, id)
	return nil
}

// CreateAccount opens an account at balance zero for an existing user.
func (s *Store) CreateAccount(_ context.Context, account models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[account.UserID]; !ok {
		return models.Account{}, storage.ErrNotFound
	}
	for _, a := range s.accounts {
		if a.Number == account.Number {
			return models.Account{}, storage.ErrAlreadyExists
		}
	}

	s.nextAccountID++
	account.ID = s.nextAccountID
	account.Balance = decimal.Zero
	account.OpenedAt = time.Now()
	s.accounts[account.ID] = account
	return account, nil
}

// ListAccounts returns every account, oldest first.
func (s *Store) ListAccounts(_ context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AccountsByUser returns the accounts owned by a user.
func (s *Store) AccountsByUser(_ context.Context, userID int64) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Account
	for _, a := range s.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteAccount closes an account with a zero balance and no history.
func (s *Store) DeleteAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return storage.ErrNotFound
	}
	if !a.Balance.IsZero() {
		return storage.ErrAccountNotEmpty
	}
	for _, t := range s.transactions {
		if (t.SourceID != nil && *t.SourceID == id) || (t.DestinationID != nil && *t.DestinationID == id) {
			return storage.ErrConflict
		}
	}
	delete(s.accounts, id)
	return nil
}

// Record appends a ledger entry and applies its balance changes. All
// checks run before any state is touched, so a rejected movement leaves
// nothing behind.
func (s *Store) Record(_ context.Context, t models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var src models.Account
	if t.SourceID != nil {
		a, ok := s.accounts[*t.SourceID]
		if !ok {
			return models.Transaction{}, storage.ErrNotFound
		}
		if a.Balance.LessThan(t.Amount) {
			return models.Transaction{}, storage.ErrInsufficientFunds
		}
		src = a
	}
	var dst models.Account
	if t.DestinationID != nil {
		a, ok := s.accounts[*t.DestinationID]
		if !ok {
			return models.Transaction{}, storage.ErrNotFound
		}
		dst = a
	}

	s.nextTxID++
	t.ID = s.nextTxID
	t.Timestamp = time.Now()
	s.transactions = append(s.transactions, t)

	if t.SourceID != nil {
		src.Balance = src.Balance.Sub(t.Amount)
		s.accounts[src.ID] = src
	}
	if t.DestinationID != nil {
		// Re-read: source and destination may be the same account.
		dst = s.accounts[dst.ID]
		dst.Balance = dst.Balance.Add(t.Amount)
		s.accounts[dst.ID] = dst
	}
	return t, nil
}

// TransactionsByAccount returns the history touching an account, newest
// first, with account numbers resolved on both sides.
func (s *Store) TransactionsByAccount(_ context.Context, accountID int64) ([]models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Movement
	for _, t := range s.transactions {
		touches := (t.SourceID != nil && *t.SourceID == accountID) ||
			(t.DestinationID != nil && *t.DestinationID == accountID)
		if !touches {
			continue
		}
		out = append(out, models.Movement{
			ID:                t.ID,
			Reference:         t.Reference,
			Amount:            t.Amount,
			Kind:              t.Kind,
			Timestamp:         t.Timestamp,
			SourceNumber:      s.numberOf(t.SourceID),
			DestinationNumber: s.numberOf(t.DestinationID),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) numberOf(accountID *int64) string {
	if accountID == nil {
		return "N/A"
	}
	a, ok := s.accounts[*accountID]
	if !ok {
		return "N/A"
	}
	return a.Number
}
