package storage

import (
	"context"
	"errors"

	"github.com/bancofiuba/backend/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrConflict indicates the record is still referenced by other rows.
var ErrConflict = errors.New("record is referenced by other rows")

// ErrAccountNotEmpty indicates an account close was refused because the
// balance is not zero.
var ErrAccountNotEmpty = errors.New("account balance is not zero")

// ErrInsufficientFunds indicates a debit would drive the balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByDNI(ctx context.Context, dni string) (models.User, error)
	UpdateUserContact(ctx context.Context, id int64, address, phone string) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// AccountStore captures account persistence operations.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	AccountsByUser(ctx context.Context, userID int64) ([]models.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// Ledger persists monetary movements. Record must apply the ledger insert
// and the balance updates it implies as a single atomic unit: either the
// whole movement commits or none of it does.
type Ledger interface {
	Record(ctx context.Context, t models.Transaction) (models.Transaction, error)
	TransactionsByAccount(ctx context.Context, accountID int64) ([]models.Movement, error)
}

// Store is the full persistence surface the server wires together.
type Store interface {
	UserStore
	AccountStore
	Ledger
}
