package ledger_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bancofiuba/backend/internal/ledger"
	"github.com/bancofiuba/backend/internal/models"
	"github.com/bancofiuba/backend/internal/storage"
	"github.com/bancofiuba/backend/internal/storage/memory"
)

func newFixture(t *testing.T) (*ledger.Service, *memory.Store, models.Account, models.Account) {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	user, err := store.CreateUser(ctx, models.User{FirstName: "Ana", LastName: "Diaz", Email: "ana@x.com"})
	require.NoError(t, err)

	first, err := store.CreateAccount(ctx, models.Account{Number: "0001", Type: models.AccountChecking, UserID: user.ID})
	require.NoError(t, err)
	second, err := store.CreateAccount(ctx, models.Account{Number: "0002", Type: models.AccountSavings, UserID: user.ID})
	require.NoError(t, err)

	return ledger.New(store), store, first, second
}

func balanceOf(t *testing.T, store *memory.Store, account models.Account) decimal.Decimal {
	t.Helper()
	accounts, err := store.AccountsByUser(context.Background(), account.UserID)
	require.NoError(t, err)
	for _, a := range accounts {
		if a.ID == account.ID {
			return a.Balance
		}
	}
	t.Fatalf("account %d not found", account.ID)
	return decimal.Decimal{}
}

func historyLen(t *testing.T, store *memory.Store, account models.Account) int {
	t.Helper()
	movements, err := store.TransactionsByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	return len(movements)
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestDepositCreditsAndRecords(t *testing.T) {
	svc, store, acc, _ := newFixture(t)

	recorded, err := svc.Deposit(context.Background(), acc.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)

	require.Equal(t, models.KindDeposit, recorded.Kind)
	require.Nil(t, recorded.SourceID)
	require.NotNil(t, recorded.DestinationID)
	require.Equal(t, acc.ID, *recorded.DestinationID)
	require.NotEqual(t, recorded.Reference.String(), "00000000-0000-0000-0000-000000000000")

	requireAmount(t, "1000", balanceOf(t, store, acc))
	require.Equal(t, 1, historyLen(t, store, acc))
}

func TestWithdrawDebitsAndRecords(t *testing.T) {
	svc, store, acc, _ := newFixture(t)

	_, err := svc.Deposit(context.Background(), acc.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)

	recorded, err := svc.Withdraw(context.Background(), acc.ID, decimal.NewFromInt(300))
	require.NoError(t, err)

	require.Equal(t, models.KindWithdrawal, recorded.Kind)
	require.Nil(t, recorded.DestinationID)
	require.NotNil(t, recorded.SourceID)

	requireAmount(t, "700", balanceOf(t, store, acc))
	require.Equal(t, 2, historyLen(t, store, acc))
}

func TestWithdrawPastZeroIsRejected(t *testing.T) {
	svc, store, acc, _ := newFixture(t)

	_, err := svc.Deposit(context.Background(), acc.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = svc.Withdraw(context.Background(), acc.ID, decimal.NewFromInt(101))
	require.ErrorIs(t, err, storage.ErrInsufficientFunds)

	requireAmount(t, "100", balanceOf(t, store, acc))
	require.Equal(t, 1, historyLen(t, store, acc))
}

func TestTransferConservesTotal(t *testing.T) {
	svc, store, src, dst := newFixture(t)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, src.ID, decimal.NewFromInt(500))
	require.NoError(t, err)

	recorded, err := svc.Transfer(ctx, src.ID, dst.ID, decimal.NewFromInt(200))
	require.NoError(t, err)

	require.Equal(t, models.KindTransfer, recorded.Kind)
	require.NotNil(t, recorded.SourceID)
	require.NotNil(t, recorded.DestinationID)

	requireAmount(t, "300", balanceOf(t, store, src))
	requireAmount(t, "200", balanceOf(t, store, dst))

	total := balanceOf(t, store, src).Add(balanceOf(t, store, dst))
	requireAmount(t, "500", total)
}

func TestTransferReplayIsNotIdempotent(t *testing.T) {
	svc, store, src, dst := newFixture(t)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, src.ID, decimal.NewFromInt(500))
	require.NoError(t, err)

	first, err := svc.Transfer(ctx, src.ID, dst.ID, decimal.NewFromInt(100))
	require.NoError(t, err)
	second, err := svc.Transfer(ctx, src.ID, dst.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	// Same payload, two independent ledger entries with distinct references.
	require.NotEqual(t, first.Reference, second.Reference)
	requireAmount(t, "300", balanceOf(t, store, src))
	requireAmount(t, "200", balanceOf(t, store, dst))
	require.Equal(t, 3, historyLen(t, store, src))
}

func TestTransferWithInsufficientFundsWritesNothing(t *testing.T) {
	svc, store, src, dst := newFixture(t)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, src.ID, decimal.NewFromInt(50))
	require.NoError(t, err)

	_, err = svc.Transfer(ctx, src.ID, dst.ID, decimal.NewFromInt(80))
	require.ErrorIs(t, err, storage.ErrInsufficientFunds)

	requireAmount(t, "50", balanceOf(t, store, src))
	requireAmount(t, "0", balanceOf(t, store, dst))
	require.Equal(t, 1, historyLen(t, store, src))
	require.Equal(t, 0, historyLen(t, store, dst))
}

func TestNonPositiveAmountsAreRejected(t *testing.T) {
	svc, store, acc, other := newFixture(t)
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.Deposit(ctx, acc.ID, amount)
		require.ErrorIs(t, err, ledger.ErrInvalidAmount)
		_, err = svc.Withdraw(ctx, acc.ID, amount)
		require.ErrorIs(t, err, ledger.ErrInvalidAmount)
		_, err = svc.Transfer(ctx, acc.ID, other.ID, amount)
		require.ErrorIs(t, err, ledger.ErrInvalidAmount)
	}

	requireAmount(t, "0", balanceOf(t, store, acc))
	require.Equal(t, 0, historyLen(t, store, acc))
}

func TestUnknownAccountWritesNothing(t *testing.T) {
	svc, store, acc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, 9999, decimal.NewFromInt(10))
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.Transfer(ctx, acc.ID, 9999, decimal.NewFromInt(10))
	require.ErrorIs(t, err, storage.ErrNotFound)

	requireAmount(t, "0", balanceOf(t, store, acc))
	require.Equal(t, 0, historyLen(t, store, acc))
}

func TestAmountsRoundToTwoPlaces(t *testing.T) {
	svc, store, acc, _ := newFixture(t)

	recorded, err := svc.Deposit(context.Background(), acc.ID, decimal.RequireFromString("10.005"))
	require.NoError(t, err)

	requireAmount(t, "10.01", recorded.Amount)
	requireAmount(t, "10.01", balanceOf(t, store, acc))
}

func TestScenarioAnaDiaz(t *testing.T) {
	svc, store, first, second := newFixture(t)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, first.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	requireAmount(t, "1000", balanceOf(t, store, first))
	require.Equal(t, 1, historyLen(t, store, first))

	_, err = svc.Withdraw(ctx, first.ID, decimal.NewFromInt(300))
	require.NoError(t, err)
	requireAmount(t, "700", balanceOf(t, store, first))
	require.Equal(t, 2, historyLen(t, store, first))

	_, err = svc.Transfer(ctx, first.ID, second.ID, decimal.NewFromInt(700))
	require.NoError(t, err)
	requireAmount(t, "0", balanceOf(t, store, first))
	requireAmount(t, "700", balanceOf(t, store, second))
	require.Equal(t, 3, historyLen(t, store, first))
}
