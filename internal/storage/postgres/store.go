package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bancofiuba/backend/internal/models"
	"github.com/bancofiuba/backend/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Postgres error codes translated into storage sentinels.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Store provides Postgres-backed persistence for users, accounts and the
// transaction ledger.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a pool and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id_usuario BIGSERIAL PRIMARY KEY,
			nombre TEXT NOT NULL,
			apellido TEXT NOT NULL,
			dni TEXT UNIQUE,
			direccion TEXT,
			telefono TEXT,
			email TEXT UNIQUE NOT NULL,
			fecha_nacimiento DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS cuentas (
			id_cuenta BIGSERIAL PRIMARY KEY,
			numero_cuenta TEXT UNIQUE NOT NULL,
			tipo_cuenta TEXT NOT NULL CHECK (tipo_cuenta IN ('cuenta corriente', 'caja de ahorro')),
			saldo NUMERIC(18,2) NOT NULL DEFAULT 0,
			fecha_apertura DATE NOT NULL DEFAULT CURRENT_DATE,
			id_usuario BIGINT NOT NULL REFERENCES usuarios (id_usuario) ON DELETE RESTRICT
		);`,
		`CREATE TABLE IF NOT EXISTS transacciones (
			id_transaccion BIGSERIAL PRIMARY KEY,
			referencia UUID UNIQUE NOT NULL,
			monto NUMERIC(18,2) NOT NULL CHECK (monto > 0),
			tipo_transaccion TEXT NOT NULL CHECK (tipo_transaccion IN ('Deposito', 'Retiro', 'Transferencia')),
			fecha_hora TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			id_cuenta_origen BIGINT REFERENCES cuentas (id_cuenta) ON DELETE RESTRICT,
			id_cuenta_destino BIGINT REFERENCES cuentas (id_cuenta) ON DELETE RESTRICT,
			CHECK (id_cuenta_origen IS NOT NULL OR id_cuenta_destino IS NOT NULL)
		);`,
		`CREATE INDEX IF NOT EXISTS cuentas_usuario_idx ON cuentas (id_usuario);`,
		`CREATE INDEX IF NOT EXISTS transacciones_origen_idx ON transacciones (id_cuenta_origen);`,
		`CREATE INDEX IF NOT EXISTS transacciones_destino_idx ON transacciones (id_cuenta_destino);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row. Profile fields not collected at
// registration stay NULL.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
	INSERT INTO usuarios (nombre, apellido, email)
	VALUES ($1, $2, $3)
	RETURNING id_usuario, nombre, apellido, dni, direccion, telefono, email, fecha_nacimiento, created_at;
	`
	row := s.pool.QueryRow(ctx, query, user.FirstName, user.LastName, user.Email)
	created, err := scanUser(row)
	if err != nil {
		if isPgError(err, codeUniqueViolation) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindUserByEmail fetches a user by email address.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
	SELECT id_usuario, nombre, apellido, dni, direccion, telefono, email, fecha_nacimiento, created_at
	FROM usuarios
	WHERE email = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindUserByDNI fetches a user by national id.
func (s *Store) FindUserByDNI(ctx context.Context, dni string) (models.User, error) {
	const query = `
	SELECT id_usuario, nombre, apellido, dni, direccion, telefono, email, fecha_nacimiento, created_at
	FROM usuarios
	WHERE dni = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, dni))
}

// UpdateUserContact sets the address and phone of an existing user.
func (s *Store) UpdateUserContact(ctx context.Context, id int64, address, phone string) (models.User, error) {
	const query = `
	UPDATE usuarios
	SET direccion = $1, telefono = $2
	WHERE id_usuario = $3
	RETURNING id_usuario, nombre, apellido, dni, direccion, telefono, email, fecha_nacimiento, created_at;
	`
	return scanUser(s.pool.QueryRow(ctx, query, address, phone, id))
}

// DeleteUser removes a user. Users who still own accounts are kept and the
// call fails with storage.ErrConflict.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM usuarios WHERE id_usuario = $1;`, id)
	if err != nil {
		if isPgError(err, codeForeignKeyViolation) {
			return storage.ErrConflict
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateAccount opens an account at balance zero for an existing user.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `
	INSERT INTO cuentas (numero_cuenta, tipo_cuenta, id_usuario)
	VALUES ($1, $2, $3)
	RETURNING id_cuenta, numero_cuenta, tipo_cuenta, saldo, fecha_apertura, id_usuario;
	`
	row := s.pool.QueryRow(ctx, query, account.Number, account.Type, account.UserID)
	created, err := scanAccount(row)
	if err != nil {
		switch {
		case isPgError(err, codeUniqueViolation):
			return models.Account{}, storage.ErrAlreadyExists
		case isPgError(err, codeForeignKeyViolation):
			// Owner does not exist.
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, err
	}
	return created, nil
}

// ListAccounts returns every account, oldest first.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	const query = `
	SELECT id_cuenta, numero_cuenta, tipo_cuenta, saldo, fecha_apertura, id_usuario
	FROM cuentas
	ORDER BY id_cuenta;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// AccountsByUser returns the accounts owned by a user.
func (s *Store) AccountsByUser(ctx context.Context, userID int64) ([]models.Account, error) {
	const query = `
	SELECT id_cuenta, numero_cuenta, tipo_cuenta, saldo, fecha_apertura, id_usuario
	FROM cuentas
	WHERE id_usuario = $1
	ORDER BY id_cuenta;
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("accounts of user %d: %w", userID, err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// DeleteAccount closes an account. The balance must be zero and no ledger
// entry may still reference the account; otherwise the row is kept.
func (s *Store) DeleteAccount(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin close account: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `SELECT saldo FROM cuentas WHERE id_cuenta = $1 FOR UPDATE;`, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("close account %d: %w", id, err)
	}
	if !balance.IsZero() {
		return storage.ErrAccountNotEmpty
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cuentas WHERE id_cuenta = $1;`, id); err != nil {
		if isPgError(err, codeForeignKeyViolation) {
			return storage.ErrConflict
		}
		return fmt.Errorf("close account %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit close account: %w", err)
	}
	return nil
}

// Record appends a ledger entry and applies its balance changes inside one
// database transaction, in fixed order: insert, debit source, credit
// destination. Any failure rolls the whole movement back, so a partial
// write is never observable.
func (s *Store) Record(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("begin movement: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `
	INSERT INTO transacciones (referencia, monto, tipo_transaccion, id_cuenta_origen, id_cuenta_destino)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id_transaccion, referencia, monto, tipo_transaccion, fecha_hora, id_cuenta_origen, id_cuenta_destino;
	`
	row := tx.QueryRow(ctx, insert, t.Reference, t.Amount, t.Kind, t.SourceID, t.DestinationID)
	recorded, err := scanTransaction(row)
	if err != nil {
		if isPgError(err, codeForeignKeyViolation) {
			// One of the referenced accounts does not exist.
			return models.Transaction{}, storage.ErrNotFound
		}
		return models.Transaction{}, fmt.Errorf("insert movement: %w", err)
	}

	if t.SourceID != nil {
		var balance decimal.Decimal
		err := tx.QueryRow(ctx,
			`UPDATE cuentas SET saldo = saldo - $1 WHERE id_cuenta = $2 RETURNING saldo;`,
			t.Amount, *t.SourceID).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.Transaction{}, storage.ErrNotFound
			}
			return models.Transaction{}, fmt.Errorf("debit account %d: %w", *t.SourceID, err)
		}
		if balance.IsNegative() {
			return models.Transaction{}, storage.ErrInsufficientFunds
		}
	}

	if t.DestinationID != nil {
		tag, err := tx.Exec(ctx,
			`UPDATE cuentas SET saldo = saldo + $1 WHERE id_cuenta = $2;`,
			t.Amount, *t.DestinationID)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("credit account %d: %w", *t.DestinationID, err)
		}
		if tag.RowsAffected() == 0 {
			return models.Transaction{}, storage.ErrNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Transaction{}, fmt.Errorf("commit movement: %w", err)
	}
	return recorded, nil
}

// TransactionsByAccount returns the history touching an account as either
// side, newest first, with the account numbers of both sides joined in.
func (s *Store) TransactionsByAccount(ctx context.Context, accountID int64) ([]models.Movement, error) {
	const query = `
	SELECT t.id_transaccion, t.referencia, t.monto, t.tipo_transaccion, t.fecha_hora,
	       COALESCE(co.numero_cuenta, 'N/A') AS cuenta_origen_numero,
	       COALESCE(cd.numero_cuenta, 'N/A') AS cuenta_destino_numero
	FROM transacciones t
	LEFT JOIN cuentas co ON t.id_cuenta_origen = co.id_cuenta
	LEFT JOIN cuentas cd ON t.id_cuenta_destino = cd.id_cuenta
	WHERE t.id_cuenta_origen = $1 OR t.id_cuenta_destino = $1
	ORDER BY t.fecha_hora DESC, t.id_transaccion DESC;
	`
	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("history of account %d: %w", accountID, err)
	}
	defer rows.Close()

	var out []models.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(&m.ID, &m.Reference, &m.Amount, &m.Kind, &m.Timestamp, &m.SourceNumber, &m.DestinationNumber); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.DNI, &u.Address, &u.Phone, &u.Email, &u.BirthDate, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Number, &a.Type, &a.Balance, &a.OpenedAt, &a.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, err
	}
	return a, nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.Reference, &t.Amount, &t.Kind, &t.Timestamp, &t.SourceID, &t.DestinationID)
	if err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

func collectAccounts(rows pgx.Rows) ([]models.Account, error) {
	var out []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Number, &a.Type, &a.Balance, &a.OpenedAt, &a.UserID); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
