package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types as submitted by the web client.
const (
	AccountChecking = "cuenta corriente"
	AccountSavings  = "caja de ahorro"
)

// ValidAccountType reports whether t is a known account type.
func ValidAccountType(t string) bool {
	return t == AccountChecking || t == AccountSavings
}

// Account belongs to exactly one user. The balance is only ever mutated
// through the ledger; accounts open at zero.
type Account struct {
	ID       int64           `json:"id_cuenta"`
	Number   string          `json:"numero_cuenta"`
	Type     string          `json:"tipo_cuenta"`
	Balance  decimal.Decimal `json:"saldo"`
	OpenedAt time.Time       `json:"fecha_apertura"`
	UserID   int64           `json:"id_usuario"`
}
