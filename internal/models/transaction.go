package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction kinds. The strings are stored as-is and parsed by the web
// client, so they keep the original casing.
const (
	KindDeposit    = "Deposito"
	KindWithdrawal = "Retiro"
	KindTransfer   = "Transferencia"
)

// Transaction is an immutable ledger entry. A deposit has only a
// destination, a withdrawal only a source, a transfer both.
type Transaction struct {
	ID            int64           `json:"id_transaccion"`
	Reference     uuid.UUID       `json:"referencia"`
	Amount        decimal.Decimal `json:"monto"`
	Kind          string          `json:"tipo_transaccion"`
	Timestamp     time.Time       `json:"fecha_hora"`
	SourceID      *int64          `json:"id_cuenta_origen"`
	DestinationID *int64          `json:"id_cuenta_destino"`
}

// Movement is a history row: a transaction joined with the account numbers
// on either side. Sides with no account carry "N/A".
type Movement struct {
	ID                int64           `json:"id_transaccion"`
	Reference         uuid.UUID       `json:"referencia"`
	Amount            decimal.Decimal `json:"monto"`
	Kind              string          `json:"tipo_transaccion"`
	Timestamp         time.Time       `json:"fecha_hora"`
	SourceNumber      string          `json:"cuenta_origen_numero"`
	DestinationNumber string          `json:"cuenta_destino_numero"`
}
