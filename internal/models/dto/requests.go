package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ID is an account or user identifier. The web client sends ids sometimes
// as JSON numbers and sometimes as numeric strings; ID accepts both and
// parses once at the boundary. A missing field stays zero.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*id = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*id = ID(v)
	return nil
}

type CreateUserRequest struct {
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Email     string `json:"email"`
}

type UpdateUserRequest struct {
	NewAddress string `json:"nuevaDireccion"`
	NewPhone   string `json:"nuevoTelefono"`
}

type CreateAccountRequest struct {
	Number string `json:"numeroCuenta"`
	Type   string `json:"tipoCuenta"`
	UserID ID     `json:"idUsuario"`
}

// Amounts decode from either JSON numbers or strings via decimal.Decimal.
type DepositRequest struct {
	Amount        decimal.Decimal `json:"monto"`
	DestinationID ID              `json:"idCuentaDestino"`
}

type WithdrawRequest struct {
	Amount   decimal.Decimal `json:"monto"`
	SourceID ID              `json:"idCuentaOrigen"`
}

type TransferRequest struct {
	Amount        decimal.Decimal `json:"monto"`
	SourceID      ID              `json:"idCuentaOrigen"`
	DestinationID ID              `json:"idCuentaDestino"`
}
