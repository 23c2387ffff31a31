package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bancofiuba/backend/internal/http/respond"
	"github.com/bancofiuba/backend/internal/ledger"
	"github.com/bancofiuba/backend/internal/models/dto"
	"github.com/bancofiuba/backend/internal/storage"
)

// TransactionHandler exposes the money-movement write path and the
// per-account history lookup.
type TransactionHandler struct {
	service *ledger.Service
	store   storage.Ledger
	prefix  string
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(service *ledger.Service, store storage.Ledger, prefix string) *TransactionHandler {
	return &TransactionHandler{service: service, store: store, prefix: prefix}
}

// Register attaches transaction routes to the mux.
func (h *TransactionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+h.prefix+"/transacciones/deposito", h.handleDeposit)
	mux.HandleFunc("POST "+h.prefix+"/transacciones/retiro", h.handleWithdraw)
	mux.HandleFunc("POST "+h.prefix+"/transacciones/transferencia", h.handleTransfer)
	mux.HandleFunc("GET "+h.prefix+"/cuentas/{id}/transacciones", h.handleHistory)
}

func (h *TransactionHandler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.DestinationID <= 0 {
		respond.Error(w, http.StatusBadRequest, "idCuentaDestino is required")
		return
	}
	recorded, err := h.service.Deposit(r.Context(), int64(req.DestinationID), req.Amount)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "deposit recorded", recorded)
}

func (h *TransactionHandler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.SourceID <= 0 {
		respond.Error(w, http.StatusBadRequest, "idCuentaOrigen is required")
		return
	}
	recorded, err := h.service.Withdraw(r.Context(), int64(req.SourceID), req.Amount)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "withdrawal recorded", recorded)
}

func (h *TransactionHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.SourceID <= 0 || req.DestinationID <= 0 {
		respond.Error(w, http.StatusBadRequest, "idCuentaOrigen and idCuentaDestino are required")
		return
	}
	recorded, err := h.service.Transfer(r.Context(), int64(req.SourceID), int64(req.DestinationID), req.Amount)
	if err != nil {
		h.respondLedgerError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, "transfer recorded", recorded)
}

func (h *TransactionHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	movements, err := h.store.TransactionsByAccount(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "account not found")
		return
	}
	if len(movements) == 0 {
		respond.Error(w, http.StatusNotFound, "no transactions found for account")
		return
	}
	respond.JSON(w, http.StatusOK, "transactions found", movements)
}

func (h *TransactionHandler) respondLedgerError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrInvalidAmount) {
		respond.Error(w, http.StatusBadRequest, "monto must be a positive amount")
		return
	}
	respondStoreError(w, err, "account not found")
}
