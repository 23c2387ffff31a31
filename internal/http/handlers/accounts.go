package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bancofiuba/backend/internal/http/respond"
	"github.com/bancofiuba/backend/internal/models"
	"github.com/bancofiuba/backend/internal/models/dto"
	"github.com/bancofiuba/backend/internal/storage"
)

// AccountHandler owns account open/list/close endpoints.
type AccountHandler struct {
	store  storage.AccountStore
	prefix string
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(store storage.AccountStore, prefix string) *AccountHandler {
	return &AccountHandler{store: store, prefix: prefix}
}

// Register attaches account routes to the mux.
func (h *AccountHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+h.prefix+"/cuentas", h.handleCreate)
	mux.HandleFunc("GET "+h.prefix+"/cuentas", h.handleList)
	mux.HandleFunc("DELETE "+h.prefix+"/cuentas/{id}", h.handleDelete)
}

func (h *AccountHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	number := strings.TrimSpace(req.Number)
	if number == "" || req.UserID <= 0 {
		respond.Error(w, http.StatusBadRequest, "numeroCuenta, tipoCuenta and idUsuario are required")
		return
	}
	if !models.ValidAccountType(req.Type) {
		respond.Error(w, http.StatusBadRequest, "tipoCuenta must be 'cuenta corriente' or 'caja de ahorro'")
		return
	}

	created, err := h.store.CreateAccount(r.Context(), models.Account{
		Number: number,
		Type:   req.Type,
		UserID: int64(req.UserID),
	})
	if err != nil {
		respondStoreError(w, err, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "account opened", created)
}

func (h *AccountHandler) handleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		respondStoreError(w, err, "no accounts found")
		return
	}
	respond.JSON(w, http.StatusOK, "accounts found", accounts)
}

func (h *AccountHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	if err := h.store.DeleteAccount(r.Context(), id); err != nil {
		respondStoreError(w, err, "account not found")
		return
	}
	respond.JSON(w, http.StatusOK, "account closed", nil)
}
