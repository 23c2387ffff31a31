package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bancofiuba/backend/internal/auth"
	"github.com/bancofiuba/backend/internal/http/respond"
	"github.com/bancofiuba/backend/internal/models"
	"github.com/bancofiuba/backend/internal/models/dto"
	"github.com/bancofiuba/backend/internal/storage"
)

// UserHandler owns registration, login and the user lifecycle endpoints.
type UserHandler struct {
	store    storage.UserStore
	accounts storage.AccountStore
	tokens   *auth.TokenManager
	prefix   string
}

// NewUserHandler constructs the handler.
func NewUserHandler(store storage.UserStore, accounts storage.AccountStore, tokens *auth.TokenManager, prefix string) *UserHandler {
	return &UserHandler{store: store, accounts: accounts, tokens: tokens, prefix: prefix}
}

// Register attaches user routes to the mux.
func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+h.prefix+"/usuarios", h.handleCreate)
	mux.HandleFunc("GET "+h.prefix+"/login/{email}", h.handleLogin)
	mux.HandleFunc("GET "+h.prefix+"/usuarios/{dni}", h.handleByDNI)
	mux.HandleFunc("GET "+h.prefix+"/usuarios/{id}/cuentas", h.handleAccounts)
	mux.HandleFunc("PUT "+h.prefix+"/usuarios/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE "+h.prefix+"/usuarios/{id}", h.handleDelete)
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := strings.TrimSpace(req.Email)
	if firstName == "" || lastName == "" || email == "" {
		respond.Error(w, http.StatusBadRequest, "nombre, apellido and email are required")
		return
	}

	created, err := h.store.CreateUser(r.Context(), models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	})
	if err != nil {
		respondStoreError(w, err, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "user created", created)
}

func (h *UserHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PathValue("email"))
	user, err := h.store.FindUserByEmail(r.Context(), email)
	if err != nil {
		respondStoreError(w, err, "user not found")
		return
	}
	token, err := h.tokens.Generate(user)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", loginResponse{Token: token, User: user})
}

func (h *UserHandler) handleByDNI(w http.ResponseWriter, r *http.Request) {
	dni := strings.TrimSpace(r.PathValue("dni"))
	if dni == "" {
		respond.Error(w, http.StatusBadRequest, "dni is required")
		return
	}
	user, err := h.store.FindUserByDNI(r.Context(), dni)
	if err != nil {
		respondStoreError(w, err, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "user found", user)
}

func (h *UserHandler) handleAccounts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	accounts, err := h.accounts.AccountsByUser(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "user not found")
		return
	}
	if len(accounts) == 0 {
		respond.Error(w, http.StatusNotFound, "no accounts found for user")
		return
	}
	respond.JSON(w, http.StatusOK, "accounts found", accounts)
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	address := strings.TrimSpace(req.NewAddress)
	phone := strings.TrimSpace(req.NewPhone)
	if address == "" || phone == "" {
		respond.Error(w, http.StatusBadRequest, "nuevaDireccion and nuevoTelefono are required")
		return
	}
	updated, err := h.store.UpdateUserContact(r.Context(), id, address, phone)
	if err != nil {
		respondStoreError(w, err, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "user updated", updated)
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		respondStoreError(w, err, "user not found")
		return
	}
	respond.JSON(w, http.StatusOK, "user deleted", nil)
}
