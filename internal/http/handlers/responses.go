package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/bancofiuba/backend/internal/http/respond"
	"github.com/bancofiuba/backend/internal/storage"
)

// respondStoreError maps storage sentinels onto HTTP statuses. Anything
// unrecognized is a store failure: logged and surfaced as a 500 instead of
// leaking upstream detail.
func respondStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.Error(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, storage.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, "record already exists")
	case errors.Is(err, storage.ErrAccountNotEmpty):
		respond.Error(w, http.StatusConflict, "account balance must be zero")
	case errors.Is(err, storage.ErrConflict):
		respond.Error(w, http.StatusConflict, "record is still referenced")
	case errors.Is(err, storage.ErrInsufficientFunds):
		respond.Error(w, http.StatusUnprocessableEntity, "insufficient funds")
	default:
		log.Printf("store error: %v", err)
		respond.Error(w, http.StatusInternalServerError, "storage failure")
	}
}

// pathID parses the {id} path segment into the canonical int64 identifier.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
