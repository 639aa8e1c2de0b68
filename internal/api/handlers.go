/**
 * @description
 * This file contains the HTTP handlers for the account endpoints plus the
 * helpers shared by every handler: JSON writing, domain error mapping and
 * query parsing. Handlers parse incoming requests, call the application
 * services and write the HTTP response. They act as the bridge between the
 * web layer and the business logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cybermumuca/money-tracker-server/internal/app"
	"github.com/cybermumuca/money-tracker-server/internal/domain"
	"github.com/cybermumuca/money-tracker-server/internal/store"
	"github.com/cybermumuca/money-tracker-server/pkg/currency"
)

// LedgerHandlers holds the application services that handlers will use.
type LedgerHandlers struct {
	accounts  *app.AccountService
	transfers *app.TransferService
}

// NewLedgerHandlers creates a new instance of LedgerHandlers.
func NewLedgerHandlers(accounts *app.AccountService, transfers *app.TransferService) *LedgerHandlers {
	return &LedgerHandlers{accounts: accounts, transfers: transfers}
}

// mapDomainError translates a typed business error into its fixed HTTP
// status. Unmapped errors fall through to 500; callers log the original.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrAccountNotFound):
		return http.StatusNotFound, "Account not found."
	case errors.Is(err, store.ErrRecurrenceNotFound):
		return http.StatusNotFound, "Recurrence not found."
	case errors.Is(err, store.ErrTransferNotFound):
		return http.StatusNotFound, "Transfer not found."
	case errors.Is(err, domain.ErrResourceAlreadyArchived):
		return http.StatusConflict, "Account is already archived."
	case errors.Is(err, domain.ErrResourceAlreadyActive):
		return http.StatusConflict, "Account is already active."
	case errors.Is(err, app.ErrAccountArchived):
		return http.StatusUnprocessableEntity, "Account is archived."
	case errors.Is(err, app.ErrInvalidTransferSource):
		return http.StatusUnprocessableEntity, "Transfer has no source account."
	case errors.Is(err, app.ErrInvalidTransferDestination):
		return http.StatusUnprocessableEntity, "Transfer has no destination account."
	case errors.Is(err, app.ErrTransferAlreadyPaid):
		return http.StatusUnprocessableEntity, "Transfer is already paid."
	case errors.Is(err, app.ErrTransferNotPaidYet):
		return http.StatusUnprocessableEntity, "Transfer is not paid yet."
	case errors.Is(err, domain.ErrDifferentCurrencies):
		return http.StatusUnprocessableEntity, "Currencies do not match."
	case errors.Is(err, currency.ErrConversionUnsupported):
		return http.StatusUnprocessableEntity, "Currency conversion is not supported."
	case errors.Is(err, app.ErrInvalidAmount), errors.Is(err, app.ErrInvalidRecurrenceCount):
		return http.StatusBadRequest, err.Error()
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return http.StatusConflict, "Resource already exists."
	}

	return http.StatusInternalServerError, "Internal server error"
}

// CreateAccountHandler handles requests to create an account.
func (h *LedgerHandlers) CreateAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.accounts.CreateAccount(r.Context(), userID, req)
	if err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=create_account outcome=failed user_id=%s err=%v", userID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusCreated, view)
}

// ListAccountsHandler handles requests to list the user's active accounts.
func (h *LedgerHandlers) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	h.listAccounts(w, r, false)
}

// ListArchivedAccountsHandler handles requests to list the user's archived accounts.
func (h *LedgerHandlers) ListArchivedAccountsHandler(w http.ResponseWriter, r *http.Request) {
	h.listAccounts(w, r, true)
}

func (h *LedgerHandlers) listAccounts(w http.ResponseWriter, r *http.Request, archived bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var views []domain.AccountView
	var err error
	if archived {
		views, err = h.accounts.ListArchivedAccounts(r.Context(), userID)
	} else {
		views, err = h.accounts.ListActiveAccounts(r.Context(), userID)
	}
	if err != nil {
		log.Printf("level=error component=api endpoint=list_accounts outcome=failed user_id=%s archived=%v err=%v", userID, archived, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, views)
}

// GetAccountHandler handles requests to fetch one account by id.
func (h *LedgerHandlers) GetAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := h.authedResourceID(w, r)
	if !ok {
		return
	}

	view, err := h.accounts.GetAccount(r.Context(), accountID, userID)
	if err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=get_account outcome=failed user_id=%s account_id=%s err=%v", userID, accountID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// EditAccountHandler handles requests to edit an account.
func (h *LedgerHandlers) EditAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := h.authedResourceID(w, r)
	if !ok {
		return
	}

	var req domain.EditAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.accounts.EditAccount(r.Context(), accountID, userID, req)
	if err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=edit_account outcome=failed user_id=%s account_id=%s err=%v", userID, accountID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// ArchiveAccountHandler handles requests to archive an account.
func (h *LedgerHandlers) ArchiveAccountHandler(w http.ResponseWriter, r *http.Request) {
	h.toggleArchive(w, r, true)
}

// UnarchiveAccountHandler handles requests to reactivate an archived account.
func (h *LedgerHandlers) UnarchiveAccountHandler(w http.ResponseWriter, r *http.Request) {
	h.toggleArchive(w, r, false)
}

func (h *LedgerHandlers) toggleArchive(w http.ResponseWriter, r *http.Request, archive bool) {
	userID, accountID, ok := h.authedResourceID(w, r)
	if !ok {
		return
	}

	var view *domain.AccountView
	var err error
	if archive {
		view, err = h.accounts.ArchiveAccount(r.Context(), accountID, userID)
	} else {
		view, err = h.accounts.UnarchiveAccount(r.Context(), accountID, userID)
	}
	if err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=toggle_archive outcome=failed user_id=%s account_id=%s archive=%v err=%v", userID, accountID, archive, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// DeleteAccountHandler handles requests to delete an account.
func (h *LedgerHandlers) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, accountID, ok := h.authedResourceID(w, r)
	if !ok {
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), accountID, userID); err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=delete_account outcome=failed user_id=%s account_id=%s err=%v", userID, accountID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusNoContent, nil)
}

// authedResourceID pulls the authenticated user and the {id} URL parameter.
// Writes the error response itself and reports ok=false on failure.
func (h *LedgerHandlers) authedResourceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return uuid.Nil, uuid.Nil, false
	}
	resourceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid resource ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, resourceID, true
}

func parseOptionalInt(raw string, fallback int) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil || value < 0 {
		return 0, errors.New("value must be a non-negative integer")
	}
	return value, nil
}

// writeJSON is a helper for writing JSON responses.
func (h *LedgerHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *LedgerHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
