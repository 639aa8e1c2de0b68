package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cybermumuca/money-tracker-server/internal/domain"
)

// RegisterUniqueTransferHandler handles requests to register a one-off transfer.
func (h *LedgerHandlers) RegisterUniqueTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.RegisterUniqueTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	log.Printf("level=info component=api endpoint=register_unique_transfer outcome=accepted user_id=%s amount=%s currency=%s", userID, req.Amount, req.Currency)

	view, err := h.transfers.RegisterUniqueTransfer(r.Context(), userID, req)
	if err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=register_unique_transfer outcome=failed user_id=%s err=%v", userID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusCreated, view)
}

// RegisterRepeatedTransferHandler handles requests to register a repeated transfer.
func (h *LedgerHandlers) RegisterRepeatedTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	var req domain.RegisterRepeatedTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := domain.ParseRecurrenceInterval(string(req.RecurrenceInterval)); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid recurrence interval")
		return
	}

	log.Printf("level=info component=api endpoint=register_repeated_transfer outcome=accepted user_id=%s amount=%s currency=%s occurrences=%d", userID, req.Amount, req.Currency, req.NumberOfRecurrences)

	view, err := h.transfers.RegisterRepeatedTransfer(r.Context(), userID, req)
	if err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=register_repeated_transfer outcome=failed user_id=%s err=%v", userID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusCreated, view)
}

// GetTransferHandler handles requests to fetch one transfer by id.
func (h *LedgerHandlers) GetTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, transferID, ok := h.authedResourceID(w, r)
	if !ok {
		return
	}

	view, err := h.transfers.GetTransfer(r.Context(), transferID, userID)
	if err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=get_transfer outcome=failed user_id=%s transfer_id=%s err=%v", userID, transferID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// ListTransfersHandler handles requests to list transfers by date range and
// status. startDate and endDate are required; status defaults to ALL.
func (h *LedgerHandlers) ListTransfersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}

	startDate, err := domain.ParseDate(r.URL.Query().Get("startDate"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid startDate")
		return
	}
	endDate, err := domain.ParseDate(r.URL.Query().Get("endDate"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid endDate")
		return
	}
	status, err := domain.ParseTransferStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	page, err := parseOptionalInt(r.URL.Query().Get("page"), 0)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid page")
		return
	}
	size, err := parseOptionalInt(r.URL.Query().Get("size"), 20)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid size")
		return
	}

	result, err := h.transfers.ListTransfers(r.Context(), userID, domain.ListTransfersQuery{
		StartDate: startDate,
		EndDate:   endDate,
		Status:    status,
		Page:      page,
		Size:      size,
		Sort:      strings.TrimSpace(r.URL.Query().Get("sort")),
	})
	if err != nil {
		log.Printf("level=error component=api endpoint=list_transfers outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// PayTransferHandler handles requests to mark a transfer as paid.
func (h *LedgerHandlers) PayTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, transferID, ok := h.authedResourceID(w, r)
	if !ok {
		return
	}

	// The body is optional; an empty body means pay from the stored source
	// account, today.
	var req domain.PayTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.transfers.PayTransfer(r.Context(), transferID, userID, req)
	if err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=pay_transfer outcome=failed user_id=%s transfer_id=%s err=%v", userID, transferID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// UnpayTransferHandler handles requests to revert a transfer payment.
func (h *LedgerHandlers) UnpayTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, transferID, ok := h.authedResourceID(w, r)
	if !ok {
		return
	}

	view, err := h.transfers.UnpayTransfer(r.Context(), transferID, userID)
	if err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=unpay_transfer outcome=failed user_id=%s transfer_id=%s err=%v", userID, transferID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

// DeleteTransferHandler handles requests to delete one transfer occurrence.
func (h *LedgerHandlers) DeleteTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, transferID, ok := h.authedResourceID(w, r)
	if !ok {
		return
	}

	if err := h.transfers.DeleteTransfer(r.Context(), transferID, userID); err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=delete_transfer outcome=failed user_id=%s transfer_id=%s err=%v", userID, transferID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusNoContent, nil)
}

// DeleteFutureTransfersHandler handles requests to bulk-delete a recurrence's
// occurrences from a given installment index onward.
func (h *LedgerHandlers) DeleteFutureTransfersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
		return
	}
	recurrenceID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid recurrence ID")
		return
	}
	fromInstallment, err := parseOptionalInt(r.URL.Query().Get("from"), 0)
	if err != nil || fromInstallment < 1 {
		h.writeError(w, http.StatusBadRequest, "Invalid installment index")
		return
	}

	deleted, err := h.transfers.DeleteFutureTransfers(r.Context(), recurrenceID, fromInstallment, userID)
	if err != nil {
		status, msg := mapDomainError(err)
		if status == http.StatusInternalServerError {
			log.Printf("level=error component=api endpoint=delete_future_transfers outcome=failed user_id=%s recurrence_id=%s err=%v", userID, recurrenceID, err)
		}
		h.writeError(w, status, msg)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
