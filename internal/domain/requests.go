/**
 * @description
 * This file defines the command payloads accepted by the service layer. They
 * mirror the HTTP request bodies one to one; handlers decode into these and
 * pass them through unchanged.
 */

package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for creating an account with an initial
// balance.
type CreateAccountRequest struct {
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Icon     string          `json:"icon"`
	Type     AccountType     `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// EditAccountRequest is the payload for editing an account's metadata and
// balance.
type EditAccountRequest struct {
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Icon     string          `json:"icon"`
	Type     AccountType     `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// RegisterUniqueTransferRequest is the payload for registering a one-off
// transfer. A present PaidDate means the transfer is paid on registration and
// balances move immediately.
type RegisterUniqueTransferRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	FromAccount uuid.UUID       `json:"fromAccount"`
	ToAccount   uuid.UUID       `json:"toAccount"`
	BillingDate Date            `json:"billingDate"`
	PaidDate    *Date           `json:"paidDate,omitempty"`
}

// RegisterRepeatedTransferRequest is the payload for registering a repeated
// transfer. Only the first occurrence may be pre-paid through PaidDate.
type RegisterRepeatedTransferRequest struct {
	Title               string             `json:"title"`
	Description         string             `json:"description,omitempty"`
	Amount              decimal.Decimal    `json:"amount"`
	Currency            string             `json:"currency"`
	FromAccount         uuid.UUID          `json:"fromAccount"`
	ToAccount           uuid.UUID          `json:"toAccount"`
	BillingDate         Date               `json:"billingDate"`
	PaidDate            *Date              `json:"paidDate,omitempty"`
	RecurrenceInterval  RecurrenceInterval `json:"recurrenceInterval"`
	NumberOfRecurrences int                `json:"numberOfRecurrences"`
}

// PayTransferRequest is the payload for paying a transfer. AccountID may name
// a different paying account than the transfer's source; PaidDate defaults to
// today when omitted.
type PayTransferRequest struct {
	AccountID *uuid.UUID `json:"accountId,omitempty"`
	PaidDate  *Date      `json:"paidDate,omitempty"`
}

// ListTransfersQuery selects transfers for the listing endpoint.
type ListTransfersQuery struct {
	StartDate Date
	EndDate   Date
	Status    TransferStatus
	Page      int
	Size      int
	Sort      string
}
