/**
 * @description
 * This file defines the Transfer entity, one dated movement of money between
 * two accounts. Transfers are created in bulk when a recurrence is registered
 * and are the unit of the pay/unpay state machine.
 *
 * @notes
 * - Either account reference may be absent; orphaned transfers survive account
 *   deletion and drive the invalid-source/invalid-destination error paths.
 * - The invariant paid == (PaidDate != nil) is maintained exclusively through
 *   MarkPaid and MarkUnpaid.
 */

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transfer is a single monetary movement between two accounts on a billing date.
type Transfer struct {
	ID                   uuid.UUID  `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	SourceAccountID      *uuid.UUID `json:"source_account_id,omitempty"`
	DestinationAccountID *uuid.UUID `json:"destination_account_id,omitempty"`
	Value                Money      `json:"value"`
	BillingDate          Date       `json:"billing_date"`
	Paid                 bool       `json:"paid"`
	PaidDate             *Date      `json:"paid_date,omitempty"`
	InstallmentIndex     int        `json:"installment_index"`
	RecurrenceID         uuid.UUID  `json:"recurrence_id"`
	CreatedAt            time.Time  `json:"created_at"`

	// SourceAccount and DestinationAccount are populated by the store when the
	// referenced accounts still exist. Recurrence is populated by listing
	// queries so views can be assembled without a second fetch.
	SourceAccount      *Account    `json:"-"`
	DestinationAccount *Account    `json:"-"`
	Recurrence         *Recurrence `json:"-"`
}

// MarkPaid records the transfer as paid on the given date.
func (t *Transfer) MarkPaid(paidDate Date) {
	t.Paid = true
	t.PaidDate = &paidDate
}

// MarkUnpaid clears the paid state.
func (t *Transfer) MarkUnpaid() {
	t.Paid = false
	t.PaidDate = nil
}

// TransferStatus selects which occurrences a listing returns, derived from the
// paid flag and the billing date relative to today.
type TransferStatus string

const (
	StatusAll     TransferStatus = "ALL"
	StatusPaid    TransferStatus = "PAID"
	StatusOverdue TransferStatus = "OVERDUE"
	StatusPending TransferStatus = "PENDING"
)

// ParseTransferStatus validates and normalizes a status name. An empty value
// means no status filtering.
func ParseTransferStatus(s string) (TransferStatus, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return StatusAll, nil
	}
	switch status := TransferStatus(trimmed); status {
	case StatusAll, StatusPaid, StatusOverdue, StatusPending:
		return status, nil
	default:
		return "", fmt.Errorf("unknown transfer status %q", s)
	}
}
