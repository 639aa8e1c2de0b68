/**
 * @description
 * This file defines the read models returned by the service. Every successful
 * transfer operation answers with a RecurrenceView carrying one or more
 * TransferView occurrences; accounts are reported through AccountView
 * snapshots taken after any balance mutation.
 */

package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountView is the API projection of an account.
type AccountView struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Icon     string          `json:"icon"`
	Type     AccountType     `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Archived bool            `json:"archived"`
}

// NewAccountView snapshots an account. Returns nil for a nil account so that
// orphaned transfers serialize with a null side.
func NewAccountView(a *Account) *AccountView {
	if a == nil {
		return nil
	}
	return &AccountView{
		ID:       a.ID,
		Name:     a.Name,
		Color:    a.Color,
		Icon:     a.Icon,
		Type:     a.Type,
		Balance:  a.Balance.Amount,
		Currency: a.Balance.Currency,
		Archived: a.Archived,
	}
}

// TransferView is the API projection of one occurrence, annotated with its
// position within the recurrence and the recurrence's total occurrence count.
type TransferView struct {
	ID               uuid.UUID       `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	FromAccount      *AccountView    `json:"fromAccount"`
	ToAccount        *AccountView    `json:"toAccount"`
	Value            decimal.Decimal `json:"value"`
	Currency         string          `json:"currency"`
	BillingDate      Date            `json:"billingDate"`
	Paid             bool            `json:"paid"`
	PaidDate         *Date           `json:"paidDate,omitempty"`
	InstallmentIndex int             `json:"installmentIndex"`
	Installments     int             `json:"installments"`
	RecurrenceID     uuid.UUID       `json:"recurrenceId"`
}

// NewTransferView projects a transfer together with the account snapshots to
// report and the recurrence's total installment count.
func NewTransferView(t *Transfer, source, destination *Account, installments int) TransferView {
	return TransferView{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		FromAccount:      NewAccountView(source),
		ToAccount:        NewAccountView(destination),
		Value:            t.Value.Amount,
		Currency:         t.Value.Currency,
		BillingDate:      t.BillingDate,
		Paid:             t.Paid,
		PaidDate:         t.PaidDate,
		InstallmentIndex: t.InstallmentIndex,
		Installments:     installments,
		RecurrenceID:     t.RecurrenceID,
	}
}

// RecurrenceView is the API projection of a recurrence and a subset of its
// occurrences.
type RecurrenceView struct {
	ID              uuid.UUID          `json:"id"`
	Interval        RecurrenceInterval `json:"interval"`
	FirstOccurrence Date               `json:"firstOccurrence"`
	TransactionType TransactionType    `json:"transactionType"`
	RecurrenceType  RecurrenceType     `json:"recurrenceType"`
	Occurrences     []TransferView     `json:"occurrences"`
}

// NewRecurrenceView projects a recurrence with the given occurrences.
func NewRecurrenceView(r *Recurrence, occurrences []TransferView) RecurrenceView {
	return RecurrenceView{
		ID:              r.ID,
		Interval:        r.Interval,
		FirstOccurrence: r.FirstOccurrence,
		TransactionType: r.TransactionType,
		RecurrenceType:  r.RecurrenceType,
		Occurrences:     occurrences,
	}
}

// Page is a paginated result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"page"`
	PageSize      int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}
