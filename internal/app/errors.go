/**
 * @description
 * This file defines the typed business errors raised by the service layer.
 * They are non-retryable domain failures; the API layer maps each sentinel to
 * a fixed HTTP status with errors.Is.
 */

package app

import "errors"

var (
	// ErrAccountArchived is returned when an archived account is used as the
	// source or destination of a transfer.
	ErrAccountArchived = errors.New("account is archived")

	// ErrInvalidTransferSource is returned when an operation needs a source
	// account and the transfer has none.
	ErrInvalidTransferSource = errors.New("transfer has no source account")

	// ErrInvalidTransferDestination is returned when an operation needs a
	// destination account and the transfer has none.
	ErrInvalidTransferDestination = errors.New("transfer has no destination account")

	// ErrTransferAlreadyPaid is returned when paying a transfer that is
	// already paid.
	ErrTransferAlreadyPaid = errors.New("transfer is already paid")

	// ErrTransferNotPaidYet is returned when unpaying a transfer that was
	// never paid.
	ErrTransferNotPaidYet = errors.New("transfer is not paid yet")

	// ErrInvalidAmount is returned when a transfer amount is not positive.
	ErrInvalidAmount = errors.New("transfer amount must be positive")

	// ErrInvalidRecurrenceCount is returned when the occurrence count of a
	// repeated transfer is outside 1..200.
	ErrInvalidRecurrenceCount = errors.New("number of recurrences must be between 1 and 200")
)
