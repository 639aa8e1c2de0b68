/**
 * @description
 * This file defines the Recurrence aggregate and its enums. A recurrence is
 * the scheduling unit that groups one or more transfer occurrences: a unique
 * transfer is a recurrence with a single occurrence, a repeated transfer is a
 * recurrence with N occurrences on a generated billing schedule.
 */

package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RecurrenceInterval is the spacing between consecutive occurrences.
type RecurrenceInterval string

const (
	IntervalDaily      RecurrenceInterval = "DAILY"
	IntervalWeekly     RecurrenceInterval = "WEEKLY"
	IntervalBiweekly   RecurrenceInterval = "BIWEEKLY"
	IntervalMonthly    RecurrenceInterval = "MONTHLY"
	IntervalBimonthly  RecurrenceInterval = "BIMONTHLY"
	IntervalTrimonthly RecurrenceInterval = "TRIMONTHLY"
	IntervalSixmonthly RecurrenceInterval = "SIXMONTHLY"
	IntervalYearly     RecurrenceInterval = "YEARLY"
)

// ParseRecurrenceInterval validates and normalizes an interval name.
func ParseRecurrenceInterval(s string) (RecurrenceInterval, error) {
	switch interval := RecurrenceInterval(strings.ToUpper(strings.TrimSpace(s))); interval {
	case IntervalDaily, IntervalWeekly, IntervalBiweekly, IntervalMonthly,
		IntervalBimonthly, IntervalTrimonthly, IntervalSixmonthly, IntervalYearly:
		return interval, nil
	default:
		return "", fmt.Errorf("unknown recurrence interval %q", s)
	}
}

// RecurrenceType distinguishes one-off transfers from scheduled ones.
type RecurrenceType string

const (
	RecurrenceUnique   RecurrenceType = "UNIQUE"
	RecurrenceRepeated RecurrenceType = "REPEATED"
)

// TransactionType is the kind of movement a recurrence schedules. Transfers
// are the only kind today.
type TransactionType string

const TransactionTypeTransfer TransactionType = "TRANSFER"

// Recurrence groups the transfer occurrences that share one schedule.
type Recurrence struct {
	ID              uuid.UUID          `json:"id"`
	Interval        RecurrenceInterval `json:"interval"`
	FirstOccurrence Date               `json:"first_occurrence"`
	TransactionType TransactionType    `json:"transaction_type"`
	RecurrenceType  RecurrenceType     `json:"recurrence_type"`
	UserID          uuid.UUID          `json:"user_id"`

	// Transfers are the occurrences owned by this recurrence, ordered by
	// billing date when loaded through the store.
	Transfers []*Transfer `json:"transfers,omitempty"`
}

// GenerateBillingDates produces the ordered billing schedule for a repeated
// transfer: occurrence i falls i interval-units after the start date. Month
// and year steps clamp to the end of shorter months, matching Date.AddMonths.
// The result always has exactly `occurrences` entries, none when zero.
func GenerateBillingDates(start Date, interval RecurrenceInterval, occurrences int) []Date {
	dates := make([]Date, 0, max(occurrences, 0))
	for i := 0; i < occurrences; i++ {
		var d Date
		switch interval {
		case IntervalDaily:
			d = start.AddDays(i)
		case IntervalWeekly:
			d = start.AddWeeks(i)
		case IntervalBiweekly:
			d = start.AddWeeks(2 * i)
		case IntervalMonthly:
			d = start.AddMonths(i)
		case IntervalBimonthly:
			d = start.AddMonths(2 * i)
		case IntervalTrimonthly:
			d = start.AddMonths(3 * i)
		case IntervalSixmonthly:
			d = start.AddMonths(6 * i)
		case IntervalYearly:
			d = start.AddYears(i)
		default:
			d = start.AddMonths(i)
		}
		dates = append(dates, d)
	}
	return dates
}
