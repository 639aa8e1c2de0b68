/**
 * @description
 * This file builds the SQL predicate and ordering for transfer listings. The
 * status filter is a closed set of variants rather than an open criteria API,
 * so each variant maps to a fixed pair of conditions on the paid flag and the
 * billing date.
 */

package store

import (
	"fmt"
	"strings"

	"github.com/cybermumuca/money-tracker-server/internal/domain"
)

// transferSortColumns whitelists the sortable fields of a transfer listing.
// Keys are the API-facing field names.
var transferSortColumns = map[string]string{
	"billingDate": "t.billing_date",
	"title":       "t.title",
	"value":       "t.amount",
	"createdAt":   "t.created_at",
}

// buildTransferWhere renders the filter into a WHERE fragment and its
// positional arguments. The owner condition always comes first; it is the
// authorization boundary, never optional.
func buildTransferWhere(f TransferFilter) (string, []any) {
	conditions := []string{
		"r.user_id = $1",
		"t.billing_date BETWEEN $2 AND $3",
	}
	args := []any{f.OwnerID, f.StartDate.Time, f.EndDate.Time}

	switch f.Status {
	case domain.StatusPaid:
		conditions = append(conditions, "t.paid = TRUE")
	case domain.StatusOverdue:
		args = append(args, f.Today.Time)
		conditions = append(conditions, fmt.Sprintf("t.billing_date < $%d", len(args)), "t.paid = FALSE")
	case domain.StatusPending:
		args = append(args, f.Today.Time)
		conditions = append(conditions, fmt.Sprintf("t.billing_date >= $%d", len(args)), "t.paid = FALSE")
	}

	return strings.Join(conditions, " AND "), args
}

// buildTransferOrder renders the page's sort request into an ORDER BY clause.
// Unknown fields and directions fall back to billing date ascending; creation
// order is always the tie-breaker.
func buildTransferOrder(page PageRequest) string {
	column := transferSortColumns["billingDate"]
	direction := "ASC"

	if page.Sort != "" {
		parts := strings.SplitN(page.Sort, ",", 2)
		if mapped, ok := transferSortColumns[strings.TrimSpace(parts[0])]; ok {
			column = mapped
		}
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc") {
			direction = "DESC"
		}
	}

	return fmt.Sprintf("ORDER BY %s %s, t.created_at ASC", column, direction)
}

// NormalizePage clamps page and size to sane bounds.
func NormalizePage(page PageRequest) PageRequest {
	if page.Page < 0 {
		page.Page = 0
	}
	if page.Size <= 0 {
		page.Size = 20
	}
	if page.Size > 100 {
		page.Size = 100
	}
	return page
}
