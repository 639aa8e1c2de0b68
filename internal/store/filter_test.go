package store

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cybermumuca/money-tracker-server/internal/domain"
)

func testFilter(status domain.TransferStatus) TransferFilter {
	return TransferFilter{
		OwnerID:   uuid.New(),
		StartDate: domain.NewDate(2025, time.January, 1),
		EndDate:   domain.NewDate(2025, time.December, 31),
		Status:    status,
		Today:     domain.NewDate(2025, time.June, 15),
	}
}

func TestBuildTransferWhereByStatus(t *testing.T) {
	tests := []struct {
		status   domain.TransferStatus
		want     string
		wantArgs int
	}{
		{
			status:   domain.StatusAll,
			want:     "r.user_id = $1 AND t.billing_date BETWEEN $2 AND $3",
			wantArgs: 3,
		},
		{
			status:   domain.StatusPaid,
			want:     "r.user_id = $1 AND t.billing_date BETWEEN $2 AND $3 AND t.paid = TRUE",
			wantArgs: 3,
		},
		{
			status:   domain.StatusOverdue,
			want:     "r.user_id = $1 AND t.billing_date BETWEEN $2 AND $3 AND t.billing_date < $4 AND t.paid = FALSE",
			wantArgs: 4,
		},
		{
			status:   domain.StatusPending,
			want:     "r.user_id = $1 AND t.billing_date BETWEEN $2 AND $3 AND t.billing_date >= $4 AND t.paid = FALSE",
			wantArgs: 4,
		},
	}

	for _, tc := range tests {
		filter := testFilter(tc.status)
		where, args := buildTransferWhere(filter)
		if where != tc.want {
			t.Errorf("status %s: where %q, want %q", tc.status, where, tc.want)
		}
		if len(args) != tc.wantArgs {
			t.Errorf("status %s: %d args, want %d", tc.status, len(args), tc.wantArgs)
		}
		if args[0] != filter.OwnerID {
			t.Errorf("status %s: first arg should be the owner id", tc.status)
		}
	}
}

func TestBuildTransferOrder(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{"", "ORDER BY t.billing_date ASC, t.created_at ASC"},
		{"billingDate", "ORDER BY t.billing_date ASC, t.created_at ASC"},
		{"billingDate,desc", "ORDER BY t.billing_date DESC, t.created_at ASC"},
		{"title,DESC", "ORDER BY t.title DESC, t.created_at ASC"},
		{"value,asc", "ORDER BY t.amount ASC, t.created_at ASC"},
		{"createdAt", "ORDER BY t.created_at ASC, t.created_at ASC"},
		// Unknown fields fall back instead of reaching the database.
		{"paid,desc", "ORDER BY t.billing_date DESC, t.created_at ASC"},
		{"1;DROP TABLE transfers", "ORDER BY t.billing_date ASC, t.created_at ASC"},
	}

	for _, tc := range tests {
		got := buildTransferOrder(PageRequest{Sort: tc.sort})
		if got != tc.want {
			t.Errorf("sort %q: %q, want %q", tc.sort, got, tc.want)
		}
		if strings.Contains(got, ";") {
			t.Errorf("sort %q leaked into the clause: %q", tc.sort, got)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		in   PageRequest
		want PageRequest
	}{
		{PageRequest{Page: -3, Size: 0}, PageRequest{Page: 0, Size: 20}},
		{PageRequest{Page: 0, Size: -1}, PageRequest{Page: 0, Size: 20}},
		{PageRequest{Page: 2, Size: 50}, PageRequest{Page: 2, Size: 50}},
		{PageRequest{Page: 1, Size: 500}, PageRequest{Page: 1, Size: 100}},
	}

	for _, tc := range tests {
		got := NormalizePage(tc.in)
		if got.Page != tc.want.Page || got.Size != tc.want.Size {
			t.Errorf("NormalizePage(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}
