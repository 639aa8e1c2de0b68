package domain

import (
	"testing"
	"time"
)

func TestGenerateBillingDatesLengthAndMonotonicity(t *testing.T) {
	start := NewDate(2025, time.January, 15)
	intervals := []RecurrenceInterval{
		IntervalDaily, IntervalWeekly, IntervalBiweekly, IntervalMonthly,
		IntervalBimonthly, IntervalTrimonthly, IntervalSixmonthly, IntervalYearly,
	}

	for _, interval := range intervals {
		dates := GenerateBillingDates(start, interval, 12)
		if len(dates) != 12 {
			t.Fatalf("%s: expected 12 dates, got %d", interval, len(dates))
		}
		if !dates[0].Equal(start) {
			t.Fatalf("%s: first date %s, want %s", interval, dates[0], start)
		}
		for i := 1; i < len(dates); i++ {
			if !dates[i].After(dates[i-1].Time) {
				t.Fatalf("%s: dates not strictly increasing at %d: %s then %s", interval, i, dates[i-1], dates[i])
			}
		}
	}
}

func TestGenerateBillingDatesZeroOccurrences(t *testing.T) {
	dates := GenerateBillingDates(NewDate(2025, time.March, 1), IntervalMonthly, 0)
	if len(dates) != 0 {
		t.Fatalf("expected empty schedule, got %d dates", len(dates))
	}
}

func TestGenerateBillingDatesMonthlySchedule(t *testing.T) {
	dates := GenerateBillingDates(NewDate(2025, time.January, 1), IntervalMonthly, 3)
	want := []Date{
		NewDate(2025, time.January, 1),
		NewDate(2025, time.February, 1),
		NewDate(2025, time.March, 1),
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("occurrence %d: got %s, want %s", i+1, dates[i], want[i])
		}
	}
}

func TestAddMonthsClampsToEndOfMonth(t *testing.T) {
	tests := []struct {
		start Date
		n     int
		want  Date
	}{
		{NewDate(2025, time.January, 31), 1, NewDate(2025, time.February, 28)},
		{NewDate(2024, time.January, 31), 1, NewDate(2024, time.February, 29)},
		{NewDate(2025, time.January, 31), 2, NewDate(2025, time.March, 31)},
		{NewDate(2025, time.January, 31), 3, NewDate(2025, time.April, 30)},
		{NewDate(2025, time.October, 31), 4, NewDate(2026, time.February, 28)},
		{NewDate(2025, time.March, 15), 1, NewDate(2025, time.April, 15)},
	}

	for _, tc := range tests {
		if got := tc.start.AddMonths(tc.n); !got.Equal(tc.want) {
			t.Errorf("%s + %d months: got %s, want %s", tc.start, tc.n, got, tc.want)
		}
	}
}

func TestAddMonthsAnchorsToStartDate(t *testing.T) {
	// The schedule advances from the start date each time, so a clamped
	// February does not shorten later months.
	dates := GenerateBillingDates(NewDate(2025, time.January, 31), IntervalMonthly, 3)
	want := []Date{
		NewDate(2025, time.January, 31),
		NewDate(2025, time.February, 28),
		NewDate(2025, time.March, 31),
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Fatalf("occurrence %d: got %s, want %s", i+1, dates[i], want[i])
		}
	}
}

func TestAddYearsClampsLeapDay(t *testing.T) {
	leap := NewDate(2024, time.February, 29)
	if got := leap.AddYears(1); !got.Equal(NewDate(2025, time.February, 28)) {
		t.Fatalf("got %s, want 2025-02-28", got)
	}
	if got := leap.AddYears(4); !got.Equal(NewDate(2028, time.February, 29)) {
		t.Fatalf("got %s, want 2028-02-29", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-30")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if !d.Equal(NewDate(2025, time.June, 30)) {
		t.Fatalf("got %s", d)
	}

	if _, err := ParseDate("30/06/2025"); err == nil {
		t.Fatal("expected error for invalid format")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.December, 25)
	raw, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}
	if string(raw) != `"2025-12-25"` {
		t.Fatalf("got %s", raw)
	}

	var parsed Date
	if err := parsed.UnmarshalJSON(raw); err != nil {
		t.Fatalf("UnmarshalJSON returned error: %v", err)
	}
	if !parsed.Equal(d) {
		t.Fatalf("round-trip mismatch: %s != %s", parsed, d)
	}
}
