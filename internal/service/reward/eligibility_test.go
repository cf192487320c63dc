// internal/service/reward/eligibility_test.go
package reward

import (
	"testing"
	"time"

	"kilofit-service/internal/domain/attendance"
	"kilofit-service/internal/domain/reward"
)

func testConfig() reward.Config {
	return reward.Config{
		AttendanceThreshold: 12,
		DiscountPercentage:  10,
		ExpirationDays:      30,
		EligiblePlanUnits:   []string{"month"},
	}
}

func checkIns(times ...time.Time) []attendance.Attendance {
	out := make([]attendance.Attendance, 0, len(times))
	for _, t := range times {
		out = append(out, attendance.Attendance{CheckIn: t})
	}
	return out
}

func mustParse(t *testing.T, v string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		t.Fatalf("parse %q: %v", v, err)
	}
	return ts
}

func TestEvaluateBoundaryInclusion(t *testing.T) {
	cycleStart := mustParse(t, "2024-01-01T00:00:00Z")
	cycleEnd := mustParse(t, "2024-01-31T23:59:59Z")

	tests := []struct {
		name    string
		checkIn string
		counted bool
	}{
		{"exactly at cycle start", "2024-01-01T00:00:00Z", true},
		{"exactly at cycle end", "2024-01-31T23:59:59Z", true},
		{"one second before start", "2023-12-31T23:59:59Z", false},
		{"one second after end", "2024-02-01T00:00:00Z", false},
		{"mid cycle", "2024-01-15T10:30:00Z", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountInCycle(checkIns(mustParse(t, tt.checkIn)), cycleStart, cycleEnd)
			want := 0
			if tt.counted {
				want = 1
			}
			if got != want {
				t.Errorf("CountInCycle = %d, want %d", got, want)
			}
		})
	}
}

func TestEvaluateThresholdComparison(t *testing.T) {
	cfg := testConfig()
	cfg.AttendanceThreshold = 20
	cycleStart := mustParse(t, "2024-03-01T00:00:00Z")
	cycleEnd := mustParse(t, "2024-03-31T23:59:59Z")

	var within []time.Time
	for i := 0; i < 19; i++ {
		within = append(within, cycleStart.Add(time.Duration(i)*24*time.Hour))
	}

	ev := Evaluate("month", cycleStart, cycleEnd, checkIns(within...), cfg)
	if ev.Outcome != OutcomeNotEligible {
		t.Fatalf("19 of 20: outcome = %q, want %q", ev.Outcome, OutcomeNotEligible)
	}
	if ev.Remaining != 1 {
		t.Errorf("remaining = %d, want 1", ev.Remaining)
	}
	if ev.Percentage != 95 {
		t.Errorf("percentage = %v, want 95", ev.Percentage)
	}

	within = append(within, cycleStart.Add(19*24*time.Hour))
	ev = Evaluate("month", cycleStart, cycleEnd, checkIns(within...), cfg)
	if ev.Outcome != OutcomeEligible {
		t.Fatalf("20 of 20: outcome = %q, want %q", ev.Outcome, OutcomeEligible)
	}
	if ev.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", ev.Remaining)
	}
}

func TestEvaluateUnitExclusion(t *testing.T) {
	cfg := testConfig()
	cycleStart := mustParse(t, "2024-01-01T00:00:00Z")
	cycleEnd := mustParse(t, "2024-01-07T23:59:59Z")

	// Plenty of attendance, but the unit is outside the program so the
	// count never matters.
	var times []time.Time
	for i := 0; i < 30; i++ {
		times = append(times, cycleStart.Add(time.Duration(i)*time.Hour))
	}

	ev := Evaluate("week", cycleStart, cycleEnd, checkIns(times...), cfg)
	if ev.Outcome != OutcomeNotApplicable {
		t.Fatalf("outcome = %q, want %q", ev.Outcome, OutcomeNotApplicable)
	}
	if ev.AttendanceCount != 0 {
		t.Errorf("attendance count = %d, want 0 (unit check short-circuits counting)", ev.AttendanceCount)
	}

	// Membership is case-sensitive exact match.
	ev = Evaluate("Month", cycleStart, cycleEnd, checkIns(times...), cfg)
	if ev.Outcome != OutcomeNotApplicable {
		t.Errorf("outcome for %q = %q, want %q", "Month", ev.Outcome, OutcomeNotApplicable)
	}
}

func TestEvaluateNoData(t *testing.T) {
	cfg := testConfig()
	cycleStart := mustParse(t, "2024-01-01T00:00:00Z")
	cycleEnd := mustParse(t, "2024-01-31T23:59:59Z")

	ev := Evaluate("month", cycleStart, cycleEnd, nil, cfg)
	if ev.Outcome != OutcomeNoData {
		t.Fatalf("outcome = %q, want %q", ev.Outcome, OutcomeNoData)
	}
	if ev.Remaining != cfg.AttendanceThreshold {
		t.Errorf("remaining = %d, want %d", ev.Remaining, cfg.AttendanceThreshold)
	}
}

func TestEvaluatePercentageCapped(t *testing.T) {
	cfg := testConfig()
	cfg.AttendanceThreshold = 5
	cycleStart := mustParse(t, "2024-01-01T00:00:00Z")
	cycleEnd := mustParse(t, "2024-01-31T23:59:59Z")

	var times []time.Time
	for i := 0; i < 15; i++ {
		times = append(times, cycleStart.Add(time.Duration(i)*24*time.Hour))
	}

	ev := Evaluate("month", cycleStart, cycleEnd, checkIns(times...), cfg)
	if ev.Percentage != 100 {
		t.Errorf("percentage = %v, want capped at 100", ev.Percentage)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	cfg := testConfig()
	cycleStart := mustParse(t, "2024-01-01T00:00:00Z")
	cycleEnd := mustParse(t, "2024-01-31T23:59:59Z")

	var times []time.Time
	for i := 0; i < 12; i++ {
		times = append(times, cycleStart.Add(time.Duration(i)*24*time.Hour))
	}
	att := checkIns(times...)

	first := Evaluate("month", cycleStart, cycleEnd, att, cfg)
	for i := 0; i < 10; i++ {
		if got := Evaluate("month", cycleStart, cycleEnd, att, cfg); got != first {
			t.Fatalf("run %d: %+v != %+v, identical inputs must produce identical output", i, got, first)
		}
	}
	if first.Outcome != OutcomeEligible {
		t.Errorf("outcome = %q, want %q", first.Outcome, OutcomeEligible)
	}
}
