// internal/service/reward/eligibility.go
package reward

import (
	"time"

	"kilofit-service/internal/domain/attendance"
	"kilofit-service/internal/domain/reward"
)

// Outcome classifies an eligibility evaluation. NotApplicable is a hard
// exclusion (the plan's duration unit is outside the program) and is distinct
// from NoData (nothing to evaluate) and from an eligible=false result.
type Outcome string

const (
	OutcomeEligible      Outcome = "eligible"
	OutcomeNotEligible   Outcome = "not_eligible"
	OutcomeNotApplicable Outcome = "not_applicable"
	OutcomeNoData        Outcome = "no_data"
)

// Evaluation is the full result of one eligibility check plus the progress
// signal for in-progress cycles.
type Evaluation struct {
	Outcome         Outcome
	AttendanceCount int
	Threshold       int
	Percentage      float64
	Remaining       int
}

func (e Evaluation) Eligible() bool { return e.Outcome == OutcomeEligible }

// Evaluate decides whether one subscription cycle qualifies for a reward.
// It is a pure function: identical inputs always produce identical output.
//
// The cycle window is a closed interval; a check-in at exactly cycleStart or
// cycleEnd counts. Eligibility is count >= threshold, compared as-is.
func Evaluate(planUnit string, cycleStart, cycleEnd time.Time, attendances []attendance.Attendance, cfg reward.Config) Evaluation {
	if !unitEligible(planUnit, cfg.EligiblePlanUnits) {
		return Evaluation{Outcome: OutcomeNotApplicable, Threshold: cfg.AttendanceThreshold}
	}

	if len(attendances) == 0 || cfg.AttendanceThreshold <= 0 {
		return Evaluation{
			Outcome:   OutcomeNoData,
			Threshold: cfg.AttendanceThreshold,
			Remaining: cfg.AttendanceThreshold,
		}
	}

	count := CountInCycle(attendances, cycleStart, cycleEnd)

	ev := Evaluation{
		AttendanceCount: count,
		Threshold:       cfg.AttendanceThreshold,
		Percentage:      progressPercentage(count, cfg.AttendanceThreshold),
		Remaining:       remaining(count, cfg.AttendanceThreshold),
	}
	if count >= cfg.AttendanceThreshold {
		ev.Outcome = OutcomeEligible
	} else {
		ev.Outcome = OutcomeNotEligible
	}
	return ev
}

// CountInCycle counts check-ins inside [cycleStart, cycleEnd], inclusive on
// both ends.
func CountInCycle(attendances []attendance.Attendance, cycleStart, cycleEnd time.Time) int {
	count := 0
	for _, a := range attendances {
		if !a.CheckIn.Before(cycleStart) && !a.CheckIn.After(cycleEnd) {
			count++
		}
	}
	return count
}

// unitEligible is a case-sensitive exact-match membership test.
func unitEligible(unit string, eligible []string) bool {
	for _, u := range eligible {
		if u == unit {
			return true
		}
	}
	return false
}

func progressPercentage(count, threshold int) float64 {
	if threshold <= 0 {
		return 0
	}
	pct := float64(count) / float64(threshold) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

func remaining(count, threshold int) int {
	if r := threshold - count; r > 0 {
		return r
	}
	return 0
}
