// internal/service/reward/lifecycle.go
package reward

import (
	"time"

	"kilofit-service/internal/domain/reward"
)

// State is the per-subscription reward lifecycle state presented to the
// dashboard.
type State string

const (
	// StateNotCalculated is the initial state: no reward record and no
	// local evaluation yet.
	StateNotCalculated State = "not_calculated"
	// StateNotEligible records a failed eligibility check. Not terminal:
	// the check may be retried once more attendance accrues.
	StateNotEligible State = "not_eligible"
	// StateCalculated means a usable pending reward exists server-side.
	StateCalculated State = "calculated"
	// StateApplied means the cycle's reward was consumed by a renewal.
	// Terminal: recalculation is permanently disallowed.
	StateApplied State = "applied"
)

// Derivation carries the derived state plus whichever record or evaluation
// produced it.
type Derivation struct {
	State           State          `json:"state"`
	Reward          *reward.Reward `json:"reward,omitempty"`
	AttendanceCount int            `json:"attendance_count,omitempty"`
	Recalculable    bool           `json:"recalculable"`
}

// DeriveState reduces the rewards fetched for one subscription, plus the
// last local evaluation if any, into a single lifecycle state.
//
// Precedence: a usable pending reward wins, then an applied reward, then a
// local eligible=false evaluation, then the initial state. An applied reward
// outranks everything a fresh evaluation might say: it is immutable evidence
// of a discount already granted.
func DeriveState(rewards []reward.Reward, lastLocal *Evaluation, now time.Time) Derivation {
	var applied *reward.Reward
	for i := range rewards {
		rw := &rewards[i]
		if rw.Usable(now) {
			return Derivation{State: StateCalculated, Reward: rw, AttendanceCount: rw.AttendanceCount}
		}
		if rw.Status == reward.RewardStatusApplied && applied == nil {
			applied = rw
		}
	}

	if applied != nil {
		return Derivation{State: StateApplied, Reward: applied, AttendanceCount: applied.AttendanceCount}
	}

	if lastLocal != nil && lastLocal.Outcome == OutcomeNotEligible {
		return Derivation{
			State:           StateNotEligible,
			AttendanceCount: lastLocal.AttendanceCount,
			Recalculable:    true,
		}
	}

	return Derivation{State: StateNotCalculated, Recalculable: true}
}
