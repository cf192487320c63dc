// internal/service/reward/lifecycle_test.go
package reward

import (
	"testing"
	"time"

	"kilofit-service/internal/domain/reward"
)

func TestDeriveStateAppliedIsTerminal(t *testing.T) {
	now := time.Now()
	rewards := []reward.Reward{
		{ID: 1, Status: reward.RewardStatusApplied, AttendanceCount: 14},
	}

	// A fresh eligible evaluation must not override an applied record: the
	// discount was already granted.
	local := &Evaluation{Outcome: OutcomeEligible, AttendanceCount: 20}

	d := DeriveState(rewards, local, now)
	if d.State != StateApplied {
		t.Fatalf("state = %q, want %q", d.State, StateApplied)
	}
	if d.Recalculable {
		t.Error("applied state must not be recalculable")
	}
	if d.Reward == nil || d.Reward.ID != 1 {
		t.Error("derivation should carry the applied reward record")
	}
}

func TestDeriveStateUsablePendingWins(t *testing.T) {
	now := time.Now()
	rewards := []reward.Reward{
		{ID: 2, Status: reward.RewardStatusExpired, ExpiresAt: now.AddDate(0, 0, -10)},
		{ID: 3, Status: reward.RewardStatusPending, ExpiresAt: now.AddDate(0, 0, 10), AttendanceCount: 13},
	}

	d := DeriveState(rewards, nil, now)
	if d.State != StateCalculated {
		t.Fatalf("state = %q, want %q", d.State, StateCalculated)
	}
	if d.Reward == nil || d.Reward.ID != 3 {
		t.Error("derivation should carry the usable pending reward")
	}
}

func TestDeriveStateExpiredPendingIsRecalculable(t *testing.T) {
	now := time.Now()
	rewards := []reward.Reward{
		{ID: 4, Status: reward.RewardStatusPending, ExpiresAt: now.AddDate(0, 0, -1)},
	}

	d := DeriveState(rewards, nil, now)
	if d.State != StateNotCalculated {
		t.Fatalf("state = %q, want %q", d.State, StateNotCalculated)
	}
	if !d.Recalculable {
		t.Error("an expired pending reward must leave the cycle recalculable")
	}
}

func TestDeriveStateLocalNotEligible(t *testing.T) {
	local := &Evaluation{Outcome: OutcomeNotEligible, AttendanceCount: 7}

	d := DeriveState(nil, local, time.Now())
	if d.State != StateNotEligible {
		t.Fatalf("state = %q, want %q", d.State, StateNotEligible)
	}
	if !d.Recalculable {
		t.Error("not-eligible must stay retryable as attendance accrues")
	}
	if d.AttendanceCount != 7 {
		t.Errorf("attendance count = %d, want 7", d.AttendanceCount)
	}
}

func TestDeriveStateInitial(t *testing.T) {
	d := DeriveState(nil, nil, time.Now())
	if d.State != StateNotCalculated {
		t.Fatalf("state = %q, want %q", d.State, StateNotCalculated)
	}
	if !d.Recalculable {
		t.Error("initial state must be recalculable")
	}
}
