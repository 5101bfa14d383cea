package domain

import (
	"testing"
	"time"
)

func TestReconcileCreatesInitialRecord(t *testing.T) {
	now := time.Now()

	d := Reconcile(nil, StageAwaitingData, now)
	if !d.Advanced {
		t.Fatal("first evaluation must persist the candidate")
	}
	if d.Stage != StageAwaitingData {
		t.Errorf("expected stage %q, got %q", StageAwaitingData, d.Stage)
	}
	if !d.UpdatedAt.Equal(now) {
		t.Errorf("expected updated_at=now on creation")
	}
}

func TestReconcileNoChangeOnEqualStage(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	prev := &StageRecord{ChatID: 1, Stage: StageContractSigned, UpdatedAt: t0}

	d := Reconcile(prev, StageContractSigned, t0.Add(48*time.Hour))
	if d.Advanced {
		t.Fatal("equal candidate must not advance")
	}
	if !d.UpdatedAt.Equal(t0) {
		t.Error("updated_at must be untouched when the stage does not change")
	}
}

// A stale candidate (irrelevant recent chatter resolving to Talking) must
// never pull a signed conversation backwards.
func TestReconcileRejectsRegression(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	prev := &StageRecord{ChatID: 1, Stage: StageContractSigned, UpdatedAt: t0}

	d := Reconcile(prev, StageTalking, t0.Add(24*time.Hour))
	if d.Advanced {
		t.Fatal("regression must be rejected")
	}
	if d.Stage != StageContractSigned {
		t.Errorf("expected stage to remain %q, got %q", StageContractSigned, d.Stage)
	}
	if !d.UpdatedAt.Equal(t0) {
		t.Error("updated_at must remain at the original advance time")
	}
}

func TestReconcileAdvanceStampsTimestamp(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	now := t0.Add(72 * time.Hour)
	prev := &StageRecord{ChatID: 1, Stage: StageAwaitingData, UpdatedAt: t0}

	d := Reconcile(prev, StageContractSigned, now)
	if !d.Advanced {
		t.Fatal("forward candidate must advance")
	}
	if d.Stage != StageContractSigned {
		t.Errorf("expected %q, got %q", StageContractSigned, d.Stage)
	}
	if !d.UpdatedAt.Equal(now) {
		t.Error("advance must stamp updated_at=now")
	}
}

// Monotonicity: across any candidate sequence the stored rank never
// decreases.
func TestReconcileMonotonicOverSequences(t *testing.T) {
	candidates := []Stage{
		StageTalking,
		StageAwaitingContract,
		StageTalking,
		StagePaid,
		StageContractSigned,
		StageAwaitingData,
		StageFinished,
		StageCampaignLaunched,
	}

	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	var record *StageRecord
	lastRank := -1

	for i, candidate := range candidates {
		now = now.Add(time.Hour)
		d := Reconcile(record, candidate, now)
		record = &StageRecord{ChatID: 1, Stage: d.Stage, UpdatedAt: d.UpdatedAt}

		if record.Stage.Rank() < lastRank {
			t.Fatalf("step %d: stage rank regressed from %d to %d", i, lastRank, record.Stage.Rank())
		}
		lastRank = record.Stage.Rank()
	}

	if record.Stage != StageFinished {
		t.Errorf("expected terminal %q, got %q", StageFinished, record.Stage)
	}
}

func TestElapsedDaysInAnchor(t *testing.T) {
	t0 := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	signed := StageRecord{ChatID: 1, Stage: StageContractSigned, UpdatedAt: t0}
	days := ElapsedDaysInAnchor(signed, t0.Add(3*24*time.Hour+5*time.Hour))
	if days == nil || *days != 3 {
		t.Fatalf("expected 3 elapsed days, got %v", days)
	}

	fresh := ElapsedDaysInAnchor(signed, t0.Add(2*time.Hour))
	if fresh == nil || *fresh != 0 {
		t.Fatalf("expected 0 elapsed days on day one, got %v", fresh)
	}

	other := StageRecord{ChatID: 1, Stage: StagePaid, UpdatedAt: t0}
	if got := ElapsedDaysInAnchor(other, t0.Add(time.Hour)); got != nil {
		t.Fatalf("elapsed days must be nil outside the anchor stage, got %v", got)
	}
}
