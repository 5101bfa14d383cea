package domain

import "time"

// StageRecord is the persisted stage for one conversation. UpdatedAt only
// moves when the stage advances (or on first creation), anchoring
// "days in stage" computations for the reminder consumer.
type StageRecord struct {
	ChatID    int64
	Stage     Stage
	UpdatedAt time.Time
}

// Decision is the reconciliation outcome. Advanced reports whether the
// record must be written; when false the stored record is returned as-is.
type Decision struct {
	Stage     Stage
	UpdatedAt time.Time
	Advanced  bool
}

// Reconcile merges a freshly resolved candidate with the previously
// persisted record under the monotonic rule: the stored stage never
// regresses through automatic evaluation. Backward moves are rejected
// outright; the manual-override pathway is the only sanctioned way to set
// an earlier stage.
//
// Timestamp policy: UpdatedAt is stamped on every forward advance (and on
// first creation), so elapsed-in-stage queries work for any stage, with
// ContractSigned as the anchor the reminder job cares about.
func Reconcile(previous *StageRecord, candidate Stage, now time.Time) Decision {
	if previous == nil {
		return Decision{Stage: candidate, UpdatedAt: now, Advanced: true}
	}

	if candidate.MoreAdvancedThan(previous.Stage) {
		return Decision{Stage: candidate, UpdatedAt: now, Advanced: true}
	}

	return Decision{Stage: previous.Stage, UpdatedAt: previous.UpdatedAt, Advanced: false}
}

// ElapsedDaysInAnchor returns whole days spent in the anchor stage, or nil
// when the record is in any other stage.
func ElapsedDaysInAnchor(record StageRecord, now time.Time) *int {
	if record.Stage != AnchorStage || record.UpdatedAt.IsZero() {
		return nil
	}

	days := int(now.Sub(record.UpdatedAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}
