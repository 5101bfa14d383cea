// Package domain provides core business rules for the chats bounded context:
// the lifecycle stage enumeration, evidence extraction, stage resolution and
// the monotonic reconciliation rule.
package domain

// Stage is a position in the fixed, ordered conversation lifecycle.
// A higher rank always means a more advanced lifecycle position, never
// merely "more recently observed".
type Stage string

const (
	StageTalking          Stage = "Talking"
	StageAwaitingData     Stage = "AwaitingData"
	StageAwaitingContract Stage = "AwaitingContract"
	StageContractSigned   Stage = "ContractSigned"
	StageAwaitingPayment  Stage = "AwaitingPayment"
	StagePaid             Stage = "Paid"
	StageDataCollection   Stage = "DataCollection"
	StageCampaignLaunched Stage = "CampaignLaunched"
	StageReportAwaiting   Stage = "ReportAwaiting"
	StageFinished         Stage = "Finished"
)

// AnchorStage is the stage whose updated_at timestamp drives elapsed-time
// reminders ("days since the SoW was signed").
const AnchorStage = StageContractSigned

// stageOrder fixes the precedence ranking. Index = rank.
var stageOrder = []Stage{
	StageTalking,
	StageAwaitingData,
	StageAwaitingContract,
	StageContractSigned,
	StageAwaitingPayment,
	StagePaid,
	StageDataCollection,
	StageCampaignLaunched,
	StageReportAwaiting,
	StageFinished,
}

var stageRanks = func() map[Stage]int {
	ranks := make(map[Stage]int, len(stageOrder))
	for i, s := range stageOrder {
		ranks[s] = i
	}
	return ranks
}()

// Stages returns the full enumeration in rank order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// Rank returns the stage's position in the lifecycle ordering, or -1 for an
// unknown label.
func (s Stage) Rank() int {
	rank, ok := stageRanks[s]
	if !ok {
		return -1
	}
	return rank
}

// MoreAdvancedThan reports whether s is strictly further along than other.
func (s Stage) MoreAdvancedThan(other Stage) bool {
	return s.Rank() > other.Rank()
}

// IsKnownStage reports whether the label is part of the enumeration.
func IsKnownStage(label string) bool {
	_, ok := stageRanks[Stage(label)]
	return ok
}

// ParseStage maps a label to a Stage, reporting whether it is known.
// Untrusted input (manual overrides, refiner output) must go through here.
func ParseStage(label string) (Stage, bool) {
	s := Stage(label)
	_, ok := stageRanks[s]
	return s, ok
}
