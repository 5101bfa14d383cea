package domain

import "testing"

func TestStageOrderingIsFixed(t *testing.T) {
	want := []Stage{
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

	got := Stages()
	if len(got) != len(want) {
		t.Fatalf("expected %d stages, got %d", len(want), len(got))
	}
	for i, s := range want {
		if got[i] != s {
			t.Errorf("rank %d: expected %q, got %q", i, s, got[i])
		}
		if s.Rank() != i {
			t.Errorf("stage %q: expected rank %d, got %d", s, i, s.Rank())
		}
	}
}

func TestMoreAdvancedThan(t *testing.T) {
	if !StagePaid.MoreAdvancedThan(StageContractSigned) {
		t.Error("Paid should be more advanced than ContractSigned")
	}
	if StageTalking.MoreAdvancedThan(StageTalking) {
		t.Error("a stage is not more advanced than itself")
	}
	if StageAwaitingData.MoreAdvancedThan(StageFinished) {
		t.Error("AwaitingData should not be more advanced than Finished")
	}
}

func TestParseStageRejectsUnknownLabels(t *testing.T) {
	for _, label := range []string{"", "talking", "Done", "SoW signed", "Paid "} {
		if _, ok := ParseStage(label); ok {
			t.Errorf("expected %q to be rejected", label)
		}
	}

	for _, s := range Stages() {
		parsed, ok := ParseStage(string(s))
		if !ok || parsed != s {
			t.Errorf("expected %q to round-trip, got %q ok=%v", s, parsed, ok)
		}
	}
}

func TestUnknownStageRank(t *testing.T) {
	if Stage("Bogus").Rank() != -1 {
		t.Error("unknown stage must rank -1")
	}
}
