package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trbe_ops_backend/internal/chats/domain"
)

type stubCompleter struct {
	response string
	err      error
	prompt   string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func testMessages() []domain.Message {
	return []domain.Message{
		{Text: "let's discuss the campaign", Timestamp: time.Now(), AuthorRole: domain.RoleExternal},
	}
}

func TestRefineAcceptsValidLabel(t *testing.T) {
	stub := &stubCompleter{response: "AwaitingContract"}
	r := NewRefiner(stub, time.Second, nil)

	got := r.Refine(context.Background(), domain.StageTalking, domain.EvidenceSet{}, testMessages())
	if got != domain.StageAwaitingContract {
		t.Fatalf("expected refined stage AwaitingContract, got %q", got)
	}
}

func TestRefineDiscardsUnknownLabel(t *testing.T) {
	for _, response := range []string{"Negotiating", "paid", "", "Paid is the answer"} {
		stub := &stubCompleter{response: response}
		r := NewRefiner(stub, time.Second, nil)

		got := r.Refine(context.Background(), domain.StageAwaitingData, domain.EvidenceSet{}, testMessages())
		if got != domain.StageAwaitingData {
			t.Errorf("response %q: expected candidate kept, got %q", response, got)
		}
	}
}

func TestRefineBlocksUngatedMoneyStage(t *testing.T) {
	for _, label := range []string{"Paid", "AwaitingPayment"} {
		stub := &stubCompleter{response: label}
		r := NewRefiner(stub, time.Second, nil)

		// No contract-signed or prepayment evidence: the money gate fails.
		got := r.Refine(context.Background(), domain.StageTalking, domain.EvidenceSet{}, testMessages())
		if got != domain.StageTalking {
			t.Errorf("label %q: expected gate to keep candidate, got %q", label, got)
		}
	}
}

func TestRefineAllowsGatedMoneyStage(t *testing.T) {
	stub := &stubCompleter{response: "Paid"}
	r := NewRefiner(stub, time.Second, nil)

	evidence := domain.EvidenceSet{
		domain.CategoryContractSigned:   {Matched: true, LastMatchedAt: time.Now()},
		domain.CategoryPaymentConfirmed: {Matched: true, LastMatchedAt: time.Now()},
	}

	got := r.Refine(context.Background(), domain.StageAwaitingPayment, evidence, testMessages())
	if got != domain.StagePaid {
		t.Fatalf("expected gated Paid proposal to be accepted, got %q", got)
	}
}

func TestRefineDegradesOnError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("quota exceeded")}
	r := NewRefiner(stub, time.Second, nil)

	got := r.Refine(context.Background(), domain.StageContractSigned, domain.EvidenceSet{}, testMessages())
	if got != domain.StageContractSigned {
		t.Fatalf("expected silent degrade to candidate, got %q", got)
	}
}

func TestRefineWithoutCompleter(t *testing.T) {
	r := NewRefiner(nil, time.Second, nil)
	got := r.Refine(context.Background(), domain.StagePaid, domain.EvidenceSet{}, testMessages())
	if got != domain.StagePaid {
		t.Fatalf("nil completer must return the candidate, got %q", got)
	}
}

func TestRefinePromptIsConstrainedAndScrubbed(t *testing.T) {
	stub := &stubCompleter{response: "Talking"}
	r := NewRefiner(stub, time.Second, nil)

	msgs := []domain.Message{
		{Text: "reach me at ops@example.com or +1 (555) 123-4567", Timestamp: time.Now(), AuthorRole: domain.RoleExternal},
	}
	r.Refine(context.Background(), domain.StageTalking, domain.EvidenceSet{}, msgs)

	if strings.Contains(stub.prompt, "ops@example.com") {
		t.Error("prompt must not contain raw email addresses")
	}
	if !strings.Contains(stub.prompt, "[email]") {
		t.Error("prompt should contain the scrubbed email placeholder")
	}
	for _, s := range domain.Stages() {
		if !strings.Contains(stub.prompt, string(s)) {
			t.Errorf("prompt must enumerate label %q", s)
		}
	}
}

func TestScrubPII(t *testing.T) {
	in := "email a@b.co, call +31 6 1234 5678, see https://example.com/x"
	out := ScrubPII(in)
	for _, leaked := range []string{"a@b.co", "1234", "example.com"} {
		if strings.Contains(out, leaked) {
			t.Errorf("scrubbed text still contains %q: %s", leaked, out)
		}
	}
}
