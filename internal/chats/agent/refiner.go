package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trbe_ops_backend/internal/chats/domain"
	"trbe_ops_backend/platform/logger"
)

const (
	// refinerSnippetLimit bounds how many message snippets feed the prompt.
	refinerSnippetLimit = 160
	// refinerSnippetMax bounds the length of each snippet.
	refinerSnippetMax = 300
	// defaultRefineTimeout caps the external call when no timeout is configured.
	defaultRefineTimeout = 12 * time.Second
)

// Refiner may adjust a rule-based stage candidate using a constrained
// completion. It is strictly contained: unknown labels are discarded, money
// labels are re-verified against the same gates as the resolver, and every
// failure mode falls back to the original candidate.
type Refiner struct {
	completer Completer
	timeout   time.Duration
	log       *logger.Logger
}

// NewRefiner builds a refiner. A nil completer yields a refiner that always
// returns the candidate unchanged.
func NewRefiner(completer Completer, timeout time.Duration, log *logger.Logger) *Refiner {
	if timeout <= 0 {
		timeout = defaultRefineTimeout
	}
	return &Refiner{completer: completer, timeout: timeout, log: log}
}

// Refine returns the refined stage, or the candidate when refinement is
// unavailable, fails, times out, or proposes a label the gates reject.
func (r *Refiner) Refine(ctx context.Context, candidate domain.Stage, evidence domain.EvidenceSet, messages []domain.Message) domain.Stage {
	if r == nil || r.completer == nil || len(messages) == 0 {
		return candidate
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.completer.Complete(ctx, buildRefinePrompt(messages))
	if err != nil {
		if r.log != nil {
			r.log.Debug("stage refinement unavailable", "error", err)
		}
		return candidate
	}

	proposed, ok := domain.ParseStage(strings.TrimSpace(raw))
	if !ok {
		if r.log != nil {
			r.log.Debug("stage refinement discarded", "raw", raw)
		}
		return candidate
	}

	if !domain.MoneyStageAllowed(proposed, evidence) {
		if r.log != nil {
			r.log.Debug("stage refinement blocked by money gate", "proposed", string(proposed))
		}
		return candidate
	}

	return proposed
}

func buildRefinePrompt(messages []domain.Message) string {
	labels := make([]string, 0, len(domain.Stages()))
	for _, s := range domain.Stages() {
		labels = append(labels, string(s))
	}

	var b strings.Builder
	b.WriteString("You are an ops assistant. From the chat snippets, choose ONE status label ONLY\n")
	b.WriteString("from this exact set (respond with just the label string):\n")
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString("\n\nDefinitions:\n")
	b.WriteString("- Talking: general discussion, not yet gathering detailed inputs.\n")
	b.WriteString("- AwaitingData: asked client to provide answers/brief/criteria; waiting for their data.\n")
	b.WriteString("- AwaitingContract: asked them to review/sign the SoW/contract; pending signature.\n")
	b.WriteString("- ContractSigned: explicit confirmation the SoW/contract is signed.\n")
	b.WriteString("- AwaitingPayment: invoice/payment requested or pending, but not yet paid.\n")
	b.WriteString("- Paid: explicit confirmation of payment received.\n")
	b.WriteString("- DataCollection: selecting KOLs, assets/visuals, creatives; pre-launch execution.\n")
	b.WriteString("- CampaignLaunched: content/posts are live or the campaign has launched.\n")
	b.WriteString("- ReportAwaiting: campaign complete or near-complete; report requested/pending.\n")
	b.WriteString("- Finished: final report delivered/close-out.\n")
	b.WriteString("\nSnippets (latest first):\n")

	count := 0
	for _, msg := range messages {
		if count >= refinerSnippetLimit {
			break
		}
		text := strings.Join(strings.Fields(msg.Text), " ")
		if text == "" {
			continue
		}
		if len(text) > refinerSnippetMax {
			text = text[:refinerSnippetMax]
		}
		fmt.Fprintf(&b, "[%s] %s\n", msg.Timestamp.Format(time.RFC3339), ScrubPII(text))
		count++
	}

	return b.String()
}
