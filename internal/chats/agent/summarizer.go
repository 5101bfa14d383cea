package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trbe_ops_backend/internal/chats/domain"
	"trbe_ops_backend/platform/apperr"
	"trbe_ops_backend/platform/logger"
)

const summaryCorpusMax = 9000

// Summarizer produces a short operational summary of a chat's recent
// messages. Unlike refinement this is a user-facing feature, so failures
// surface to the caller instead of degrading silently.
type Summarizer struct {
	completer Completer
	timeout   time.Duration
	log       *logger.Logger
}

// NewSummarizer builds a summarizer. A nil completer means the feature is
// not configured.
func NewSummarizer(completer Completer, timeout time.Duration, log *logger.Logger) *Summarizer {
	if timeout <= 0 {
		timeout = defaultRefineTimeout
	}
	return &Summarizer{completer: completer, timeout: timeout, log: log}
}

// Summarize returns a summary of the messages, newest first.
func (s *Summarizer) Summarize(ctx context.Context, messages []domain.Message) (string, error) {
	if s == nil || s.completer == nil {
		return "", apperr.Unavailable("summaries are not configured")
	}
	if len(messages) == 0 {
		return "No recent messages.", nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.completer.Complete(ctx, buildSummaryPrompt(messages))
	if err != nil {
		if s.log != nil {
			s.log.Warn("chat summary failed", "error", err)
		}
		return "", apperr.Wrap(apperr.KindUnavailable, "summary service unavailable", err)
	}

	return text, nil
}

func buildSummaryPrompt(messages []domain.Message) string {
	var corpus strings.Builder
	for _, msg := range messages {
		text := strings.Join(strings.Fields(msg.Text), " ")
		if text == "" {
			continue
		}
		line := fmt.Sprintf("[%s] %s\n", msg.Timestamp.Format(time.RFC3339), ScrubPII(text))
		if corpus.Len()+len(line) > summaryCorpusMax {
			break
		}
		corpus.WriteString(line)
	}

	var b strings.Builder
	b.WriteString("You are TRBE's ops assistant. English only. Be concise. No PII.\n\n")
	b.WriteString("Summarize the chat below in 120-180 words.\n")
	b.WriteString("- Goals\n- Decisions\n- Blockers\n- Action items (bullet \"Owner -> Task -> Due\")\n- Sentiment (one line)\n")
	b.WriteString("Translate RU to EN if needed.\n\nMessages (latest first):\n")
	b.WriteString(corpus.String())
	return b.String()
}
