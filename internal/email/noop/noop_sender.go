package noop

import (
	"context"
	"log"

	"adframes/internal/domain"
	"adframes/internal/email"
	"adframes/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates a no-op EmailSender that logs messages to stdout.
func NewNoopSender(frontendURL string) port.EmailSender {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendCommitSummary(_ context.Context, toEmail string, summary *domain.CommitSummary) error {
	msg := email.CommitSummaryMessage(summary, s.frontendURL)
	log.Printf("[NOOP EMAIL] Commit summary for %s: %s", toEmail, msg.Subject)
	return nil
}
