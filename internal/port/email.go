package port

import (
	"context"

	"adframes/internal/domain"
)

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendCommitSummary(ctx context.Context, toEmail string, summary *domain.CommitSummary) error
}
