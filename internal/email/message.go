// Package email renders notification messages shared by the senders.
package email

import (
	"fmt"
	"html"
	"strings"

	"adframes/internal/domain"
)

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// CommitSummaryMessage renders the notice sent when a bulk commit finishes.
func CommitSummaryMessage(s *domain.CommitSummary, frontendURL string) Message {
	p := s.Progress
	subject := fmt.Sprintf("Upload %s: %d of %d frames saved", s.FileName, p.Succeeded, p.Total)
	if s.State == domain.SessionPartiallyFailed {
		subject = fmt.Sprintf("Upload %s finished with %d failures", s.FileName, p.Failed)
	}
	statusURL := fmt.Sprintf("%s/inventory/uploads/%s", strings.TrimRight(frontendURL, "/"), s.SessionID)

	var text strings.Builder
	fmt.Fprintf(&text, "Your upload %s has finished.\n\nSaved: %d\nFailed: %d\nTotal: %d\n", s.FileName, p.Succeeded, p.Failed, p.Total)
	for _, f := range s.Failures {
		fmt.Fprintf(&text, "  row %d (%s): %s\n", f.Row, f.Identifier, f.Message)
	}
	if s.ReportURL != "" {
		fmt.Fprintf(&text, "\nError report: %s\n", s.ReportURL)
	}
	fmt.Fprintf(&text, "\nDetails: %s\n\nAdFrames Team", statusURL)

	var rows strings.Builder
	for _, f := range s.Failures {
		fmt.Fprintf(&rows, "<tr><td>%d</td><td>%s</td><td>%s</td></tr>", f.Row, html.EscapeString(f.Identifier), html.EscapeString(f.Message))
	}
	report := ""
	if s.ReportURL != "" {
		report = fmt.Sprintf(`<p><a href="%s">Download the error report</a></p>`, html.EscapeString(s.ReportURL))
	}
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Upload finished</h2>
  <p>%s: <strong>%d</strong> saved, <strong>%d</strong> failed, %d total.</p>
  <table style="border-collapse: collapse; font-size: 13px;">%s</table>
  %s
  <p><a href="%s">View upload</a></p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">AdFrames - Inventory Management</p>
</body>
</html>`, html.EscapeString(s.FileName), p.Succeeded, p.Failed, p.Total, rows.String(), report, statusURL)

	return Message{Subject: subject, Text: text.String(), HTML: body}
}
