package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"github.com/Dee-Olulo/House-hunting-platform/internal/domain"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

var (
	approvedTmpl = template.Must(template.New("approved").Parse(
		`<p>Good news! Your property <strong>{{.Title}}</strong> has been approved and is now visible to tenants.</p>
{{if .Notes}}<p>Notes from our team: {{.Notes}}</p>{{end}}`))

	rejectedTmpl = template.Must(template.New("rejected").Parse(
		`<p>Your property <strong>{{.Title}}</strong> was not approved.</p>
<p>Reason: {{.Reason}}</p>
{{if .Issues}}<ul>{{range .Issues}}<li>{{.}}</li>{{end}}</ul>{{end}}
<p>Please fix the issues above and resubmit.</p>`))

	flaggedTmpl = template.Must(template.New("flagged").Parse(
		`<p>Property <strong>{{.Title}}</strong> ({{.ID}}) needs manual review.</p>
<p>Score: {{.Score}}</p>
{{if .Issues}}<ul>{{range .Issues}}<li>{{.}}</li>{{end}}</ul>{{end}}`))
)

// SMTPNotifier emails moderation outcomes to landlords and the admin inbox.
type SMTPNotifier struct {
	sender     Sender
	adminEmail string
	logger     *logger.Logger
}

// NewSMTPNotifier builds a notifier. An empty adminEmail disables flagged-listing alerts.
func NewSMTPNotifier(sender Sender, adminEmail string, log *logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, adminEmail: adminEmail, logger: log.Named("SMTPNotifier")}
}

func (n *SMTPNotifier) NotifyLandlordApproved(ctx context.Context, p *domain.Property) error {
	if p.LandlordEmail == "" {
		n.logger.Debug("No landlord email on property, skipping approval notice", zap.String("property_id", p.ID.Hex()))
		return nil
	}
	body, err := render(approvedTmpl, map[string]interface{}{"Title": p.Title, "Notes": p.ModerationNotes})
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Your property %q has been approved and is now visible to tenants.", p.Title)
	return n.sender.Send(ctx, []string{p.LandlordEmail}, "Your property has been approved", body, text)
}

func (n *SMTPNotifier) NotifyLandlordRejected(ctx context.Context, p *domain.Property, reason string) error {
	if p.LandlordEmail == "" {
		n.logger.Debug("No landlord email on property, skipping rejection notice", zap.String("property_id", p.ID.Hex()))
		return nil
	}
	body, err := render(rejectedTmpl, map[string]interface{}{"Title": p.Title, "Reason": reason, "Issues": p.ModerationIssues})
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Your property %q was not approved. Reason: %s", p.Title, reason)
	if len(p.ModerationIssues) > 0 {
		text += "\nIssues:\n- " + strings.Join(p.ModerationIssues, "\n- ")
	}
	return n.sender.Send(ctx, []string{p.LandlordEmail}, "Your property needs changes", body, text)
}

func (n *SMTPNotifier) NotifyAdminFlagged(ctx context.Context, p *domain.Property) error {
	if n.adminEmail == "" {
		return nil
	}
	body, err := render(flaggedTmpl, map[string]interface{}{
		"Title": p.Title, "ID": p.ID.Hex(), "Score": p.ModerationScore, "Issues": p.ModerationIssues,
	})
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Property %q (%s) needs manual review. Score: %d", p.Title, p.ID.Hex(), p.ModerationScore)
	return n.sender.Send(ctx, []string{n.adminEmail}, "Property flagged for review", body, text)
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// NopNotifier is used when SMTP is not configured.
type NopNotifier struct{}

func (NopNotifier) NotifyLandlordApproved(context.Context, *domain.Property) error         { return nil }
func (NopNotifier) NotifyLandlordRejected(context.Context, *domain.Property, string) error { return nil }
func (NopNotifier) NotifyAdminFlagged(context.Context, *domain.Property) error             { return nil }
