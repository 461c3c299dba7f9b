package notificationsrv

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/pkg/logx"
	"github.com/youssef9656/server/pkg/mailx"
	"github.com/youssef9656/server/recruitment/candidacy"
	"github.com/youssef9656/server/recruitment/contact"
	"github.com/youssef9656/server/recruitment/notification"
)

// Dispatcher renders and sends every outgoing email. Candidate messages and
// replies go out synchronously; ops mailbox notices are queued.
type Dispatcher struct {
	sender      mailx.Sender
	candidacies candidacy.Repository
	queue       notification.JobQueue
	templates   map[string]notification.Template
	opsMailbox  string
	publicURL   string
	links       ResumeLinkSigner
	now         func() time.Time
}

// ResumeLinkSigner issues the token that lets an ops notice link open a
// résumé without a bearer header.
type ResumeLinkSigner interface {
	GenerateResumeToken(name string) (string, error)
}

type Config struct {
	OpsMailbox string
	PublicURL  string
	Templates  map[string]notification.Template
	Links      ResumeLinkSigner
}

func NewDispatcher(sender mailx.Sender, candidacies candidacy.Repository, queue notification.JobQueue, cfg Config) *Dispatcher {
	templates := cfg.Templates
	if templates == nil {
		templates = notification.DefaultTemplates()
	}
	return &Dispatcher{
		sender:      sender,
		candidacies: candidacies,
		queue:       queue,
		templates:   templates,
		opsMailbox:  cfg.OpsMailbox,
		publicURL:   strings.TrimSuffix(cfg.PublicURL, "/"),
		links:       cfg.Links,
		now:         time.Now,
	}
}

func (d *Dispatcher) Templates() map[string]notification.Template {
	return d.templates
}

// Send renders raw for c, mails it to target and records the send on the
// candidacy. The counter is only touched after a successful send; failing to
// update it does not undo the delivery and is reported as a warning.
func (d *Dispatcher) Send(ctx context.Context, target kernel.Email, raw string, c *candidacy.Candidacy) (*notification.SendResult, error) {
	formatted := notification.Render(raw, c)
	html, err := notification.CandidateEnvelope(formatted, c)
	if err != nil {
		return nil, errx.Wrap(err, "failed to build email", errx.TypeInternal)
	}

	if err := d.sender.Send(ctx, target.String(), notification.CandidateSubject, html); err != nil {
		logx.WithFields(logx.Fields{"to": target, "candidacy_id": c.ID}).Errorf("candidate email failed: %v", err)
		return nil, notification.ErrDispatchFailed().WithCause(err)
	}

	result := &notification.SendResult{
		Success:          true,
		Message:          "Message envoyé au candidat avec succès.",
		CandidateEmail:   target.String(),
		CandidateName:    c.FullName(),
		FormattedMessage: formatted,
	}

	if err := d.candidacies.IncrementEmailCount(ctx, target, formatted, d.now()); err != nil {
		logx.WithFields(logx.Fields{"to": target, "candidacy_id": c.ID}).Warnf("email sent but counter not updated: %v", err)
		result.Warnings = append(result.Warnings, notification.WarnCounterNotUpdated)
	}

	logx.WithFields(logx.Fields{"to": target, "candidacy_id": c.ID}).Info("candidate email sent")

	return result, nil
}

// SendToCandidate handles the admin console request: the candidacy is looked
// up by email so the message is rendered from stored data.
func (d *Dispatcher) SendToCandidate(ctx context.Context, req notification.SendMessageRequest) (*notification.SendResult, error) {
	email := kernel.NewEmail(req.CandidacyData.Email)
	if strings.TrimSpace(req.Message) == "" || email.IsEmpty() {
		return nil, notification.ErrMissingMessage()
	}

	c, err := d.candidacies.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, candidacy.ErrNotFound().WithDetail("email", email)
	}
	return d.Send(ctx, c.Email, req.Message, c)
}

// SendReply answers a contact message
func (d *Dispatcher) SendReply(ctx context.Context, to kernel.Email, subject, body string) error {
	html, err := notification.ReplyEnvelope(body)
	if err != nil {
		return errx.Wrap(err, "failed to build email", errx.TypeInternal)
	}
	if err := d.sender.Send(ctx, to.String(), notification.ReplySubject(subject), html); err != nil {
		logx.WithFields(logx.Fields{"to": to}).Errorf("contact reply failed: %v", err)
		return notification.ErrDispatchFailed().WithCause(err)
	}
	return nil
}

// ForwardToOps relays a site message to the ops mailbox right away
func (d *Dispatcher) ForwardToOps(ctx context.Context, from kernel.Email, body string) error {
	html, err := notification.ForwardNotice(from.String(), body)
	if err != nil {
		return errx.Wrap(err, "failed to build email", errx.TypeInternal)
	}
	if err := d.sender.Send(ctx, d.opsMailbox, notification.ForwardSubject, html); err != nil {
		logx.WithFields(logx.Fields{"from": from}).Errorf("forward to ops failed: %v", err)
		return notification.ErrDispatchFailed().WithCause(err)
	}
	return nil
}

func (d *Dispatcher) NotifyNewCandidacy(ctx context.Context, c *candidacy.Candidacy) {
	html, err := notification.NewCandidacyNotice(c, d.ResumeURL(c.FileName))
	if err != nil {
		logx.Errorf("failed to build candidacy notice for %s: %v", c.ID, err)
		return
	}
	d.enqueue(ctx, notification.NewCandidacySubject, html)
}

func (d *Dispatcher) NotifyNewContact(ctx context.Context, m *contact.Message) {
	html, err := notification.NewContactNotice(m)
	if err != nil {
		logx.Errorf("failed to build contact notice for %s: %v", m.ID, err)
		return
	}
	d.enqueue(ctx, notification.ContactSubject(m), html)
}

// ResumeURL is the signed download link put in ops notices, or "" when no
// public URL or signer is configured.
func (d *Dispatcher) ResumeURL(name kernel.FileName) string {
	if d.publicURL == "" || name.IsEmpty() || d.links == nil {
		return ""
	}
	token, err := d.links.GenerateResumeToken(name.String())
	if err != nil {
		logx.Errorf("failed to sign résumé link for %s: %v", name, err)
		return ""
	}
	return d.publicURL + "/api/cv/" + url.PathEscape(name.String()) + "?token=" + url.QueryEscape(token)
}

// enqueue never fails the caller; a lost notice is only logged
func (d *Dispatcher) enqueue(ctx context.Context, subject, html string) {
	if d.opsMailbox == "" {
		logx.Debugf("no ops mailbox configured, dropping notice %q", subject)
		return
	}
	job := &notification.MailJob{
		ID:        kernel.NewID(),
		To:        d.opsMailbox,
		Subject:   subject,
		HTML:      html,
		CreatedAt: d.now(),
	}
	if err := d.queue.Enqueue(context.WithoutCancel(ctx), job); err != nil {
		logx.WithFields(logx.Fields{"job_id": job.ID, "subject": subject}).Errorf("failed to queue ops notice: %v", err)
	}
}
