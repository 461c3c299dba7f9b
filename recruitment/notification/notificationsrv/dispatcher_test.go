package notificationsrv

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/iam/auth"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/pkg/mailx"
	"github.com/youssef9656/server/recruitment/candidacy"
	"github.com/youssef9656/server/recruitment/candidacy/candidacyinfra"
	"github.com/youssef9656/server/recruitment/contact"
	"github.com/youssef9656/server/recruitment/notification"
	"github.com/youssef9656/server/recruitment/notification/notificationinfra"
)

type sentMail struct {
	to, subject, html string
}

type fakeSender struct {
	mu   sync.Mutex
	fail error
	sent []sentMail
}

func (s *fakeSender) Send(ctx context.Context, to, subject, html string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, sentMail{to, subject, html})
	return nil
}

var _ mailx.Sender = (*fakeSender)(nil)

func seedCandidacy(t *testing.T, repo candidacy.Repository, emailsSent int) *candidacy.Candidacy {
	t.Helper()
	c := &candidacy.Candidacy{
		ID:          kernel.NewCandidacyID(kernel.NewID()),
		LastName:    "Saidi",
		FirstName:   "Amine",
		Email:       kernel.NewEmail("amine@example.com"),
		Phone:       "0600000000",
		BirthDate:   "1990-04-12",
		Nationality: "Marocaine",
		Degrees:     "Master",
		Experience:  "5 ans",
		Status:      candidacy.StatusAccepted,
		CreatedAt:   time.Now().Add(-time.Hour),
		EmailsSent:  emailsSent,
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return c
}

func newDispatcher(sender mailx.Sender, repo candidacy.Repository, queue notification.JobQueue) *Dispatcher {
	return NewDispatcher(sender, repo, queue, Config{
		OpsMailbox: "ops@example.com",
		PublicURL:  "https://recrutement.example.com/",
		Links:      auth.NewJWTService("test-secret", time.Hour, 24*time.Hour, "test"),
	})
}

// countFailingRepo loses the counter update after delivery
type countFailingRepo struct {
	candidacy.Repository
}

func (r countFailingRepo) IncrementEmailCount(ctx context.Context, email kernel.Email, message string, at time.Time) error {
	return candidacy.ErrNotFound().WithDetail("email", email)
}

func TestSendRendersAndCountsEmail(t *testing.T) {
	repo := candidacyinfra.NewMemoryCandidacyRepository()
	c := seedCandidacy(t, repo, 2)
	sender := &fakeSender{}
	d := newDispatcher(sender, repo, notificationinfra.NewMemoryQueue(1))

	before := time.Now()
	res, err := d.Send(context.Background(), c.Email, "Hello {{prenom}} {{nom}}, status: {{statut}} {{foo}}", c)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := "Hello Amine Saidi, status: Accepté {{foo}}"
	if res.FormattedMessage != want {
		t.Errorf("formatted = %q, want %q", res.FormattedMessage, want)
	}
	if !res.Success || res.CandidateName != "Amine Saidi" || res.CandidateEmail != "amine@example.com" {
		t.Errorf("unexpected result %+v", res)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	if sender.sent[0].subject != notification.CandidateSubject {
		t.Errorf("subject = %q", sender.sent[0].subject)
	}
	if !strings.Contains(sender.sent[0].html, want) {
		t.Errorf("html does not carry the rendered message: %s", sender.sent[0].html)
	}

	stored, _ := repo.GetByID(context.Background(), c.ID)
	if stored.EmailsSent != 3 {
		t.Errorf("emailsEnvoyes = %d, want 3", stored.EmailsSent)
	}
	if stored.LastEmailAt == nil || stored.LastEmailAt.Before(before) {
		t.Errorf("dernierEmailEnvoye = %v, want >= %v", stored.LastEmailAt, before)
	}
	if stored.LastMessage == nil || *stored.LastMessage != want {
		t.Errorf("dernierMessageEnvoye = %v", stored.LastMessage)
	}
}

func TestSendFailureLeavesCounter(t *testing.T) {
	repo := candidacyinfra.NewMemoryCandidacyRepository()
	c := seedCandidacy(t, repo, 4)
	d := newDispatcher(&fakeSender{fail: errors.New("smtp down")}, repo, notificationinfra.NewMemoryQueue(1))

	_, err := d.Send(context.Background(), c.Email, "Bonjour", c)
	if !errx.IsCode(err, notification.CodeDispatchFailed) {
		t.Fatalf("err = %v, want DISPATCH_FAILED", err)
	}

	stored, _ := repo.GetByID(context.Background(), c.ID)
	if stored.EmailsSent != 4 || stored.LastEmailAt != nil {
		t.Errorf("counter changed after failure: %d %v", stored.EmailsSent, stored.LastEmailAt)
	}
}

func TestSendSucceedsWhenCounterUpdateFails(t *testing.T) {
	repo := candidacyinfra.NewMemoryCandidacyRepository()
	c := seedCandidacy(t, repo, 1)
	sender := &fakeSender{}
	d := newDispatcher(sender, countFailingRepo{repo}, notificationinfra.NewMemoryQueue(1))

	res, err := d.Send(context.Background(), c.Email, "Bonjour {{prenom}}", c)
	if err != nil {
		t.Fatalf("delivered email must not fail the request: %v", err)
	}
	if !res.Success || len(res.Warnings) != 1 || res.Warnings[0] != notification.WarnCounterNotUpdated {
		t.Errorf("unexpected result %+v", res)
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent %d emails, want 1", len(sender.sent))
	}

	again, err := d.Send(context.Background(), c.Email, "Bonjour", c)
	if err != nil {
		t.Fatal(err)
	}
	if again.Warnings == nil {
		t.Errorf("counter failure must be reported on every send")
	}
}

func TestSendToCandidate(t *testing.T) {
	repo := candidacyinfra.NewMemoryCandidacyRepository()
	seedCandidacy(t, repo, 0)
	d := newDispatcher(&fakeSender{}, repo, notificationinfra.NewMemoryQueue(1))

	tests := []struct {
		name    string
		message string
		email   string
		code    errx.Code
	}{
		{"missing message", "  ", "amine@example.com", notification.CodeMissingMessage},
		{"missing email", "Bonjour", "", notification.CodeMissingMessage},
		{"unknown candidate", "Bonjour", "nobody@example.com", candidacy.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req notification.SendMessageRequest
			req.Message = tt.message
			req.CandidacyData.Email = tt.email
			_, err := d.SendToCandidate(context.Background(), req)
			if !errx.IsCode(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	var req notification.SendMessageRequest
	req.Message = "Bonjour {{prenom}}"
	req.CandidacyData.Email = " Amine@Example.com "
	res, err := d.SendToCandidate(context.Background(), req)
	if err != nil {
		t.Fatalf("SendToCandidate: %v", err)
	}
	if res.FormattedMessage != "Bonjour Amine" {
		t.Errorf("formatted = %q", res.FormattedMessage)
	}
}

func TestOpsNoticesAreQueued(t *testing.T) {
	repo := candidacyinfra.NewMemoryCandidacyRepository()
	c := seedCandidacy(t, repo, 0)
	c.FileName = "cv_1700000000000_cv.pdf"
	c.OriginalName = "cv.pdf"

	sender := &fakeSender{}
	queue := notificationinfra.NewMemoryQueue(4)
	d := newDispatcher(sender, repo, queue)

	d.NotifyNewCandidacy(context.Background(), c)
	d.NotifyNewContact(context.Background(), &contact.Message{
		FullName: "Sara",
		Email:    kernel.NewEmail("sara@example.com"),
		Subject:  "Partenariat",
		Body:     "Bonjour",
	})

	if len(sender.sent) != 0 {
		t.Fatalf("ops notices must not be sent inline")
	}
	if queue.Len() != 2 {
		t.Fatalf("queued %d jobs, want 2", queue.Len())
	}

	job, _ := queue.Dequeue(context.Background(), time.Second)
	if job.To != "ops@example.com" || job.Subject != notification.NewCandidacySubject {
		t.Errorf("unexpected job %+v", job)
	}
	link := d.ResumeURL(c.FileName)
	if !strings.HasPrefix(link, "https://recrutement.example.com/api/cv/cv_1700000000000_cv.pdf?token=") {
		t.Errorf("unsigned resume link %q", link)
	}
	if !strings.Contains(job.HTML, `href="https://recrutement.example.com/api/cv/cv_1700000000000_cv.pdf?token=`) {
		t.Errorf("notice does not link the resume: %s", job.HTML)
	}

	job, _ = queue.Dequeue(context.Background(), time.Second)
	if job.Subject != "Contact : Partenariat" {
		t.Errorf("subject = %q", job.Subject)
	}
}

func TestResumeURLNeedsSignerAndPublicURL(t *testing.T) {
	repo := candidacyinfra.NewMemoryCandidacyRepository()
	queue := notificationinfra.NewMemoryQueue(1)

	unsigned := NewDispatcher(&fakeSender{}, repo, queue, Config{PublicURL: "https://recrutement.example.com"})
	if got := unsigned.ResumeURL("cv_1_cv.pdf"); got != "" {
		t.Errorf("without a signer the link must be omitted, got %q", got)
	}

	d := newDispatcher(&fakeSender{}, repo, queue)
	if got := d.ResumeURL(""); got != "" {
		t.Errorf("empty file name must give no link, got %q", got)
	}
	if got := d.ResumeURL("cv_1_mon cv.pdf"); !strings.HasPrefix(got, "https://recrutement.example.com/api/cv/cv_1_mon%20cv.pdf?token=") {
		t.Errorf("file name not escaped: %q", got)
	}
}

func TestReplyAndForward(t *testing.T) {
	sender := &fakeSender{}
	d := newDispatcher(sender, candidacyinfra.NewMemoryCandidacyRepository(), notificationinfra.NewMemoryQueue(1))

	if err := d.SendReply(context.Background(), kernel.NewEmail("sara@example.com"), "Partenariat", "Merci\nA bientôt"); err != nil {
		t.Fatalf("SendReply: %v", err)
	}
	if err := d.ForwardToOps(context.Background(), kernel.NewEmail("sara@example.com"), "Bonjour"); err != nil {
		t.Fatalf("ForwardToOps: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d, want 2", len(sender.sent))
	}
	if sender.sent[0].subject != "Réponse à votre message : Partenariat" || !strings.Contains(sender.sent[0].html, "Merci<br>A bientôt") {
		t.Errorf("unexpected reply %+v", sender.sent[0])
	}
	if sender.sent[1].to != "ops@example.com" || sender.sent[1].subject != notification.ForwardSubject {
		t.Errorf("unexpected forward %+v", sender.sent[1])
	}

	sender.fail = errors.New("boom")
	err := d.SendReply(context.Background(), kernel.NewEmail("sara@example.com"), "", "x")
	if !errx.IsCode(err, notification.CodeDispatchFailed) {
		t.Errorf("err = %v, want DISPATCH_FAILED", err)
	}
}
