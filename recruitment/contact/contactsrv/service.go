package contactsrv

import (
	"context"
	"strings"
	"time"

	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/pkg/logx"
	"github.com/youssef9656/server/recruitment/contact"
)

type Service struct {
	repo     contact.Repository
	notifier contact.Notifier
	now      func() time.Time
}

func NewService(repo contact.Repository, notifier contact.Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create stores a contact form submission and queues a notice for the ops mailbox
func (s *Service) Create(ctx context.Context, req contact.CreateRequest) (*contact.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m := &contact.Message{
		ID:        kernel.ContactID(kernel.NewID()),
		FullName:  req.FullName,
		Email:     kernel.NewEmail(req.Email),
		Phone:     req.Phone,
		Subject:   req.Subject,
		Body:      req.Message,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.notifier.NotifyNewContact(ctx, m)
	return m, nil
}

func (s *Service) List(ctx context.Context) ([]contact.Message, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id kernel.ContactID, fields contact.UpdateFields) (*contact.Message, error) {
	if !id.IsValid() {
		return nil, contact.ErrInvalidID().WithDetail("id", id)
	}
	if fields.IsEmpty() {
		return nil, contact.ErrInvalidRequest().WithDetail("reason", "no field to update")
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, fields, s.now()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Reply mails an answer and, when the request names a stored message,
// marks that message as replied.
func (s *Service) Reply(ctx context.Context, req contact.ReplyRequest) error {
	to := kernel.NewEmail(req.Email)
	body := strings.TrimSpace(req.Reply)
	if to.IsEmpty() {
		return contact.ErrMissingField("email")
	}
	if body == "" {
		return contact.ErrMissingField("replyMessage")
	}
	if !to.IsValid() {
		return contact.ErrInvalidEmail()
	}

	if !req.ContactID.IsEmpty() {
		if !req.ContactID.IsValid() {
			return contact.ErrInvalidID().WithDetail("id", req.ContactID)
		}
		if _, err := s.repo.GetByID(ctx, req.ContactID); err != nil {
			return err
		}
	}

	if err := s.notifier.SendReply(ctx, to, req.Subject, body); err != nil {
		return err
	}

	if req.ContactID.IsEmpty() {
		return nil
	}
	if err := s.repo.SetStatus(ctx, req.ContactID, contact.StatusReplied); err != nil {
		logx.WithFields(logx.Fields{"contact_id": req.ContactID}).Errorf("reply sent but status not updated: %v", err)
		return err
	}
	return nil
}

// Forward relays a message from the site to the ops mailbox without storing it
func (s *Service) Forward(ctx context.Context, req contact.ForwardRequest) error {
	from := kernel.NewEmail(req.Email)
	body := strings.TrimSpace(req.Message)
	if from.IsEmpty() {
		return contact.ErrMissingField("email")
	}
	if body == "" {
		return contact.ErrMissingField("message")
	}
	if !from.IsValid() {
		return contact.ErrInvalidEmail()
	}
	return s.notifier.ForwardToOps(ctx, from, body)
}
