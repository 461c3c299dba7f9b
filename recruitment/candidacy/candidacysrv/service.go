package candidacysrv

import (
	"context"
	"time"

	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/pkg/logx"
	"github.com/youssef9656/server/recruitment/candidacy"
	"github.com/youssef9656/server/recruitment/resume"
)

type Service struct {
	repo      candidacy.Repository
	files     *resume.Store
	notifier  candidacy.OpsNotifier
	maxUpload int64
	now       func() time.Time
}

func NewService(repo candidacy.Repository, files *resume.Store, notifier candidacy.OpsNotifier, maxUpload int64) *Service {
	return &Service{
		repo:      repo,
		files:     files,
		notifier:  notifier,
		maxUpload: maxUpload,
		now:       time.Now,
	}
}

// Create validates a public submission, stores the résumé and records the
// candidacy. Nothing is written unless every check passes, and the stored
// file is removed again if the insert fails.
func (s *Service) Create(ctx context.Context, form *candidacy.IntakeForm, upload *resume.Upload) (resp *candidacy.CreateResponse, err error) {
	hasFile := upload != nil && upload.FileName != ""
	if hasFile {
		if err := resume.ValidateUpload(upload, s.maxUpload); err != nil {
			return nil, err
		}
	}
	if err := candidacy.ValidateIntake(form); err != nil {
		return nil, err
	}
	if !hasFile {
		return nil, resume.ErrMissingCV().WithDetail("field", resume.FormField)
	}

	email := kernel.NewEmail(form.Email)
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, candidacy.ErrEmailExists()
	}

	att, err := s.files.Attach(ctx, upload)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err == nil {
			return
		}
		if delErr := s.files.Delete(context.WithoutCancel(ctx), att.FileName); delErr != nil {
			logx.WithFields(logx.Fields{"file": att.FileName}).Errorf("failed to remove orphan résumé: %v", delErr)
		}
	}()

	c := &candidacy.Candidacy{
		ID:          kernel.CandidacyID(kernel.NewID()),
		LastName:    form.LastName,
		FirstName:   form.FirstName,
		Email:       email,
		Phone:       form.Phone,
		BirthDate:   form.BirthDate,
		Nationality: form.Nationality,
		Degrees:     form.Degrees,
		Domains:     candidacy.ParseDomains(form.Domains),
		Experience:  form.Experience,
		Attachment:  *att,
		Status:      candidacy.StatusPending,
		CreatedAt:   s.now(),
	}
	if form.CurrentJob != "" {
		job := form.CurrentJob
		c.CurrentJob = &job
	}

	if err = s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{"candidacy_id": c.ID, "email": c.Email}).Info("candidacy created")

	if s.notifier != nil {
		s.notifier.NotifyNewCandidacy(ctx, c)
	}

	return &candidacy.CreateResponse{
		Success:    true,
		Message:    "Candidature enregistrée",
		ID:         c.ID,
		LastName:   c.LastName,
		FirstName:  c.FirstName,
		Email:      c.Email,
		CreatedAt:  c.CreatedAt,
		CVFileName: c.FileName,
	}, nil
}

func (s *Service) List(ctx context.Context, filter candidacy.ListFilter, opts kernel.PaginationOptions) (*kernel.Paginated[candidacy.Candidacy], error) {
	return s.repo.List(ctx, filter, opts.Normalize())
}

func (s *Service) Get(ctx context.Context, id kernel.CandidacyID) (*candidacy.Candidacy, error) {
	if !id.IsValid() {
		return nil, candidacy.ErrInvalidID().WithDetail("id", id)
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus accepts any transition between the known statuses
func (s *Service) UpdateStatus(ctx context.Context, id kernel.CandidacyID, raw string) (*candidacy.UpdateStatusResponse, error) {
	if !id.IsValid() {
		return nil, candidacy.ErrInvalidID().WithDetail("id", id)
	}
	status, err := candidacy.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status, s.now()); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{"candidacy_id": id, "status": status}).Info("candidacy status updated")

	return &candidacy.UpdateStatusResponse{
		Success: true,
		Message: "Statut mis à jour",
		ID:      id,
		Status:  status,
	}, nil
}

// Delete removes the record first; a résumé that cannot be removed is
// reported as a warning.
func (s *Service) Delete(ctx context.Context, id kernel.CandidacyID) (*candidacy.DeleteResponse, error) {
	if !id.IsValid() {
		return nil, candidacy.ErrInvalidID().WithDetail("id", id)
	}
	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &candidacy.DeleteResponse{
		Success: true,
		Message: "Candidature supprimée",
	}
	if err := s.files.Delete(ctx, c.FileName); err != nil {
		logx.WithFields(logx.Fields{"candidacy_id": id, "file": c.FileName}).Warnf("résumé not removed: %v", err)
		resp.Warnings = append(resp.Warnings, "Le fichier CV n'a pas pu être supprimé")
	}
	return resp, nil
}
