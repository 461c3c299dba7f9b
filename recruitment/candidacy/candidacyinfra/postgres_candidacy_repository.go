package candidacyinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/candidacy"
	"github.com/youssef9656/server/recruitment/resume"
)

type PostgresCandidacyRepository struct {
	db *sqlx.DB
}

func NewPostgresCandidacyRepository(db *sqlx.DB) *PostgresCandidacyRepository {
	return &PostgresCandidacyRepository{db: db}
}

type candidacyModel struct {
	ID             string         `db:"id"`
	LastName       string         `db:"last_name"`
	FirstName      string         `db:"first_name"`
	Email          string         `db:"email"`
	Phone          string         `db:"phone"`
	BirthDate      string         `db:"birth_date"`
	Nationality    string         `db:"nationality"`
	Degrees        string         `db:"degrees"`
	CurrentJob     sql.NullString `db:"current_job"`
	Domains        pq.StringArray `db:"domains"`
	Experience     string         `db:"experience"`
	CVFileName     string         `db:"cv_file_name"`
	CVPath         string         `db:"cv_path"`
	CVOriginalName string         `db:"cv_original_name"`
	CVSize         int64          `db:"cv_size"`
	CVMimeType     string         `db:"cv_mime_type"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      sql.NullTime   `db:"updated_at"`
	EmailsSent     int            `db:"emails_sent"`
	LastEmailAt    sql.NullTime   `db:"last_email_at"`
	LastMessage    sql.NullString `db:"last_message"`
}

const candidacyColumns = `id, last_name, first_name, email, phone, birth_date, nationality, degrees,
	current_job, domains, experience, cv_file_name, cv_path, cv_original_name, cv_size,
	cv_mime_type, status, created_at, updated_at, emails_sent, last_email_at, last_message`

func fromEntity(c *candidacy.Candidacy) candidacyModel {
	m := candidacyModel{
		ID:             string(c.ID),
		LastName:       c.LastName,
		FirstName:      c.FirstName,
		Email:          string(c.Email),
		Phone:          c.Phone,
		BirthDate:      c.BirthDate,
		Nationality:    c.Nationality,
		Degrees:        c.Degrees,
		Domains:        pq.StringArray(c.Domains),
		Experience:     c.Experience,
		CVFileName:     string(c.FileName),
		CVPath:         c.Path,
		CVOriginalName: c.OriginalName,
		CVSize:         c.Size,
		CVMimeType:     c.MimeType,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		EmailsSent:     c.EmailsSent,
	}
	if m.Domains == nil {
		m.Domains = pq.StringArray{}
	}
	if c.CurrentJob != nil {
		m.CurrentJob = sql.NullString{String: *c.CurrentJob, Valid: true}
	}
	if c.UpdatedAt != nil {
		m.UpdatedAt = sql.NullTime{Time: *c.UpdatedAt, Valid: true}
	}
	if c.LastEmailAt != nil {
		m.LastEmailAt = sql.NullTime{Time: *c.LastEmailAt, Valid: true}
	}
	if c.LastMessage != nil {
		m.LastMessage = sql.NullString{String: *c.LastMessage, Valid: true}
	}
	return m
}

func (m *candidacyModel) toEntity() *candidacy.Candidacy {
	c := &candidacy.Candidacy{
		ID:          kernel.CandidacyID(m.ID),
		LastName:    m.LastName,
		FirstName:   m.FirstName,
		Email:       kernel.Email(m.Email),
		Phone:       m.Phone,
		BirthDate:   m.BirthDate,
		Nationality: m.Nationality,
		Degrees:     m.Degrees,
		Domains:     []string(m.Domains),
		Experience:  m.Experience,
		Attachment: resume.Attachment{
			FileName:     kernel.FileName(m.CVFileName),
			Path:         m.CVPath,
			OriginalName: m.CVOriginalName,
			Size:         m.CVSize,
			MimeType:     m.CVMimeType,
		},
		Status:     candidacy.Status(m.Status),
		CreatedAt:  m.CreatedAt,
		EmailsSent: m.EmailsSent,
	}
	if c.Domains == nil {
		c.Domains = []string{}
	}
	if m.CurrentJob.Valid {
		c.CurrentJob = &m.CurrentJob.String
	}
	if m.UpdatedAt.Valid {
		c.UpdatedAt = &m.UpdatedAt.Time
	}
	if m.LastEmailAt.Valid {
		c.LastEmailAt = &m.LastEmailAt.Time
	}
	if m.LastMessage.Valid {
		c.LastMessage = &m.LastMessage.String
	}
	return c
}

func (r *PostgresCandidacyRepository) FindByEmail(ctx context.Context, email kernel.Email) (*candidacy.Candidacy, error) {
	var m candidacyModel
	err := r.db.GetContext(ctx, &m, `SELECT `+candidacyColumns+` FROM candidatures WHERE email = $1`, string(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errx.Wrap(err, "failed to look up candidacy by email", errx.TypeInternal)
	}
	return m.toEntity(), nil
}

func (r *PostgresCandidacyRepository) Create(ctx context.Context, c *candidacy.Candidacy) error {
	query := `
		INSERT INTO candidatures (` + candidacyColumns + `)
		VALUES (:id, :last_name, :first_name, :email, :phone, :birth_date, :nationality, :degrees,
			:current_job, :domains, :experience, :cv_file_name, :cv_path, :cv_original_name, :cv_size,
			:cv_mime_type, :status, :created_at, :updated_at, :emails_sent, :last_email_at, :last_message)
	`
	if _, err := r.db.NamedExecContext(ctx, query, fromEntity(c)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return candidacy.ErrEmailExists()
		}
		return errx.Wrap(err, "failed to create candidacy", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresCandidacyRepository) GetByID(ctx context.Context, id kernel.CandidacyID) (*candidacy.Candidacy, error) {
	var m candidacyModel
	err := r.db.GetContext(ctx, &m, `SELECT `+candidacyColumns+` FROM candidatures WHERE id = $1`, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, candidacy.ErrNotFound().WithDetail("id", id)
		}
		return nil, errx.Wrap(err, "failed to get candidacy", errx.TypeInternal)
	}
	return m.toEntity(), nil
}

func buildWhere(filter candidacy.ListFilter) (string, []any) {
	var conditions []string
	var args []any
	argCount := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, string(filter.Status))
		argCount++
	}
	if filter.Nationality != "" {
		conditions = append(conditions, fmt.Sprintf("nationality = $%d", argCount))
		args = append(args, filter.Nationality)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *PostgresCandidacyRepository) List(ctx context.Context, filter candidacy.ListFilter, opts kernel.PaginationOptions) (*kernel.Paginated[candidacy.Candidacy], error) {
	opts = opts.Normalize()
	where, args := buildWhere(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM candidatures`+where, args...); err != nil {
		return nil, errx.Wrap(err, "failed to count candidacies", errx.TypeInternal)
	}

	query := fmt.Sprintf(`SELECT %s FROM candidatures%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		candidacyColumns, where, len(args)+1, len(args)+2)
	args = append(args, opts.PageSize, opts.Offset())

	var models []candidacyModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list candidacies", errx.TypeInternal)
	}

	return kernel.NewPaginated(toEntities(models), opts, total), nil
}

func (r *PostgresCandidacyRepository) ListAll(ctx context.Context, filter candidacy.ListFilter) ([]candidacy.Candidacy, error) {
	where, args := buildWhere(filter)

	var models []candidacyModel
	query := `SELECT ` + candidacyColumns + ` FROM candidatures` + where + ` ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, errx.Wrap(err, "failed to list candidacies", errx.TypeInternal)
	}
	return toEntities(models), nil
}

func (r *PostgresCandidacyRepository) UpdateStatus(ctx context.Context, id kernel.CandidacyID, status candidacy.Status, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE candidatures SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), at, string(id))
	if err != nil {
		return errx.Wrap(err, "failed to update candidacy status", errx.TypeInternal)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return candidacy.ErrNotFound().WithDetail("id", id)
	}
	return nil
}

func (r *PostgresCandidacyRepository) Delete(ctx context.Context, id kernel.CandidacyID) (*candidacy.Candidacy, error) {
	var m candidacyModel
	err := r.db.GetContext(ctx, &m,
		`DELETE FROM candidatures WHERE id = $1 RETURNING `+candidacyColumns, string(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, candidacy.ErrNotFound().WithDetail("id", id)
		}
		return nil, errx.Wrap(err, "failed to delete candidacy", errx.TypeInternal)
	}
	return m.toEntity(), nil
}

func (r *PostgresCandidacyRepository) IncrementEmailCount(ctx context.Context, email kernel.Email, message string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE candidatures
		SET emails_sent = emails_sent + 1, last_email_at = $1, last_message = $2
		WHERE email = $3`,
		at, message, string(email))
	if err != nil {
		return errx.Wrap(err, "failed to record sent email", errx.TypeInternal)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return candidacy.ErrNotFound().WithDetail("email", email)
	}
	return nil
}

func toEntities(models []candidacyModel) []candidacy.Candidacy {
	out := make([]candidacy.Candidacy, 0, len(models))
	for i := range models {
		out = append(out, *models[i].toEntity())
	}
	return out
}
