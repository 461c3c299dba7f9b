package contactinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/contact"
)

type PostgresContactRepository struct {
	db *sqlx.DB
}

func NewPostgresContactRepository(db *sqlx.DB) *PostgresContactRepository {
	return &PostgresContactRepository{db: db}
}

type contactModel struct {
	ID        string         `db:"id"`
	FullName  string         `db:"full_name"`
	Email     string         `db:"email"`
	Phone     sql.NullString `db:"phone"`
	Subject   string         `db:"subject"`
	Message   string         `db:"message"`
	Status    string         `db:"status"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt sql.NullTime   `db:"updated_at"`
}

const contactColumns = `id, full_name, email, phone, subject, message, status, created_at, updated_at`

func (m *contactModel) toEntity() contact.Message {
	msg := contact.Message{
		ID:        kernel.ContactID(m.ID),
		FullName:  m.FullName,
		Email:     kernel.Email(m.Email),
		Phone:     m.Phone.String,
		Subject:   m.Subject,
		Body:      m.Message,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
	if m.UpdatedAt.Valid {
		msg.UpdatedAt = &m.UpdatedAt.Time
	}
	return msg
}

func (r *PostgresContactRepository) Create(ctx context.Context, m *contact.Message) error {
	model := contactModel{
		ID:        string(m.ID),
		FullName:  m.FullName,
		Email:     string(m.Email),
		Phone:     sql.NullString{String: m.Phone, Valid: m.Phone != ""},
		Subject:   m.Subject,
		Message:   m.Body,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES (:id, :full_name, :email, :phone, :subject, :message, :status, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return errx.Wrap(err, "failed to create contact message", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresContactRepository) List(ctx context.Context) ([]contact.Message, error) {
	var models []contactModel
	if err := r.db.SelectContext(ctx, &models, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC`); err != nil {
		return nil, errx.Wrap(err, "failed to list contact messages", errx.TypeInternal)
	}
	out := make([]contact.Message, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out, nil
}

func (r *PostgresContactRepository) GetByID(ctx context.Context, id kernel.ContactID) (*contact.Message, error) {
	var m contactModel
	if err := r.db.GetContext(ctx, &m, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, contact.ErrNotFound().WithDetail("id", id)
		}
		return nil, errx.Wrap(err, "failed to get contact message", errx.TypeInternal)
	}
	msg := m.toEntity()
	return &msg, nil
}

func (r *PostgresContactRepository) Update(ctx context.Context, id kernel.ContactID, fields contact.UpdateFields, at time.Time) error {
	var sets []string
	var args []any
	argCount := 1

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, *value)
		argCount++
	}
	add("full_name", fields.FullName)
	add("email", fields.Email)
	add("phone", fields.Phone)
	add("subject", fields.Subject)
	add("message", fields.Message)

	sets = append(sets, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, at)
	argCount++
	args = append(args, string(id))

	query := fmt.Sprintf(`UPDATE contacts SET %s WHERE id = $%d`, strings.Join(sets, ", "), argCount)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errx.Wrap(err, "failed to update contact message", errx.TypeInternal)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return contact.ErrNotFound().WithDetail("id", id)
	}
	return nil
}

func (r *PostgresContactRepository) SetStatus(ctx context.Context, id kernel.ContactID, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE contacts SET status = $1 WHERE id = $2`, status, string(id))
	if err != nil {
		return errx.Wrap(err, "failed to update contact status", errx.TypeInternal)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return contact.ErrNotFound().WithDetail("id", id)
	}
	return nil
}
