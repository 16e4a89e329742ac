package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements Store on Postgres.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a Postgres-backed contact store.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const contactColumns = `id, email_first, email_second, full_name, phone, company_phone,
	url, job_title, company_name, company_domain, company_id, city,
	linkedin_id, list_name, mail_sent, sent_template_id, ledger_id,
	created_at, updated_at`

func (s *PgStore) Create(ctx context.Context, c *Contact) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES ($1, lower($2), lower($3), $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17, $18, $19)`,
		c.ID, c.EmailFirst, c.EmailSecond, c.FullName, c.Phone,
		c.CompanyPhone, c.URL, c.JobTitle, c.CompanyName, c.CompanyDomain,
		c.CompanyID, c.City, c.LinkedinID, c.ListName, c.MailSent,
		c.SentTemplateID, c.LedgerID, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *PgStore) GetByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = $1`, id)
	return scanContact(row)
}

func (s *PgStore) FindByEmail(ctx context.Context, email string) ([]Contact, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE email_first = lower($1)
		ORDER BY created_at`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContacts(rows)
}

func (s *PgStore) FindByList(ctx context.Context, listName string) ([]Contact, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE list_name = $1
		ORDER BY created_at`, listName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContacts(rows)
}

func (s *PgStore) List(ctx context.Context, f Filter, page, perPage int) ([]Contact, int, error) {
	where := " WHERE 1=1"
	var args []any
	if f.City != "" {
		args = append(args, "%"+f.City+"%")
		where += fmt.Sprintf(" AND city ILIKE $%d", len(args))
	}
	if f.ListName != "" {
		args = append(args, f.ListName)
		where += fmt.Sprintf(" AND list_name = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (full_name ILIKE $%d OR email_first ILIKE $%d OR company_name ILIKE $%d)", n, n, n)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM contacts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, perPage, (page-1)*perPage)
	query := fmt.Sprintf(`SELECT `+contactColumns+` FROM contacts`+where+`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	contacts, err := scanContacts(rows)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

func (s *PgStore) MarkSent(ctx context.Context, contactID, templateID, ledgerID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE contacts
		SET mail_sent = true, sent_template_id = $2, ledger_id = $3, updated_at = now()
		WHERE id = $1`,
		contactID, templateID, ledgerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PgStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanContact(row pgx.Row) (*Contact, error) {
	var c Contact
	err := row.Scan(
		&c.ID, &c.EmailFirst, &c.EmailSecond, &c.FullName, &c.Phone,
		&c.CompanyPhone, &c.URL, &c.JobTitle, &c.CompanyName,
		&c.CompanyDomain, &c.CompanyID, &c.City, &c.LinkedinID,
		&c.ListName, &c.MailSent, &c.SentTemplateID, &c.LedgerID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanContacts(rows pgx.Rows) ([]Contact, error) {
	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

var _ Store = (*PgStore)(nil)
