package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements Store on Postgres. Attachments are stored as a
// JSONB document, placeholders as a text array.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a Postgres-backed template store.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const templateColumns = `id, name, slug, subject, content, category, format, active, placeholders, attachments, created_at, updated_at`

func (s *PgStore) Create(ctx context.Context, t *Template) error {
	attachments, err := json.Marshal(t.Attachments)
	if err != nil {
		return fmt.Errorf("template: marshal attachments: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO templates (`+templateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.Name, t.Slug, t.Subject, t.Content, t.Category, t.Format,
		t.Active, t.Placeholders, attachments, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return wrapPgError(err)
	}
	return nil
}

func (s *PgStore) Update(ctx context.Context, t *Template) error {
	attachments, err := json.Marshal(t.Attachments)
	if err != nil {
		return fmt.Errorf("template: marshal attachments: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE templates
		SET name = $2, slug = $3, subject = $4, content = $5, category = $6,
		    format = $7, active = $8, placeholders = $9, attachments = $10,
		    updated_at = $11
		WHERE id = $1`,
		t.ID, t.Name, t.Slug, t.Subject, t.Content, t.Category, t.Format,
		t.Active, t.Placeholders, attachments, t.UpdatedAt,
	)
	if err != nil {
		return wrapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PgStore) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+templateColumns+`
		FROM templates
		WHERE id = $1`, id)
	return scanTemplate(row)
}

func (s *PgStore) List(ctx context.Context, f Filter) ([]Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates`
	var (
		conds []string
		args  []any
	)
	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != "" {
		addCond("category = $%d", f.Category)
	}
	if f.Slug != "" {
		addCond("slug = $%d", f.Slug)
	}
	if f.Placeholder != "" {
		addCond("$%d = ANY(placeholders)", f.Placeholder)
	}
	if f.Active != nil {
		addCond("active = $%d", *f.Active)
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapPgError(err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (s *PgStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return wrapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*Template, error) {
	var (
		t           Template
		attachments []byte
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Subject, &t.Content, &t.Category,
		&t.Format, &t.Active, &t.Placeholders, &attachments,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrapPgError(err)
	}

	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &t.Attachments); err != nil {
			return nil, fmt.Errorf("template: unmarshal attachments: %w", err)
		}
	}
	return &t, nil
}

// wrapPgError maps a slug unique violation onto ErrDuplicateSlug.
func wrapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return errors.Join(ErrDuplicateSlug, err)
	}
	return err
}

var _ Store = (*PgStore)(nil)
