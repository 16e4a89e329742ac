package ledger

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

// PgStore implements Store on Postgres. The Records map is persisted as
// a JSONB document; a unique index on contact_id enforces one entry per
// contact.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a Postgres-backed ledger store.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) Create(ctx context.Context, e *Entry) error {
	records, err := json.Marshal(e.Records)
	if err != nil {
		return fmt.Errorf("ledger: marshal records: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO ledger_entries (id, contact_id, records, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.ContactID, records, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errors.Join(ErrDuplicateEntry, err)
		}
		return err
	}
	return nil
}

func (s *PgStore) FindByContact(ctx context.Context, contactID uuid.UUID) (*Entry, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, contact_id, records, created_at, updated_at
		FROM ledger_entries
		WHERE contact_id = $1`, contactID)
	return scanEntry(row)
}

func (s *PgStore) Save(ctx context.Context, e *Entry) error {
	records, err := json.Marshal(e.Records)
	if err != nil {
		return fmt.Errorf("ledger: marshal records: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE ledger_entries
		SET records = $2, updated_at = $3
		WHERE id = $1`,
		e.ID, records, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PgStore) All(ctx context.Context) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, contact_id, records, created_at, updated_at
		FROM ledger_entries`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var (
		e       Entry
		records []byte
	)
	err := row.Scan(&e.ID, &e.ContactID, &records, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(records, &e.Records); err != nil {
		return nil, fmt.Errorf("ledger: unmarshal records: %w", err)
	}
	if e.Records == nil {
		e.Records = make(map[string]SendRecord)
	}
	return &e, nil
}

var _ Store = (*PgStore)(nil)
