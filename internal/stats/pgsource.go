package stats

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSource implements Source with Postgres counting queries.
type PgSource struct {
	pool *pgxpool.Pool
}

// NewPgSource creates a Postgres-backed stats source.
func NewPgSource(pool *pgxpool.Pool) *PgSource {
	return &PgSource{pool: pool}
}

func (s *PgSource) ContactCounts(ctx context.Context) (ContactCounts, error) {
	var c ContactCounts
	err := s.pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE mail_sent)
		FROM contacts`).Scan(&c.Total, &c.Sent)
	if err != nil {
		return ContactCounts{}, err
	}
	c.Unsent = c.Total - c.Sent
	return c, nil
}

func (s *PgSource) ContactCountsByList(ctx context.Context, listName string) (ContactCounts, error) {
	var c ContactCounts
	err := s.pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE mail_sent)
		FROM contacts
		WHERE list_name = $1`, listName).Scan(&c.Total, &c.Sent)
	if err != nil {
		return ContactCounts{}, err
	}
	c.Unsent = c.Total - c.Sent
	return c, nil
}

func (s *PgSource) TemplateCounts(ctx context.Context) (TemplateCounts, error) {
	var c TemplateCounts
	err := s.pool.QueryRow(ctx, `
		SELECT count(*), count(*) FILTER (WHERE active)
		FROM templates`).Scan(&c.Total, &c.Active)
	if err != nil {
		return TemplateCounts{}, err
	}
	c.Inactive = c.Total - c.Active
	return c, nil
}

func (s *PgSource) ListNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT list_name
		FROM contacts
		WHERE list_name <> ''
		ORDER BY list_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

var _ Source = (*PgSource)(nil)
