package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"organmatch/internal/matching/models"
	"organmatch/internal/platform/postgres"
	id "organmatch/pkg/domain"
	"organmatch/pkg/platform/sentinel"
)

const matchColumns = `id, tenant_id, donor_id, recipient_id, state, created_at, committed_at, released_at, notes, record_id, recorded, donor_name, recipient_name, organ`

// PostgresStore persists matches. The live-participant partial indexes turn a
// double allocation into sentinel.ErrConflict even if two replicas race.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := postgres.Conn(ctx, s.pool).Exec(ctx, query, matchArgs(m)...)
	if err != nil {
		return translateWriteErr("insert match", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID, matchID id.MatchID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tenant_id = $1 AND id = $2`
	m, err := scanMatch(postgres.Conn(ctx, s.pool).QueryRow(ctx, query, tenantID, matchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get match: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) Update(ctx context.Context, m *models.Match) error {
	query := `
		UPDATE matches SET
			state = $5, committed_at = $7, released_at = $8, notes = $9, record_id = $10, recorded = $11
		WHERE id = $1 AND tenant_id = $2 AND donor_id = $3 AND recipient_id = $4 AND created_at = $6
	`
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx, query, matchArgs(m)[:11]...)
	if err != nil {
		return translateWriteErr("update match", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByTenant(ctx context.Context, tenantID id.TenantID, state models.MatchState) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE tenant_id = $1 AND ($2 = '' OR state = $2)
		ORDER BY created_at, id
	`
	rows, err := postgres.Conn(ctx, s.pool).Query(ctx, query, tenantID, string(state))
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func matchArgs(m *models.Match) []any {
	return []any{
		m.ID, m.TenantID, m.DonorID, m.RecipientID, string(m.State), m.CreatedAt.Unix(),
		unixOrNil(m.CommittedAt), unixOrNil(m.ReleasedAt), m.Notes, m.RecordID, m.Recorded,
		m.DonorName, m.RecipientName, string(m.Organ),
	}
}

func translateWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unixOrNil(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}

func timeOrNil(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	var (
		m                       models.Match
		state, organ            string
		createdAt               int64
		committedAt, releasedAt *int64
	)
	if err := row.Scan(
		&m.ID, &m.TenantID, &m.DonorID, &m.RecipientID, &state, &createdAt,
		&committedAt, &releasedAt, &m.Notes, &m.RecordID, &m.Recorded,
		&m.DonorName, &m.RecipientName, &organ,
	); err != nil {
		return nil, err
	}
	m.State = models.MatchState(state)
	m.Organ = models.Organ(organ)
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	m.CommittedAt = timeOrNil(committedAt)
	m.ReleasedAt = timeOrNil(releasedAt)
	return &m, nil
}
