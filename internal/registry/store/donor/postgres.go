package donor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	matching "organmatch/internal/matching/models"
	"organmatch/internal/platform/postgres"
	"organmatch/internal/registry/models"
	id "organmatch/pkg/domain"
	"organmatch/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

const donorColumns = `id, tenant_id, name, gender, age, blood_group, organ, tissue_type, hla_match, available, registered_at`

// PostgresStore persists donors. Listing order follows the insertion sequence
// column so the first-eligible-donor rule is stable across restarts.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, d *matching.Donor) error {
	query := `
		INSERT INTO donors (` + donorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := postgres.Conn(ctx, s.pool).Exec(ctx, query,
		d.ID, d.TenantID, d.Name, d.Gender, d.Age,
		d.Medical.BloodGroup, d.Medical.Organ, d.Medical.TissueType, d.Medical.HLAMatch,
		d.Available, d.RegisteredAt.Unix(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("donor %s: %w", d.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert donor: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, tenantID id.TenantID, donorID id.DonorID) (*matching.Donor, error) {
	query := `SELECT ` + donorColumns + ` FROM donors WHERE tenant_id = $1 AND id = $2`
	d, err := scanDonor(postgres.Conn(ctx, s.pool).QueryRow(ctx, query, tenantID, donorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get donor: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) ListAvailable(ctx context.Context, tenantID id.TenantID) ([]*matching.Donor, error) {
	return s.List(ctx, tenantID, models.DonorFilter{AvailableOnly: true})
}

func (s *PostgresStore) List(ctx context.Context, tenantID id.TenantID, filter models.DonorFilter) ([]*matching.Donor, error) {
	query := `
		SELECT ` + donorColumns + `
		FROM donors
		WHERE tenant_id = $1
		  AND ($2 = '' OR organ = $2)
		  AND ($3 = '' OR blood_group = $3)
		  AND (NOT $4 OR available)
		ORDER BY seq
	`
	rows, err := postgres.Conn(ctx, s.pool).Query(ctx, query, tenantID, string(filter.Organ), string(filter.BloodGroup), filter.AvailableOnly)
	if err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	defer rows.Close()

	var out []*matching.Donor
	for rows.Next() {
		d, err := scanDonor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donor: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetAvailable(ctx context.Context, tenantID id.TenantID, donorID id.DonorID, available bool) error {
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx,
		`UPDATE donors SET available = $3 WHERE tenant_id = $1 AND id = $2`,
		tenantID, donorID, available)
	if err != nil {
		return fmt.Errorf("set donor availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, tenantID id.TenantID, donorID id.DonorID) error {
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx,
		`DELETE FROM donors WHERE tenant_id = $1 AND id = $2`, tenantID, donorID)
	if err != nil {
		return fmt.Errorf("remove donor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanDonor(row pgx.Row) (*matching.Donor, error) {
	var (
		d            matching.Donor
		registeredAt int64
	)
	if err := row.Scan(
		&d.ID, &d.TenantID, &d.Name, &d.Gender, &d.Age,
		&d.Medical.BloodGroup, &d.Medical.Organ, &d.Medical.TissueType, &d.Medical.HLAMatch,
		&d.Available, &registeredAt,
	); err != nil {
		return nil, err
	}
	d.RegisteredAt = time.Unix(registeredAt, 0).UTC()
	return &d, nil
}
