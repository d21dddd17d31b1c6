package recipient

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

const recipientColumns = `id, tenant_id, name, gender, age, blood_group, organ, tissue_type, hla_match, urgency, waiting, waiting_since`

// PostgresStore persists the waiting list.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, r *matching.Recipient) error {
	query := `
		INSERT INTO recipients (` + recipientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := postgres.Conn(ctx, s.pool).Exec(ctx, query,
		r.ID, r.TenantID, r.Name, r.Gender, r.Age,
		r.Medical.BloodGroup, r.Medical.Organ, r.Medical.TissueType, r.Medical.HLAMatch,
		int16(r.Urgency), r.Waiting, r.WaitingSince.Unix(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("recipient %s: %w", r.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert recipient: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID) (*matching.Recipient, error) {
	query := `SELECT ` + recipientColumns + ` FROM recipients WHERE tenant_id = $1 AND id = $2`
	r, err := scanRecipient(postgres.Conn(ctx, s.pool).QueryRow(ctx, query, tenantID, recipientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get recipient: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) ListWaiting(ctx context.Context, tenantID id.TenantID) ([]*matching.Recipient, error) {
	return s.List(ctx, tenantID, models.RecipientFilter{WaitingOnly: true})
}

func (s *PostgresStore) List(ctx context.Context, tenantID id.TenantID, filter models.RecipientFilter) ([]*matching.Recipient, error) {
	urgency := int16(-1)
	if filter.Urgency != nil {
		urgency = int16(*filter.Urgency)
	}
	query := `
		SELECT ` + recipientColumns + `
		FROM recipients
		WHERE tenant_id = $1
		  AND ($2 = '' OR organ = $2)
		  AND ($3 = '' OR blood_group = $3)
		  AND ($4 < 0 OR urgency = $4)
		  AND (NOT $5 OR waiting)
		ORDER BY seq
	`
	rows, err := postgres.Conn(ctx, s.pool).Query(ctx, query,
		tenantID, string(filter.Organ), string(filter.BloodGroup), urgency, filter.WaitingOnly)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	defer rows.Close()

	var out []*matching.Recipient
	for rows.Next() {
		r, err := scanRecipient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetWaiting(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID, waiting bool) error {
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx,
		`UPDATE recipients SET waiting = $3 WHERE tenant_id = $1 AND id = $2`,
		tenantID, recipientID, waiting)
	if err != nil {
		return fmt.Errorf("set recipient waiting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, tenantID id.TenantID, recipientID id.RecipientID) error {
	tag, err := postgres.Conn(ctx, s.pool).Exec(ctx,
		`DELETE FROM recipients WHERE tenant_id = $1 AND id = $2`, tenantID, recipientID)
	if err != nil {
		return fmt.Errorf("remove recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanRecipient(row pgx.Row) (*matching.Recipient, error) {
	var (
		r            matching.Recipient
		urgency      int16
		waitingSince int64
	)
	if err := row.Scan(
		&r.ID, &r.TenantID, &r.Name, &r.Gender, &r.Age,
		&r.Medical.BloodGroup, &r.Medical.Organ, &r.Medical.TissueType, &r.Medical.HLAMatch,
		&urgency, &r.Waiting, &waitingSince,
	); err != nil {
		return nil, err
	}
	r.Urgency = matching.Urgency(urgency)
	r.WaitingSince = time.Unix(waitingSince, 0).UTC()
	return &r, nil
}
