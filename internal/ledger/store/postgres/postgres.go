// Package postgres stores the ledger in PostgreSQL through database/sql and lib/pq.
// It shares its query shape with the SQLite ledger and never joins the pgx
// transactions of the registry and match stores.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"organmatch/internal/ledger/models"
	matching "organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
)

const recordColumns = `id, tenant_id, match_id, donor_id, donor_name, recipient_id, recipient_name, organ, matched_at, committed_at, notes`

// Store is append-only: there is no update or delete path.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, rec *models.Record) (bool, error) {
	query := `
		INSERT INTO transplant_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.TenantID, rec.MatchID,
		rec.DonorID, rec.DonorName, rec.RecipientID, rec.RecipientName,
		string(rec.Organ), rec.MatchedAt.Unix(), rec.CommittedAt.Unix(), rec.Notes,
	)
	if err != nil {
		return false, fmt.Errorf("insert transplant record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert transplant record: %w", err)
	}
	return n == 1, nil
}

func (s *Store) Query(ctx context.Context, tenantID id.TenantID, f models.Filter) ([]*models.Record, error) {
	q := newPredicates(tenantID)
	if f.Donor != "" {
		q.participant("donor_id", "donor_name", f.Donor)
	}
	if f.Recipient != "" {
		q.participant("recipient_id", "recipient_name", f.Recipient)
	}
	if f.Organ != "" {
		q.add("organ = " + q.arg(string(f.Organ)))
	}
	if from, to, ok := f.Window(); ok {
		q.add("committed_at >= " + q.arg(from.Unix()))
		q.add("committed_at < " + q.arg(to.Unix()))
	}
	if f.Search != "" {
		n := q.arg(f.Search)
		q.add(fmt.Sprintf(`(strpos(donor_id, %[1]s) > 0 OR strpos(lower(donor_name), lower(%[1]s)) > 0
			OR strpos(recipient_id, %[1]s) > 0 OR strpos(lower(recipient_name), lower(%[1]s)) > 0
			OR strpos(lower(organ), lower(%[1]s)) > 0)`, n))
	}

	query := `SELECT ` + recordColumns + ` FROM transplant_records WHERE ` + strings.Join(q.where, " AND ") +
		` ORDER BY committed_at DESC, seq DESC`
	if f.Limit > 0 {
		query += " LIMIT " + q.arg(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + q.arg(f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, q.args...)
	if err != nil {
		return nil, fmt.Errorf("query transplant records: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		var (
			rec                    models.Record
			organ                  string
			matchedAt, committedAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.TenantID, &rec.MatchID,
			&rec.DonorID, &rec.DonorName, &rec.RecipientID, &rec.RecipientName,
			&organ, &matchedAt, &committedAt, &rec.Notes); err != nil {
			return nil, fmt.Errorf("scan transplant record: %w", err)
		}
		rec.Organ = matching.Organ(organ)
		rec.MatchedAt = time.Unix(matchedAt, 0).UTC()
		rec.CommittedAt = time.Unix(committedAt, 0).UTC()
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// predicates accumulates numbered placeholders for a dynamic WHERE clause.
type predicates struct {
	where []string
	args  []any
}

func newPredicates(tenantID id.TenantID) *predicates {
	p := &predicates{}
	p.add("tenant_id = " + p.arg(tenantID.String()))
	return p
}

func (p *predicates) arg(v any) string {
	p.args = append(p.args, v)
	return fmt.Sprintf("$%d", len(p.args))
}

func (p *predicates) add(clause string) {
	p.where = append(p.where, clause)
}

func (p *predicates) participant(idCol, nameCol, needle string) {
	n := p.arg(needle)
	p.add(fmt.Sprintf("(strpos(%s, %s) > 0 OR strpos(lower(%s), lower(%s)) > 0)", idCol, n, nameCol, n))
}
