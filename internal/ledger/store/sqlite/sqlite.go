// Package sqlite keeps the ledger in a single-file SQLite database for
// single-node deployments.
package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"organmatch/internal/ledger/models"
	matching "organmatch/internal/matching/models"
	id "organmatch/pkg/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS transplant_records (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL UNIQUE,
	tenant_id      TEXT NOT NULL,
	match_id       TEXT NOT NULL,
	donor_id       TEXT NOT NULL,
	donor_name     TEXT NOT NULL,
	recipient_id   TEXT NOT NULL,
	recipient_name TEXT NOT NULL,
	organ          TEXT NOT NULL,
	matched_at     INTEGER NOT NULL,
	committed_at   INTEGER NOT NULL,
	notes          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS transplant_records_tenant_committed_idx
	ON transplant_records (tenant_id, committed_at DESC, seq DESC);
`

const recordColumns = `id, tenant_id, match_id, donor_id, donor_name, recipient_id, recipient_name, organ, matched_at, committed_at, notes`

type Store struct {
	db *sql.DB
}

// Open creates the database file and schema if needed. An empty path opens
// "organmatch-ledger.db" in the working directory.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "organmatch-ledger.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Append(ctx context.Context, rec *models.Record) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO transplant_records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.TenantID.String(), rec.MatchID.String(),
		rec.DonorID.String(), rec.DonorName, rec.RecipientID.String(), rec.RecipientName,
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
	where := []string{"tenant_id = ?"}
	args := []any{tenantID.String()}

	participant := func(idCol, nameCol, needle string) {
		where = append(where, fmt.Sprintf("(instr(%s, ?) > 0 OR instr(lower(%s), ?) > 0)", idCol, nameCol))
		args = append(args, needle, strings.ToLower(needle))
	}
	if f.Donor != "" {
		participant("donor_id", "donor_name", f.Donor)
	}
	if f.Recipient != "" {
		participant("recipient_id", "recipient_name", f.Recipient)
	}
	if f.Organ != "" {
		where = append(where, "organ = ?")
		args = append(args, string(f.Organ))
	}
	if from, to, ok := f.Window(); ok {
		where = append(where, "committed_at >= ?", "committed_at < ?")
		args = append(args, from.Unix(), to.Unix())
	}
	if f.Search != "" {
		lowered := strings.ToLower(f.Search)
		where = append(where, `(instr(donor_id, ?) > 0 OR instr(lower(donor_name), ?) > 0
			OR instr(recipient_id, ?) > 0 OR instr(lower(recipient_name), ?) > 0
			OR instr(lower(organ), ?) > 0)`)
		args = append(args, f.Search, lowered, f.Search, lowered, lowered)
	}

	query := `SELECT ` + recordColumns + ` FROM transplant_records WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY committed_at DESC, seq DESC`
	// SQLite only accepts OFFSET after LIMIT; -1 means no limit.
	if f.Limit > 0 || f.Offset > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, cmp.Or(f.Limit, -1), f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transplant records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*models.Record
	for rows.Next() {
		var (
			rec                                                 models.Record
			recID, tenant, matchID, donorID, recipientID, organ string
			matchedAt, committedAt                              int64
		)
		if err := rows.Scan(&recID, &tenant, &matchID, &donorID, &rec.DonorName, &recipientID, &rec.RecipientName,
			&organ, &matchedAt, &committedAt, &rec.Notes); err != nil {
			return nil, fmt.Errorf("scan transplant record: %w", err)
		}
		rec.ID = id.RecordID(recID)
		rec.TenantID = id.TenantID(tenant)
		rec.MatchID = id.MatchID(matchID)
		rec.DonorID = id.DonorID(donorID)
		rec.RecipientID = id.RecipientID(recipientID)
		rec.Organ = matching.Organ(organ)
		rec.MatchedAt = time.Unix(matchedAt, 0).UTC()
		rec.CommittedAt = time.Unix(committedAt, 0).UTC()
		out = append(out, &rec)
	}
	return out, rows.Err()
}
