package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"adstxt-validator/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultListLimit = 50

// PostgresStore persists scan history rows on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a history store on an existing pool and ensures
// the schema exists.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool}
	if err := s.createTablesIfNotExist(); err != nil {
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) createTablesIfNotExist() error {
	query := `
		CREATE TABLE IF NOT EXISTS validation_history (
			id UUID PRIMARY KEY,
			domain TEXT NOT NULL,
			file_type TEXT NOT NULL,
			total_entries INT NOT NULL DEFAULT 0,
			valid_entries INT NOT NULL DEFAULT 0,
			invalid_entries INT NOT NULL DEFAULT 0,
			warning_entries INT NOT NULL DEFAULT 0,
			direct_count INT NOT NULL DEFAULT 0,
			reseller_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_validation_history_domain
			ON validation_history(domain, created_at DESC);
	`
	_, err := s.pool.Exec(context.Background(), query)
	return err
}

// Insert stores one scan record. A missing ID or timestamp is filled in.
func (s *PostgresStore) Insert(ctx context.Context, record *models.ScanRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO validation_history
			(id, domain, file_type, total_entries, valid_entries, invalid_entries,
			 warning_entries, direct_count, reseller_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, record.ID, strings.ToLower(record.Domain), string(record.FileType),
		record.Summary.Total, record.Summary.Valid, record.Summary.Invalid,
		record.Summary.Warnings, record.Summary.DirectCount, record.Summary.ResellerCount,
		record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scan record for %s: %w", record.Domain, err)
	}
	return nil
}

// ListByDomain returns the most recent scans for a domain, newest first.
func (s *PostgresStore) ListByDomain(ctx context.Context, domain string, limit int) ([]*models.ScanRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, domain, file_type, total_entries, valid_entries, invalid_entries,
		       warning_entries, direct_count, reseller_count, created_at
		FROM validation_history
		WHERE domain = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, strings.ToLower(domain), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan history for %s: %w", domain, err)
	}
	defer rows.Close()

	records := make([]*models.ScanRecord, 0, limit)
	for rows.Next() {
		var record models.ScanRecord
		var fileType string
		if err := rows.Scan(&record.ID, &record.Domain, &fileType,
			&record.Summary.Total, &record.Summary.Valid, &record.Summary.Invalid,
			&record.Summary.Warnings, &record.Summary.DirectCount, &record.Summary.ResellerCount,
			&record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		record.FileType = models.FileType(fileType)
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scan history for %s: %w", domain, err)
	}
	return records, nil
}
