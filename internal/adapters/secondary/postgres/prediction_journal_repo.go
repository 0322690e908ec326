package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"soil-nutrient-service/internal/core/domain"
	output "soil-nutrient-service/internal/core/ports/output"
)

const createPredictionLog = `
	CREATE TABLE IF NOT EXISTS prediction_log (
		id          UUID PRIMARY KEY,
		variant     TEXT NOT NULL,
		impedance   DOUBLE PRECISION NOT NULL,
		predictions JSONB NOT NULL,
		warnings    JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at  TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS prediction_log_variant_created_idx
		ON prediction_log (variant, created_at DESC);
`

type predictionJournalRepo struct {
	pool *pgxpool.Pool
}

// NewPredictionJournalRepository creates a new PredictionJournal
func NewPredictionJournalRepository(pool *pgxpool.Pool) output.PredictionJournal {
	return &predictionJournalRepo{pool: pool}
}

// EnsureSchema creates the prediction_log table when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createPredictionLog); err != nil {
		return fmt.Errorf("create prediction_log: %w", err)
	}
	return nil
}

func (r *predictionJournalRepo) Record(ctx context.Context, entry *domain.JournalEntry) error {
	predsJSON, err := json.Marshal(entry.Predictions)
	if err != nil {
		return fmt.Errorf("marshal predictions: %w", err)
	}
	warnings := entry.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warnsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}

	query := `
		INSERT INTO prediction_log (id, variant, impedance, predictions, warnings, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		entry.ID, entry.Variant, entry.Impedance, predsJSON, warnsJSON, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record prediction: %w", err)
	}
	return nil
}

func (r *predictionJournalRepo) List(ctx context.Context, filter output.JournalFilter) ([]*domain.JournalEntry, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Variant != "" {
		conditions = append(conditions, fmt.Sprintf("variant = $%d", argPos))
		args = append(args, filter.Variant)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM prediction_log WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count predictions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, variant, impedance, predictions, warnings, created_at
		FROM prediction_log
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan prediction row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate predictions: %w", err)
	}
	return entries, total, nil
}

func scanJournalEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var (
		e         domain.JournalEntry
		predsJSON []byte
		warnsJSON []byte
	)
	if err := row.Scan(&e.ID, &e.Variant, &e.Impedance, &predsJSON, &warnsJSON, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(predsJSON, &e.Predictions); err != nil {
		return nil, fmt.Errorf("unmarshal predictions: %w", err)
	}
	if err := json.Unmarshal(warnsJSON, &e.Warnings); err != nil {
		return nil, fmt.Errorf("unmarshal warnings: %w", err)
	}
	return &e, nil
}

// Ensure interface compliance
var _ output.PredictionJournal = (*predictionJournalRepo)(nil)
