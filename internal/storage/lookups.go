package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/botdetector/internal/model"
)

type breakdownRow struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// RecordLookup persists a lookup and returns its id.
func (s *SQLiteStorage) RecordLookup(ctx context.Context, record *model.LookupRecord) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateRecord(record); err != nil {
		return 0, err
	}

	breakdown, err := encodeBreakdown(record.Breakdown)
	if err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO lookups (name, label, confidence, breakdown, error, looked_up_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.Name, record.Label, record.Confidence, breakdown, record.Error, record.LookedUpAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to save lookup: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get lookup id: %w", err)
	}
	record.ID = id
	return id, nil
}

// RecentLookups returns up to limit records, newest first.
func (s *SQLiteStorage) RecentLookups(ctx context.Context, limit int) ([]model.LookupRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, label, confidence, breakdown, error, looked_up_at
		FROM lookups
		ORDER BY looked_up_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.LookupRecord
	for rows.Next() {
		record, scanErr := scanLookup(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lookups: %w", err)
	}
	return records, nil
}

// LatestLookup returns the newest successful lookup of name.
func (s *SQLiteStorage) LatestLookup(ctx context.Context, name string) (*model.LookupRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, label, confidence, breakdown, error, looked_up_at
		FROM lookups
		WHERE name = ? COLLATE NOCASE AND (error IS NULL OR error = '')
		ORDER BY looked_up_at DESC, id DESC
		LIMIT 1
	`, name)

	record, err := scanLookup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLookup(row scanner) (model.LookupRecord, error) {
	var (
		record    model.LookupRecord
		label     sql.NullString
		breakdown sql.NullString
		errText   sql.NullString
	)
	err := row.Scan(&record.ID, &record.Name, &label, &record.Confidence, &breakdown, &errText, &record.LookedUpAt)
	if errors.Is(err, sql.ErrNoRows) {
		return record, err
	}
	if err != nil {
		return record, fmt.Errorf("failed to scan lookup: %w", err)
	}

	record.Label = label.String
	record.Error = errText.String
	record.Breakdown, err = decodeBreakdown(breakdown.String)
	if err != nil {
		return record, err
	}
	return record, nil
}

func encodeBreakdown(b model.Breakdown) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	rows := make([]breakdownRow, len(b))
	for i, c := range b {
		rows[i] = breakdownRow{Label: c.Label, Score: c.Score}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("failed to encode breakdown: %w", err)
	}
	return string(data), nil
}

func decodeBreakdown(data string) (model.Breakdown, error) {
	if data == "" {
		return nil, nil
	}
	var rows []breakdownRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("failed to decode breakdown: %w", err)
	}
	b := make(model.Breakdown, len(rows))
	for i, r := range rows {
		b[i] = model.CategoryScore{Label: r.Label, Score: r.Score}
	}
	return b, nil
}
