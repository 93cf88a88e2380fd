package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SourceRepo handles data sources and their chart points.
type SourceRepo struct {
	db *sql.DB
}

func NewSourceRepo(db *sql.DB) *SourceRepo { return &SourceRepo{db: db} }

func (r *SourceRepo) Upsert(ctx context.Context, s DataSource) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO data_sources(id, name, description, usability_score, missing_values, patients_millions)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 description=excluded.description,
	 usability_score=excluded.usability_score,
	 missing_values=excluded.missing_values,
	 patients_millions=excluded.patients_millions;
	`, s.ID, s.Name, s.Description, s.UsabilityScore, s.MissingValues, s.PatientsMillions)
	return err
}

func (r *SourceRepo) Get(ctx context.Context, id string) (*DataSource, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description, usability_score, missing_values, patients_millions FROM data_sources WHERE id = ?`, id)
	var s DataSource
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.UsabilityScore, &s.MissingValues, &s.PatientsMillions); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SourceRepo) List(ctx context.Context) ([]DataSource, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, usability_score, missing_values, patients_millions FROM data_sources ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DataSource
	for rows.Next() {
		var s DataSource
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.UsabilityScore, &s.MissingValues, &s.PatientsMillions); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ReplacePoints swaps every point of kind for sourceID with points.
func (r *SourceRepo) ReplacePoints(ctx context.Context, sourceID, kind string, points []SourcePoint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM source_points WHERE source_id = ? AND kind = ?`, sourceID, kind); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear points: %w", err)
	}
	for i, p := range points {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO source_points(source_id, kind, series, label, x, value, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, sourceID, kind, p.Series, p.Label, p.X, p.Value, i); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert point %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Points returns the points of kind for sourceID in stored order.
func (r *SourceRepo) Points(ctx context.Context, sourceID, kind string) ([]SourcePoint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, series, label, x, value FROM source_points WHERE source_id = ? AND kind = ? ORDER BY position`, sourceID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SourcePoint
	for rows.Next() {
		var p SourcePoint
		if err := rows.Scan(&p.Kind, &p.Series, &p.Label, &p.X, &p.Value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
