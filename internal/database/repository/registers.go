package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// RegisterRepo handles registers.
type RegisterRepo struct {
	db querier
}

func NewRegisterRepo(db *sql.DB) *RegisterRepo { return &RegisterRepo{db: db} }

func (r *RegisterRepo) Upsert(ctx context.Context, reg Register) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO registers(id, name, stage, sort_order) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name, stage=excluded.stage, sort_order=excluded.sort_order;
	`, reg.ID, reg.Name, reg.Stage, reg.SortOrder)
	return err
}

func (r *RegisterRepo) List(ctx context.Context) ([]Register, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, stage, sort_order FROM registers ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Register
	for rows.Next() {
		var reg Register
		if err := rows.Scan(&reg.ID, &reg.Name, &reg.Stage, &reg.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

// SetStage moves a register to stage, which must index Stages.
func (r *RegisterRepo) SetStage(ctx context.Context, id string, stage int) error {
	if stage < 0 || stage >= len(Stages) {
		return fmt.Errorf("register stage %d out of range", stage)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE registers SET stage = ? WHERE id = ?`, stage, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("register %s: %w", id, sql.ErrNoRows)
	}
	return nil
}
