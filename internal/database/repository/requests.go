package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

// ErrDuplicate reports an insert rejected by the source_hash constraint.
var ErrDuplicate = errors.New("duplicate data request")

const requestColumns = "id, name, team, request, date, status, source_hash, created_at, updated_at"

// RequestRepo handles data requests.
type RequestRepo struct {
	db querier
}

func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{db: db} }

// WithTx returns a repo bound to tx.
func (r *RequestRepo) WithTx(tx *sql.Tx) *RequestRepo { return &RequestRepo{db: tx} }

// Insert stores req and returns its new id.
func (r *RequestRepo) Insert(ctx context.Context, req DataRequest) (int64, error) {
	status := req.Status
	if status == "" {
		status = Stages[0]
	}
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO data_requests(name, team, request, date, status, source_hash, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, req.Name, req.Team, req.Request, req.Date.Format(time.DateOnly), status, req.SourceHash)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, fmt.Errorf("%w: %s", ErrDuplicate, req.Name)
		}
		return 0, fmt.Errorf("insert data request: %w", err)
	}
	return res.LastInsertId()
}

// List returns every request in insertion order.
func (r *RequestRepo) List(ctx context.Context) ([]DataRequest, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+requestColumns+" FROM data_requests ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DataRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Get returns the request with id, or nil when absent.
func (r *RequestRepo) Get(ctx context.Context, id int64) (*DataRequest, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+requestColumns+" FROM data_requests WHERE id = ?", id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE data_requests SET status = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (r *RequestRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM data_requests WHERE id = ?`, id)
	return err
}

// CountByStatus returns the number of requests per status.
func (r *RequestRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM data_requests GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func scanRequest(row scanner) (DataRequest, error) {
	var req DataRequest
	var date string
	var hash sql.NullString
	if err := row.Scan(&req.ID, &req.Name, &req.Team, &req.Request, &date, &req.Status, &hash, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return DataRequest{}, err
	}
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return DataRequest{}, fmt.Errorf("request %d date %q: %w", req.ID, date, err)
	}
	req.Date = d
	if hash.Valid {
		req.SourceHash = &hash.String
	}
	return req, nil
}
