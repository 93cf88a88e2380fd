package repository

import (
	"context"
	"database/sql"
	"time"
)

// Stages are the ordered review stages shared by data requests and registers.
var Stages = []string{"Pending", "Evaluation", "Approved", "Ready to analyze"}

// StageIndex returns the position of status in Stages, or -1.
func StageIndex(status string) int {
	for i, s := range Stages {
		if s == status {
			return i
		}
	}
	return -1
}

// NextStatus returns the stage after status. The last stage and unknown
// statuses are returned unchanged.
func NextStatus(status string) string {
	i := StageIndex(status)
	if i < 0 || i >= len(Stages)-1 {
		return status
	}
	return Stages[i+1]
}

// DataRequest represents a data_requests row.
type DataRequest struct {
	ID         int64
	Name       string
	Team       string
	Request    string
	Date       time.Time
	Status     string
	SourceHash *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Register represents a registers row.
type Register struct {
	ID        string
	Name      string
	Stage     int
	SortOrder int
}

// DataSource represents a data_sources row.
type DataSource struct {
	ID               string
	Name             string
	Description      string
	UsabilityScore   float64
	MissingValues    float64
	PatientsMillions float64
}

// Point kinds stored in source_points.
const (
	PointLine = "line"
	PointBar  = "bar"
)

// SourcePoint is one chart datum of a data source. Line points use X as a
// fractional year; bar points use Label.
type SourcePoint struct {
	Kind   string
	Series string
	Label  string
	X      float64
	Value  float64
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}
