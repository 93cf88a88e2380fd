package service

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jask/endpoint/internal/database/repository"
)

// IngestService imports data requests from CSV.
type IngestService struct {
	Requests *repository.RequestRepo
	Logger   *log.Logger
}

type IngestResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

var headerColumns = []string{"name", "team", "request", "date", "status"}

// ImportCSV reads rows of name, team, request, date[, status]. A leading
// header row is skipped. Dates use 2006-01-02; a blank status means Pending.
// Rows already imported are counted as skipped.
func (s *IngestService) ImportCSV(ctx context.Context, r io.Reader) (IngestResult, error) {
	res := IngestResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	first := true
	for {
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", errorLine(err), err))
			first = false
			continue
		}
		// line is where the record starts, which differs from the record
		// count once a quoted field spans lines.
		line, _ := csvr.FieldPos(0)
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		if len(rec) < 4 {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: expected at least 4 columns (name, team, request, date)", line))
			continue
		}
		name, team, request := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2])
		if name == "" {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: name required", line))
			continue
		}
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(rec[3]))
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d date: %w", line, err))
			continue
		}
		status := repository.Stages[0]
		if len(rec) > 4 && strings.TrimSpace(rec[4]) != "" {
			status = strings.TrimSpace(rec[4])
			if repository.StageIndex(status) < 0 {
				res.Errors = append(res.Errors, fmt.Errorf("line %d status: unknown %q", line, status))
				continue
			}
		}
		req := repository.DataRequest{
			Name:       name,
			Team:       team,
			Request:    request,
			Date:       date,
			Status:     status,
			SourceHash: hashSource(strings.ToLower(name), strings.ToLower(team), strings.ToLower(request), date.Format(time.DateOnly)),
		}
		if _, err := s.Requests.Insert(ctx, req); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				res.Skipped++
				continue
			}
			res.Errors = append(res.Errors, fmt.Errorf("line %d insert: %w", line, err))
			continue
		}
		res.Imported++
	}
	logf(s.Logger, "import: %d imported, %d skipped, %d errors", res.Imported, res.Skipped, len(res.Errors))
	return res, nil
}

// ImportFile opens path and imports it with ImportCSV.
func (s *IngestService) ImportFile(ctx context.Context, path string) (IngestResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return IngestResult{}, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()
	return s.ImportCSV(ctx, f)
}

func errorLine(err error) int {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return pe.StartLine
	}
	return 0
}

func isHeader(rec []string) bool {
	if len(rec) < len(headerColumns)-1 {
		return false
	}
	for i, want := range headerColumns[:4] {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), want) {
			return false
		}
	}
	return true
}

func hashSource(parts ...string) *string {
	joined := strings.Join(parts, "|")
	sum := sha256.Sum256([]byte(joined))
	h := fmt.Sprintf("%x", sum[:])
	return &h
}

func logf(l *log.Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.Printf(format, args...)
}
