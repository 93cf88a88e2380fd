package service

import (
	"context"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/jask/endpoint/internal/database/repository"
)

// DuplicatePair is two requests that look like the same ask filed twice.
type DuplicatePair struct {
	A, B       repository.DataRequest
	Similarity float64
}

// DuplicateFinder flags near-duplicate data requests.
type DuplicateFinder struct {
	Requests *repository.RequestRepo
	// Threshold is the minimum similarity in [0,1]; zero means 0.8.
	Threshold float64
	// Window is the maximum date distance; zero means 30 days.
	Window time.Duration
}

// Find compares every pair of requests from the same team.
func (f *DuplicateFinder) Find(ctx context.Context) ([]DuplicatePair, error) {
	reqs, err := f.Requests.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Pairs(reqs), nil
}

// Pairs finds near-duplicates among reqs without touching the database.
func (f *DuplicateFinder) Pairs(reqs []repository.DataRequest) []DuplicatePair {
	threshold := f.Threshold
	if threshold == 0 {
		threshold = 0.8
	}
	window := f.Window
	if window == 0 {
		window = 30 * 24 * time.Hour
	}
	var out []DuplicatePair
	for i := 0; i < len(reqs); i++ {
		for j := i + 1; j < len(reqs); j++ {
			a, b := reqs[i], reqs[j]
			if !strings.EqualFold(a.Team, b.Team) {
				continue
			}
			if absDuration(a.Date.Sub(b.Date)) > window {
				continue
			}
			sim := similarity(requestKey(a), requestKey(b))
			if sim < threshold {
				continue
			}
			out = append(out, DuplicatePair{A: a, B: b, Similarity: sim})
		}
	}
	return out
}

func requestKey(r repository.DataRequest) string {
	return strings.ToUpper(strings.TrimSpace(r.Name) + " " + strings.TrimSpace(r.Request))
}

func similarity(a, b string) float64 {
	maxlen := max(len(a), len(b))
	if maxlen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxlen)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
