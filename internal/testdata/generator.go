// Package testdata generates synthetic data requests for tests and demos.
package testdata

import (
	"encoding/csv"
	"io"
	"math/rand"
	"time"

	"github.com/jask/endpoint/internal/database/repository"
)

var (
	firstNames = []string{"John", "Jane", "Bob", "Sarah", "Tom", "Emily", "Michael", "Alice", "David", "Linda"}
	lastNames  = []string{"Doe", "Smith", "Johnson", "Lee", "Wilson", "Brown", "Clark", "Green", "White", "Harris"}
	teams      = []string{"Marketing", "Sales", "IT", "HR", "Finance", "Operations", "Product", "Engineering", "Research", "Customer Support"}
	kinds      = []string{"Data Analysis", "Data Export", "Data Visualization", "Data Reporting", "Data Cleaning", "Data Integration", "Data Modeling"}
)

// Requests returns n distinct requests dated within a year of 2023-01-01.
// The same seed always yields the same requests.
func Requests(seed int64, n int) []repository.DataRequest {
	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	seen := make(map[string]bool, n)
	out := make([]repository.DataRequest, 0, n)
	for len(out) < n {
		r := repository.DataRequest{
			Name:    firstNames[rng.Intn(len(firstNames))] + " " + lastNames[rng.Intn(len(lastNames))],
			Team:    teams[rng.Intn(len(teams))],
			Request: kinds[rng.Intn(len(kinds))],
			Date:    base.AddDate(0, 0, rng.Intn(365)),
			Status:  repository.Stages[rng.Intn(len(repository.Stages))],
		}
		key := r.Name + "|" + r.Team + "|" + r.Request + "|" + r.Date.Format(time.DateOnly)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// WriteCSV writes reqs with a header row in the import format.
func WriteCSV(w io.Writer, reqs []repository.DataRequest) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "team", "request", "date", "status"}); err != nil {
		return err
	}
	for _, r := range reqs {
		if err := cw.Write([]string{r.Name, r.Team, r.Request, r.Date.Format(time.DateOnly), r.Status}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
