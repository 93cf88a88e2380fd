package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jask/endpoint/internal/database/repository"
)

// DefaultSourceID is the id of the seeded data source.
var DefaultSourceID = seedID("source:ipci")

type seedRequest struct {
	name, team, request, date string
}

var defaultRequests = []seedRequest{
	{"John Doe", "Marketing", "Data Analysis", "2023-06-01"},
	{"Jane Smith", "Sales", "Data Export", "2023-05-15"},
	{"Bob Johnson", "IT", "Data Visualization", "2023-04-30"},
	{"Sarah Lee", "HR", "Data Reporting", "2023-03-20"},
	{"Tom Wilson", "Finance", "Data Cleaning", "2023-02-10"},
	{"Emily Brown", "Operations", "Data Integration", "2023-07-15"},
	{"Michael Clark", "Product", "Data Modeling", "2023-06-25"},
	{"Alice Green", "Engineering", "Data Architecture", "2023-05-05"},
	{"David White", "Research", "Data Experimentation", "2023-04-15"},
	{"Linda Harris", "Customer Support", "Data Insights", "2023-03-01"},
}

var defaultRegisters = []string{
	"European Register for Multiple Sclerosis",
	"UK Cystic Fibrosis Registry",
}

const ipciDescription = "The Integrated Primary Care Information (IPCI) database is a longitudinal " +
	"observational database containing routinely collected data from computer-GPs throughout the Netherlands. " +
	"IPCI was started in 1992 by the department of Medical Informatics of the Erasmus Medical Center in " +
	"Rotterdam with the objective to use the data for research on the use and effects of drugs."

var defaultLines = []repository.SourcePoint{
	{Series: "A", X: 2019, Value: 5},
	{Series: "A", X: 2019.2, Value: 8},
	{Series: "A", X: 2019.5, Value: 12},
	{Series: "A", X: 2020, Value: 14},
	{Series: "A", X: 2020.6, Value: 12},
	{Series: "A", X: 2021.4, Value: 10},
	{Series: "A", X: 2022.1, Value: 11},
	{Series: "A", X: 2022.45, Value: 13.5},
	{Series: "A", X: 2022.6, Value: 16.3},
	{Series: "A", X: 2022.7, Value: 19.5},
	{Series: "B", X: 2019, Value: 0},
	{Series: "B", X: 2019.3, Value: 5},
	{Series: "B", X: 2019.55, Value: 8},
	{Series: "B", X: 2020.2, Value: 12},
	{Series: "B", X: 2020.8, Value: 8.5},
	{Series: "B", X: 2021.6, Value: 5},
	{Series: "B", X: 2022.2, Value: 6.3},
	{Series: "B", X: 2022.6, Value: 9.2},
	{Series: "B", X: 2022.9, Value: 12.5},
	{Series: "B", X: 2023.1, Value: 15.5},
	{Series: "B", X: 2023.2, Value: 18.8},
}

var defaultAges = []repository.SourcePoint{
	{Series: "age", Label: "85+", Value: 7},
	{Series: "age", Label: "75-85", Value: 12},
	{Series: "age", Label: "65-75", Value: 21},
	{Series: "age", Label: "45-65", Value: 30},
	{Series: "age", Label: "18-46", Value: 17},
	{Series: "age", Label: "2-17", Value: 15},
}

func seedID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// SeedDefaults fills an empty database with the sample requests, registers
// and data source. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	requests := repository.NewRequestRepo(db)
	counts, err := requests.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count requests: %w", err)
	}
	if len(counts) == 0 {
		for _, s := range defaultRequests {
			date, err := time.Parse(time.DateOnly, s.date)
			if err != nil {
				return err
			}
			hash := seedID("request:" + s.name + ":" + s.date)
			if _, err := requests.Insert(ctx, repository.DataRequest{
				Name: s.name, Team: s.team, Request: s.request, Date: date,
				Status: repository.Stages[0], SourceHash: &hash,
			}); err != nil {
				return err
			}
		}
	}

	registers := repository.NewRegisterRepo(db)
	existing, err := registers.List(ctx)
	if err != nil {
		return fmt.Errorf("list registers: %w", err)
	}
	if len(existing) == 0 {
		for i, name := range defaultRegisters {
			reg := repository.Register{ID: seedID("register:" + name), Name: name, Stage: 2, SortOrder: i}
			if err := registers.Upsert(ctx, reg); err != nil {
				return err
			}
		}
	}

	sources := repository.NewSourceRepo(db)
	src, err := sources.Get(ctx, DefaultSourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}
	if src != nil {
		return nil
	}
	if err := sources.Upsert(ctx, repository.DataSource{
		ID:               DefaultSourceID,
		Name:             "Integrated Primary Care Information (IPCI)",
		Description:      ipciDescription,
		UsabilityScore:   87,
		MissingValues:    5,
		PatientsMillions: 2.5,
	}); err != nil {
		return err
	}
	if err := sources.ReplacePoints(ctx, DefaultSourceID, repository.PointLine, defaultLines); err != nil {
		return err
	}
	return sources.ReplacePoints(ctx, DefaultSourceID, repository.PointBar, defaultAges)
}
