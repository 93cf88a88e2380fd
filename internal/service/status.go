package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jask/endpoint/internal/database"
	"github.com/jask/endpoint/internal/database/repository"
)

// StatusService moves data requests through the review stages.
type StatusService struct {
	DB       *sql.DB
	Requests *repository.RequestRepo
	Logger   *log.Logger
}

// Advance moves each request one stage forward. Requests at the last stage
// stay put; unknown ids are ignored. It returns how many rows changed.
func (s *StatusService) Advance(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	changed := 0
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := s.Requests.WithTx(tx)
		for _, id := range ids {
			req, err := repo.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("get request %d: %w", id, err)
			}
			if req == nil {
				continue
			}
			next := repository.NextStatus(req.Status)
			if next == req.Status {
				continue
			}
			if err := repo.UpdateStatus(ctx, id, next); err != nil {
				return fmt.Errorf("advance request %d: %w", id, err)
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	logf(s.Logger, "status: advanced %d of %d requests", changed, len(ids))
	return changed, nil
}
