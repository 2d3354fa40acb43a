package deadline

import (
	"context"
	"time"
)

type (
	// Repository stores Deadlines. Rows are never updated nor deleted.
	Repository interface {
		// DeadlineExists reports whether a Deadline with the exact natural key exists.
		DeadlineExists(ctx context.Context, key Key) (bool, error)
		CreateDeadline(ctx context.Context, d Deadline) (Deadline, error)
		// QueryUpcomingDeadlines returns the user's Deadlines due at or after `from`, by ascending due date.
		QueryUpcomingDeadlines(ctx context.Context, userID string, from time.Time) ([]Deadline, error)
	}

	Service struct {
		repo    Repository
		nowFunc func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, nowFunc: time.Now}
}

// Upcoming lists the user's future Deadlines, soonest first.
func (svc *Service) Upcoming(ctx context.Context, userID string) ([]Deadline, error) {
	return svc.repo.QueryUpcomingDeadlines(ctx, userID, svc.nowFunc())
}
