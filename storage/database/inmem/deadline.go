package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/trezcool/studyhub/core/deadline"
)

type deadlineRepository struct {
	db *deadlineTable
}

var _ deadline.Repository = (*deadlineRepository)(nil)

func NewDeadlineRepository(db *DB) *deadlineRepository {
	return &deadlineRepository{db: db.deadline}
}

func (repo *deadlineRepository) DeadlineExists(_ context.Context, key deadline.Key) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, d := range repo.db.rows {
		if d.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

func (repo *deadlineRepository) CreateDeadline(_ context.Context, d deadline.Deadline) (deadline.Deadline, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = append(repo.db.rows, d)
	return d, nil
}

func (repo *deadlineRepository) QueryUpcomingDeadlines(_ context.Context, userID string, from time.Time) ([]deadline.Deadline, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	deadlines := make([]deadline.Deadline, 0)
	for _, d := range repo.db.rows {
		if d.UserID == userID && !d.DueDate.Before(from) {
			deadlines = append(deadlines, d)
		}
	}
	sort.SliceStable(deadlines, func(i, j int) bool { return deadlines[i].DueDate.Before(deadlines[j].DueDate) })
	return deadlines, nil
}

// QueryAllDeadlines returns every stored Deadline in insertion order.
func (repo *deadlineRepository) QueryAllDeadlines(_ context.Context) ([]deadline.Deadline, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return append([]deadline.Deadline{}, repo.db.rows...), nil
}
