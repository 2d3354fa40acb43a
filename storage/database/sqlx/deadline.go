package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core/deadline"
)

type deadlineRepository struct {
	db sqlx.ExtContext
}

var _ deadline.Repository = (*deadlineRepository)(nil) // interface compliance check

func NewDeadlineRepository(db sqlx.ExtContext) *deadlineRepository {
	return &deadlineRepository{db: db}
}

func (repo deadlineRepository) DeadlineExists(ctx context.Context, key deadline.Key) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM deadlines WHERE user_id = $1 AND course_id = $2 AND assignment = $3)`
	if err := sqlx.GetContext(ctx, repo.db, &exists, query, key.UserID, key.CourseID, key.AssignmentName); err != nil {
		return false, errors.Wrap(err, "checking deadline")
	}
	return exists, nil
}

func (repo deadlineRepository) CreateDeadline(ctx context.Context, d deadline.Deadline) (deadline.Deadline, error) {
	query := `INSERT INTO deadlines (id, user_id, course_id, course_name, assignment, due_date)
		VALUES (:id, :user_id, :course_id, :course_name, :assignment, :due_date)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db, query, d); err != nil {
		return deadline.Deadline{}, errors.Wrap(err, "inserting deadline")
	}
	return d, nil
}

func (repo deadlineRepository) QueryUpcomingDeadlines(ctx context.Context, userID string, from time.Time) ([]deadline.Deadline, error) {
	deadlines := make([]deadline.Deadline, 0)
	query := `SELECT id, user_id, course_id, course_name, assignment, due_date FROM deadlines
		WHERE user_id = $1 AND due_date >= $2 ORDER BY due_date ASC`
	if err := sqlx.SelectContext(ctx, repo.db, &deadlines, query, userID, from.UTC()); err != nil {
		return nil, errors.Wrap(err, "selecting deadlines")
	}
	return deadlines, nil
}
