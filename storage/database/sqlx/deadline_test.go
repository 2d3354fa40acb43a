package sqlxrepos

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core/deadline"
)

func TestDeadlineRepository_DeadlineExists(t *testing.T) {
	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+deadlines\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+course_id\s*=\s*\$2\s+AND\s+assignment\s*=\s*\$3\)$`
	key := deadline.Key{UserID: "u-1", CourseID: 5, AssignmentName: "HW1"}

	for _, want := range []bool{true, false} {
		db, mock := newMockDB(t)
		repo := NewDeadlineRepository(db)

		mock.ExpectQuery(q).WithArgs("u-1", int64(5), "HW1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(want))

		got, err := repo.DeadlineExists(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestDeadlineRepository_DeadlineExists_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeadlineRepository(db)

	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("db down"))

	_, err := repo.DeadlineExists(context.Background(), deadline.Key{UserID: "u-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checking deadline")
}

func TestDeadlineRepository_CreateDeadline(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeadlineRepository(db)

	d := deadline.Deadline{
		ID:             "d-1",
		UserID:         "u-1",
		CourseID:       5,
		CourseName:     "CS101",
		AssignmentName: "HW1",
		DueDate:        time.Unix(1700000000, 0).UTC(),
	}
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+deadlines\s*\(id,\s*user_id,\s*course_id,\s*course_name,\s*assignment,\s*due_date\)`).
		WithArgs(d.ID, d.UserID, d.CourseID, d.CourseName, d.AssignmentName, d.DueDate).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.CreateDeadline(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, d, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeadlineRepository_QueryUpcomingDeadlines(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeadlineRepository(db)

	from := time.Now().UTC()
	due := from.Add(24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "course_name", "assignment", "due_date"}).
		AddRow("d-1", "u-1", int64(5), "CS101", "HW1", due)
	mock.ExpectQuery(`(?s)FROM\s+deadlines\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+due_date\s*>=\s*\$2\s+ORDER\s+BY\s+due_date\s+ASC$`).
		WithArgs("u-1", from).
		WillReturnRows(rows)

	got, err := repo.QueryUpcomingDeadlines(context.Background(), "u-1", from)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "HW1", got[0].AssignmentName)
	assert.Equal(t, int64(5), got[0].CourseID)
	assert.True(t, got[0].DueDate.Equal(due))
}
