package deadline_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/deadline"
	"github.com/trezcool/studyhub/core/user"
	"github.com/trezcool/studyhub/storage/database/inmem"
	"github.com/trezcool/studyhub/tests"
)

type lmsStub struct {
	core.LMSGateway
	resp  core.AssignmentsResponse
	err   error
	calls int
	token string
}

func (s *lmsStub) ListAssignments(_ context.Context, token string) (core.AssignmentsResponse, error) {
	s.calls++
	s.token = token
	return s.resp, s.err
}

// failingRepo fails on the n-th insert.
type failingRepo struct {
	deadline.Repository
	failAt  int
	inserts int
}

func (r *failingRepo) CreateDeadline(ctx context.Context, d deadline.Deadline) (deadline.Deadline, error) {
	r.inserts++
	if r.inserts == r.failAt {
		return deadline.Deadline{}, errors.New("disk full")
	}
	return r.Repository.CreateDeadline(ctx, d)
}

type allQuerier interface {
	QueryAllDeadlines(ctx context.Context) ([]deadline.Deadline, error)
}

func setupSync(t *testing.T, token string) (user.User, *user.Service, deadline.Repository) {
	t.Helper()
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	usr := testutil.CreateUser(t, usrRepo, "alice", "pw1", token)
	return usr, user.NewService(usrRepo), inmemdb.NewDeadlineRepository(db)
}

func allDeadlines(t *testing.T, repo deadline.Repository) []deadline.Deadline {
	t.Helper()
	all, err := repo.(allQuerier).QueryAllDeadlines(context.Background())
	require.NoError(t, err)
	return all
}

func TestSyncService_SyncDeadlines(t *testing.T) {
	ctx := context.Background()
	due := time.Now().Add(24 * time.Hour).Unix()
	usr, usrSvc, repo := setupSync(t, "T1")
	lms := &lmsStub{resp: core.AssignmentsResponse{Courses: []core.AssignmentCourse{
		{ID: 5, FullName: "CS101", Assignments: []core.AssignmentItem{{Name: "HW1", DueDate: due}, {Name: "HW2", DueDate: due + 60}}},
		{ID: 7, FullName: "MATH", Assignments: []core.AssignmentItem{{Name: "HW1", DueDate: due}}},
		{ID: 9, FullName: "EMPTY"},
	}}}
	svc := deadline.NewSyncService(usrSvc, repo, lms)

	res, err := svc.SyncDeadlines(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, deadline.SyncResult{Inserted: 3}, res)
	assert.Equal(t, "T1", lms.token)

	all := allDeadlines(t, repo)
	require.Len(t, all, 3)
	assert.Equal(t, usr.ID, all[0].UserID)
	assert.Equal(t, int64(5), all[0].CourseID)
	assert.Equal(t, "CS101", all[0].CourseName)
	assert.Equal(t, "HW1", all[0].AssignmentName)
	assert.Equal(t, due*1000, all[0].DueDate.UnixMilli())

	t.Run("second run inserts nothing", func(t *testing.T) {
		res, err := svc.SyncDeadlines(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, deadline.SyncResult{Skipped: 3}, res)
		assert.Len(t, allDeadlines(t, repo), 3)
	})

	t.Run("changed due date is not updated", func(t *testing.T) {
		lms.resp.Courses[0].Assignments[0].DueDate = due + 3600
		res, err := svc.SyncDeadlines(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Inserted)

		all := allDeadlines(t, repo)
		require.Len(t, all, 3)
		assert.Equal(t, due, all[0].DueDate.Unix())
	})

	t.Run("dedup key is exact", func(t *testing.T) {
		lms.resp.Courses[0].Assignments = append(lms.resp.Courses[0].Assignments, core.AssignmentItem{Name: "hw1", DueDate: due})
		res, err := svc.SyncDeadlines(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Inserted)
		assert.Len(t, allDeadlines(t, repo), 4)
	})
}

func TestSyncService_SyncDeadlines_Unauthorized(t *testing.T) {
	usr, usrSvc, repo := setupSync(t, "")
	lms := &lmsStub{}
	svc := deadline.NewSyncService(usrSvc, repo, lms)

	_, err := svc.SyncDeadlines(context.Background(), usr.ID)
	assert.ErrorIs(t, err, deadline.ErrUnauthorized)
	assert.Equal(t, 0, lms.calls)
	assert.Empty(t, allDeadlines(t, repo))
}

func TestSyncService_SyncDeadlines_UnknownUser(t *testing.T) {
	_, usrSvc, repo := setupSync(t, "T1")
	svc := deadline.NewSyncService(usrSvc, repo, &lmsStub{})

	_, err := svc.SyncDeadlines(context.Background(), "nobody")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestSyncService_SyncDeadlines_RemoteFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "unavailable", err: errors.Wrap(core.ErrRemoteUnavailable, "timeout")},
		{name: "bad status", err: &core.RemoteError{Function: "mod_assign_get_assignments", StatusCode: 500, Body: []byte("boom")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, usrSvc, repo := setupSync(t, "T1")
			svc := deadline.NewSyncService(usrSvc, repo, &lmsStub{err: tt.err})

			_, err := svc.SyncDeadlines(context.Background(), usr.ID)
			var syncErr *deadline.SyncFailedError
			require.True(t, errors.As(err, &syncErr))
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, allDeadlines(t, repo))
		})
	}
}

func TestSyncService_SyncDeadlines_PartialProgress(t *testing.T) {
	usr, usrSvc, repo := setupSync(t, "T1")
	frepo := &failingRepo{Repository: repo, failAt: 2}
	lms := &lmsStub{resp: testutil.Assignments(5, "CS101",
		core.AssignmentItem{Name: "HW1", DueDate: 1},
		core.AssignmentItem{Name: "HW2", DueDate: 2},
		core.AssignmentItem{Name: "HW3", DueDate: 3},
	)}
	svc := deadline.NewSyncService(usrSvc, frepo, lms)

	res, err := svc.SyncDeadlines(context.Background(), usr.ID)
	var syncErr *deadline.SyncFailedError
	require.True(t, errors.As(err, &syncErr))
	assert.Equal(t, 1, res.Inserted)

	all := allDeadlines(t, repo)
	require.Len(t, all, 1)
	assert.Equal(t, "HW1", all[0].AssignmentName)

	// retry resumes where the failed run stopped
	frepo.failAt = 0
	res, err = svc.SyncDeadlines(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.Equal(t, deadline.SyncResult{Inserted: 2, Skipped: 1}, res)
	assert.Len(t, allDeadlines(t, repo), 3)
}

func TestService_Upcoming(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	repo := inmemdb.NewDeadlineRepository(db)
	now := time.Now().UTC()

	for _, d := range []deadline.Deadline{
		{ID: "1", UserID: "u1", AssignmentName: "late", DueDate: now.Add(48 * time.Hour)},
		{ID: "2", UserID: "u1", AssignmentName: "past", DueDate: now.Add(-time.Hour)},
		{ID: "3", UserID: "u1", AssignmentName: "soon", DueDate: now.Add(time.Hour)},
		{ID: "4", UserID: "u2", AssignmentName: "other", DueDate: now.Add(time.Hour)},
	} {
		_, err := repo.CreateDeadline(ctx, d)
		require.NoError(t, err)
	}

	got, err := deadline.NewService(repo).Upcoming(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "soon", got[0].AssignmentName)
	assert.Equal(t, "late", got[1].AssignmentName)
}
