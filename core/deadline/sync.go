package deadline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/user"
)

var (
	// ErrUnauthorized is returned when the user has no LMS access token.
	ErrUnauthorized = core.ErrMissingLMSToken

	syncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhub_deadline_sync_total",
		Help: "Deadline synchronizations by result",
	}, []string{"result"})

	syncedDeadlines = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studyhub_deadline_sync_rows_total",
		Help: "Assignments seen during synchronization, by outcome",
	}, []string{"outcome"})
)

// SyncFailedError is returned when the synchronization could not complete.
// Deadlines inserted before the failure are kept.
type SyncFailedError struct {
	Err error
}

func (e *SyncFailedError) Error() string { return "syncing deadlines: " + e.Err.Error() }
func (e *SyncFailedError) Unwrap() error { return e.Err }
func (e *SyncFailedError) Cause() error  { return e.Err }

// SyncResult counts what a synchronization did.
type SyncResult struct {
	Inserted int
	Skipped  int
}

type (
	// UserGetter resolves the user a synchronization runs for.
	UserGetter interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	SyncService struct {
		users UserGetter
		repo  Repository
		lms   core.LMSGateway
	}

	entry struct {
		courseID       int64
		courseName     string
		assignmentName string
		dueUnix        int64
	}
)

func NewSyncService(users UserGetter, repo Repository, lms core.LMSGateway) *SyncService {
	return &SyncService{users: users, repo: repo, lms: lms}
}

// SyncDeadlines inserts the user's LMS assignments that are not stored yet.
// Stored Deadlines are never updated, so running it twice with unchanged upstream data inserts nothing the second time.
func (svc *SyncService) SyncDeadlines(ctx context.Context, userID string) (SyncResult, error) {
	res, err := svc.sync(ctx, userID)
	switch {
	case err == nil:
		syncTotal.WithLabelValues("success").Inc()
	case errors.Is(err, ErrUnauthorized):
		syncTotal.WithLabelValues("unauthorized").Inc()
	default:
		syncTotal.WithLabelValues("failed").Inc()
	}
	return res, err
}

func (svc *SyncService) sync(ctx context.Context, userID string) (SyncResult, error) {
	var res SyncResult

	usr, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		return res, errors.Wrap(err, "finding user by ID")
	}
	if !usr.HasLMSToken() {
		return res, ErrUnauthorized
	}

	resp, err := svc.lms.ListAssignments(ctx, usr.LMSToken)
	if err != nil {
		return res, &SyncFailedError{Err: err}
	}

	for _, e := range flatten(resp) {
		key := Key{UserID: usr.ID, CourseID: e.courseID, AssignmentName: e.assignmentName}
		exists, err := svc.repo.DeadlineExists(ctx, key)
		if err != nil {
			return res, &SyncFailedError{Err: errors.Wrap(err, "checking deadline")}
		}
		if exists {
			res.Skipped++
			syncedDeadlines.WithLabelValues("skipped").Inc()
			continue
		}

		d := Deadline{
			ID:             uuid.NewString(),
			UserID:         usr.ID,
			CourseID:       e.courseID,
			CourseName:     e.courseName,
			AssignmentName: e.assignmentName,
			DueDate:        time.Unix(e.dueUnix, 0).UTC(),
		}
		if _, err = svc.repo.CreateDeadline(ctx, d); err != nil {
			return res, &SyncFailedError{Err: errors.Wrap(err, "creating deadline")}
		}
		res.Inserted++
		syncedDeadlines.WithLabelValues("inserted").Inc()
	}
	return res, nil
}

// flatten lists assignments course by course.
func flatten(resp core.AssignmentsResponse) []entry {
	var entries []entry
	for _, course := range resp.Courses {
		for _, a := range course.Assignments {
			entries = append(entries, entry{
				courseID:       course.ID,
				courseName:     course.FullName,
				assignmentName: a.Name,
				dueUnix:        a.DueDate,
			})
		}
	}
	return entries
}
