package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/user"
)

// ErrUnauthorized is returned when the user has no LMS access token.
var ErrUnauthorized = core.ErrMissingLMSToken

// Course is an active LMS course of the user.
type Course struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullname"`
}

type (
	UserGetter interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	// Service builds read-only views over the LMS. Each view resolves the caller's LMS user id first.
	Service struct {
		users   UserGetter
		lms     core.LMSGateway
		nowFunc func() time.Time
	}
)

func NewService(users UserGetter, lms core.LMSGateway) *Service {
	return &Service{users: users, lms: lms, nowFunc: time.Now}
}

func (svc *Service) token(ctx context.Context, userID string) (string, error) {
	usr, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		return "", errors.Wrap(err, "finding user by ID")
	}
	if !usr.HasLMSToken() {
		return "", ErrUnauthorized
	}
	return usr.LMSToken, nil
}

// ActiveCourses lists the enrolled courses whose end date is not in the past.
func (svc *Service) ActiveCourses(ctx context.Context, userID string) ([]Course, error) {
	token, err := svc.token(ctx, userID)
	if err != nil {
		return nil, err
	}
	info, err := svc.lms.SiteInfo(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "getting site info")
	}
	enrolled, err := svc.lms.EnrolledCourses(ctx, token, info.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "listing enrolled courses")
	}
	return FilterActive(enrolled, svc.nowFunc()), nil
}

// FilterActive keeps the courses ending at or after now (epoch seconds comparison).
func FilterActive(enrolled []core.EnrolledCourse, now time.Time) []Course {
	nowUnix := now.Unix()
	courses := make([]Course, 0, len(enrolled))
	for _, c := range enrolled {
		if c.EndDate >= nowUnix {
			courses = append(courses, Course{ID: c.ID, FullName: c.FullName})
		}
	}
	return courses
}

// Grades returns the user's grade items for a course; missing data yields no grades.
func (svc *Service) Grades(ctx context.Context, userID string, courseID int64) ([]core.GradeItem, error) {
	token, err := svc.token(ctx, userID)
	if err != nil {
		return nil, err
	}
	info, err := svc.lms.SiteInfo(ctx, token)
	if err != nil {
		return nil, errors.Wrap(err, "getting site info")
	}
	report, err := svc.lms.GradeItems(ctx, token, info.UserID, courseID)
	if err != nil {
		return nil, errors.Wrap(err, "getting grade items")
	}
	return ExtractGradeItems(report), nil
}

// ExtractGradeItems returns the grade items of the first user grade entry.
// Each nesting level is resolved on its own and the first absent level yields an empty list.
func ExtractGradeItems(report core.GradeReport) []core.GradeItem {
	if len(report.UserGrades) == 0 {
		return []core.GradeItem{}
	}
	first := report.UserGrades[0]
	if first.GradeItems == nil {
		return []core.GradeItem{}
	}
	return first.GradeItems
}
