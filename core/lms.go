package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// ErrRemoteUnavailable is returned when the LMS could not be reached (network error or timeout).
var ErrRemoteUnavailable = errors.New("LMS unavailable")

// RemoteError is returned when the LMS answered with a non-success status or a malformed body.
type RemoteError struct {
	Function   string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("LMS %s: status %d", e.Function, e.StatusCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteError) Unwrap() error { return e.Err }

// RemoteBody returns the LMS response body carried by err, if any.
func RemoteBody(err error) string {
	var rErr *RemoteError
	if errors.As(err, &rErr) {
		return string(rErr.Body)
	}
	return ""
}

type (
	// LMSGateway issues one synchronous request per call against the LMS REST API.
	// It performs no interpretation beyond JSON decoding; all filtering is done by callers.
	LMSGateway interface {
		ListAssignments(ctx context.Context, token string) (AssignmentsResponse, error)
		SiteInfo(ctx context.Context, token string) (SiteInfo, error)
		EnrolledCourses(ctx context.Context, token string, userID int64) ([]EnrolledCourse, error)
		GradeItems(ctx context.Context, token string, userID, courseID int64) (GradeReport, error)
	}

	AssignmentsResponse struct {
		Courses []AssignmentCourse `json:"courses"`
	}

	AssignmentCourse struct {
		ID          int64            `json:"id"`
		FullName    string           `json:"fullname"`
		Assignments []AssignmentItem `json:"assignments"`
	}

	AssignmentItem struct {
		Name    string `json:"name"`
		DueDate int64  `json:"duedate"` // unix seconds
	}

	SiteInfo struct {
		UserID int64 `json:"userid"`
	}

	EnrolledCourse struct {
		ID       int64  `json:"id"`
		FullName string `json:"fullname"`
		EndDate  int64  `json:"enddate"` // unix seconds
	}

	// GradeReport mirrors the nesting of the grade report; every level may be absent.
	GradeReport struct {
		UserGrades []UserGrades `json:"usergrades"`
	}

	UserGrades struct {
		GradeItems []GradeItem `json:"gradeitems"`
	}

	// GradeItem is kept opaque: its fields are rendered as received.
	GradeItem map[string]json.RawMessage
)
