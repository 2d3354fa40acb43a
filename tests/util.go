package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/user"
)

func CreateUser(t *testing.T, repo user.Repository, uname, pwd, token string, createdAt ...time.Time) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		Username:  uname,
		FullName:  uname,
		LMSToken:  token,
		CreatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// FakeLMS serves canned web service responses keyed by function name.
type FakeLMS struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   map[string]interface{}
	statuses map[string]int
	requests []*http.Request
}

func NewFakeLMS(t *testing.T) *FakeLMS {
	t.Helper()
	lms := &FakeLMS{
		bodies:   make(map[string]interface{}),
		statuses: make(map[string]int),
	}
	lms.Server = httptest.NewServer(http.HandlerFunc(lms.serve))
	t.Cleanup(lms.Close)
	return lms
}

// Respond makes the LMS answer fn with body (JSON-encoded unless it is a string).
func (lms *FakeLMS) Respond(fn string, status int, body interface{}) {
	lms.mu.Lock()
	defer lms.mu.Unlock()
	lms.statuses[fn] = status
	lms.bodies[fn] = body
}

// Requests returns the received requests for fn.
func (lms *FakeLMS) Requests(fn string) []*http.Request {
	lms.mu.Lock()
	defer lms.mu.Unlock()
	var reqs []*http.Request
	for _, r := range lms.requests {
		if r.URL.Query().Get("wsfunction") == fn {
			reqs = append(reqs, r)
		}
	}
	return reqs
}

func (lms *FakeLMS) serve(w http.ResponseWriter, r *http.Request) {
	lms.mu.Lock()
	lms.requests = append(lms.requests, r)
	fn := r.URL.Query().Get("wsfunction")
	status, ok := lms.statuses[fn]
	body := lms.bodies[fn]
	lms.mu.Unlock()

	if !ok {
		http.Error(w, "unknown function "+fn, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if s, isStr := body.(string); isStr {
		_, _ = w.Write([]byte(s))
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// Assignments builds a one-course assignments response.
func Assignments(courseID int64, courseName string, items ...core.AssignmentItem) core.AssignmentsResponse {
	return core.AssignmentsResponse{Courses: []core.AssignmentCourse{
		{ID: courseID, FullName: courseName, Assignments: items},
	}}
}
