package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/course"
	"github.com/trezcool/studyhub/core/deadline"
	"github.com/trezcool/studyhub/core/qa"
	"github.com/trezcool/studyhub/core/user"
	"github.com/trezcool/studyhub/services/logger"
	"github.com/trezcool/studyhub/services/moodle"
	"github.com/trezcool/studyhub/storage/database/inmem"
	"github.com/trezcool/studyhub/tests"
)

type testApp struct {
	srv      *Server
	lms      *testutil.FakeLMS
	usrRepo  user.Repository
	dlRepo   deadline.Repository
	logs     *bytes.Buffer
	sessions sessionManager
}

func setup(t *testing.T) testApp {
	t.Helper()
	conf := &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "StudyHub",
		SecretKey: "test-secret",
		Server:    core.ServerConfig{SessionTTL: time.Hour},
	}

	// set up DB & repos
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	dlRepo := inmemdb.NewDeadlineRepository(db)

	// set up services
	lms := testutil.NewFakeLMS(t)
	gateway := moodle.NewClientWithHTTP(lms.URL, lms.Client())
	usrSvc := user.NewService(usrRepo)

	var logs bytes.Buffer
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	// set up server
	srv := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logsvc.NewRollbarLogger(log.New(&logs, "", 0), conf),
		Validate:    validate,
		Translator:  translator,
		UserSvc:     usrSvc,
		QASvc:       qa.NewService(inmemdb.NewQuestionRepository(db)),
		DeadlineSvc: deadline.NewService(dlRepo),
		SyncSvc:     deadline.NewSyncService(usrSvc, dlRepo, gateway),
		CourseSvc:   course.NewService(usrSvc, gateway),
	})
	return testApp{srv: srv, lms: lms, usrRepo: usrRepo, dlRepo: dlRepo, logs: &logs, sessions: srv.sessions}
}

func (app testApp) do(req *http.Request, session *http.Cookie) *httptest.ResponseRecorder {
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	app.srv.ServeHTTP(rec, req)
	return rec
}

func (app testApp) get(path string, session *http.Cookie) *httptest.ResponseRecorder {
	return app.do(httptest.NewRequest(http.MethodGet, path, nil), session)
}

func (app testApp) getJSON(t *testing.T, path string, session *http.Cookie, dst interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := app.do(req, session)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func (app testApp) postForm(path string, form url.Values, session *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return app.do(req, session)
}

// sessionFor returns a valid session cookie for usr.
func (app testApp) sessionFor(t *testing.T, usr user.User) *http.Cookie {
	t.Helper()
	ss, err := app.sessions.token(usr.ID, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookieName, Value: ss}
}

func (app testApp) allDeadlines(t *testing.T) []deadline.Deadline {
	t.Helper()
	all, err := app.dlRepo.(interface {
		QueryAllDeadlines(ctx context.Context) ([]deadline.Deadline, error)
	}).QueryAllDeadlines(context.Background())
	require.NoError(t, err)
	return all
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}
