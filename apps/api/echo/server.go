package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/course"
	"github.com/trezcool/studyhub/core/deadline"
	"github.com/trezcool/studyhub/core/qa"
	"github.com/trezcool/studyhub/core/user"
)

type (
	ServerDeps struct {
		Conf        *core.Config
		Logger      core.Logger
		Validate    *validator.Validate
		Translator  ut.Translator
		UserSvc     *user.Service
		QASvc       *qa.Service
		DeadlineSvc *deadline.Service
		SyncSvc     *deadline.SyncService
		CourseSvc   *course.Service
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		sessions sessionManager
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		sessions: newSessionManager(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger)
	s.app.Renderer = newTemplateRenderer()
	s.app.Debug = conf.Debug

	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	gate := s.sessions.requireSession
	registerUserRoutes(s.app, gate, s.deps, s.sessions)
	registerQARoutes(s.app, gate, s.deps)
	registerDeadlineRoutes(s.app, gate, s.deps)
	registerCourseRoutes(s.app, gate, s.deps)
}

// Start listens until the server is shut down. Listen failures are sent to Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	addr := s.deps.Conf.Server.Address()
	s.deps.Logger.Info(fmt.Sprintf("API listening on %s", addr))
	if err := s.app.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
