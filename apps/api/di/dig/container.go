package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/studyhub/apps/api/echo"
	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/course"
	"github.com/trezcool/studyhub/core/deadline"
	"github.com/trezcool/studyhub/core/qa"
	"github.com/trezcool/studyhub/core/user"
	logsvc "github.com/trezcool/studyhub/services/logger"
	"github.com/trezcool/studyhub/services/moodle"
	"github.com/trezcool/studyhub/storage/database"
	inmemdb "github.com/trezcool/studyhub/storage/database/inmem"
	sqlxrepos "github.com/trezcool/studyhub/storage/database/sqlx"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// DBCloser releases the database connections.
	DBCloser func() error

	Stores struct {
		dig.Out
		Users     user.Repository
		Questions qa.Repository
		Deadlines deadline.Repository
		Close     DBCloser
	}

	ServerParams struct {
		dig.In
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
)

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

// newStores opens the configured database, or in-memory stores when none is configured.
func newStores(conf *core.Config, loggerParam DBLoggerParam) Stores {
	logger := loggerParam.Logger
	if conf.Database.InMemory() {
		logger.Warn("DATABASE_URL not set: using in-memory stores")
		db := inmemdb.Open()
		return Stores{
			Users:     inmemdb.NewUserRepository(db),
			Questions: inmemdb.NewQuestionRepository(db),
			Deadlines: inmemdb.NewDeadlineRepository(db),
			Close:     func() error { return nil },
		}
	}

	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	if err = database.Migrate(context.Background(), db.DB); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}
	return Stores{
		Users:     sqlxrepos.NewUserRepository(db),
		Questions: sqlxrepos.NewQuestionRepository(db),
		Deadlines: sqlxrepos.NewDeadlineRepository(db),
		Close:     db.Close,
	}
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newSyncService(users *user.Service, repo deadline.Repository, lms core.LMSGateway) *deadline.SyncService {
	return deadline.NewSyncService(users, repo, lms)
}

func newCourseService(users *user.Service, lms core.LMSGateway) *course.Service {
	return course.NewService(users, lms)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:        p.Conf,
		Logger:      p.Logger,
		Validate:    p.Validate,
		Translator:  p.Translator,
		UserSvc:     p.UserSvc,
		QASvc:       p.QASvc,
		DeadlineSvc: p.DeadlineSvc,
		SyncSvc:     p.SyncSvc,
		CourseSvc:   p.CourseSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	return newContainer(core.NewConfig)
}

func newContainer(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStores))
	must(c.Provide(moodle.NewClient, dig.As(new(core.LMSGateway))))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(user.NewService))
	must(c.Provide(qa.NewService))
	must(c.Provide(deadline.NewService))
	must(c.Provide(newSyncService))
	must(c.Provide(newCourseService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
