package main

import (
	"database/sql"
	"io"
	"log"
	"os"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/deadline"
	"github.com/trezcool/studyhub/core/user"
	logsvc "github.com/trezcool/studyhub/services/logger"
	"github.com/trezcool/studyhub/services/moodle"
	"github.com/trezcool/studyhub/storage/database"
	sqlxrepos "github.com/trezcool/studyhub/storage/database/sqlx"
)

type commandLine struct {
	db      *sql.DB
	usrSvc  *user.Service
	syncSvc *deadline.SyncService
	out     io.Writer
}

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	defer logger.Close()

	if conf.Database.InMemory() {
		logger.Fatal("DATABASE_URL is required")
	}

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("setting up database", err)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))

	// start CLI
	cli := commandLine{
		db:      db.DB,
		usrSvc:  usrSvc,
		syncSvc: deadline.NewSyncService(usrSvc, sqlxrepos.NewDeadlineRepository(db), moodle.NewClient(conf)),
		out:     os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		logger.Close()
		os.Exit(1)
	}
}
