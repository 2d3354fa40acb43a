package main

import (
	"context"

	"github.com/trezcool/studyhub/storage/database"
)

var gooseRunFunc = database.RunMigrations // mockable

func (cli *commandLine) migrate(args []string) error {
	return gooseRunFunc(context.Background(), args[0], cli.db, args[1:]...)
}
