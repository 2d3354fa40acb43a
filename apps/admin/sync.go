package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

func (cli *commandLine) syncDeadlines(uname string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByUsername(ctx, uname)
	if err != nil {
		return errors.Wrap(err, "finding user by username")
	}
	res, err := cli.syncSvc.SyncDeadlines(ctx, usr.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d deadline(s) inserted, %d already stored\n", res.Inserted, res.Skipped)
	return nil
}
