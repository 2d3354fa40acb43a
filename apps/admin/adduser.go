package main

import (
	"context"
	"fmt"

	"github.com/trezcool/studyhub/core"
	"github.com/trezcool/studyhub/core/user"
)

// addUser creates a user.User. The LMS token may be left empty and set up later.
func (cli *commandLine) addUser(uname, pwd, token string) error {
	nu := user.NewUser{
		Username: core.CleanString(uname),
		Password: pwd,
		LMSToken: core.CleanString(token),
	}
	usr, err := cli.usrSvc.Register(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "user %q created (%s)\n", usr.Username, usr.ID)
	return nil
}
