package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/studyhub/core"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                  - run a goose command (up, down, status, redo, version, ...)")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME [-token T]   - create a user; the password is prompted next")
	fmt.Fprintln(cli.out, "  sync -username USERNAME                 - synchronize the user's deadlines from the LMS")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserCmd.SetOutput(cli.out)
	addUserUname := addUserCmd.String("username", "", "The user's username. The password will be prompted next.")
	addUserToken := addUserCmd.String("token", "", "The user's LMS web service token.")

	syncCmd := flag.NewFlagSet("sync", flag.ExitOnError)
	syncCmd.SetOutput(cli.out)
	syncUname := syncCmd.String("username", "", "The user's username.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		uname := core.CleanString(*addUserUname)
		if uname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(uname, string(pwd), *addUserToken)
	case "sync":
		if err := syncCmd.Parse(args[2:]); err != nil {
			return err
		}
		uname := core.CleanString(*syncUname)
		if uname == "" {
			syncCmd.Usage()
			return errHelp
		}
		return cli.syncDeadlines(uname)
	default:
		cli.printUsage()
		return errHelp
	}
}
