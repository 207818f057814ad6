// Command lsdesk manages the long and short operations of a trading desk.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/longshort/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when invoked by the shell to complete the command line.
	cmd.Completion(flag.CommandLine).Complete(commander.Name())

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
