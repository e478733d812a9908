// Command tcapi calls service APIs from the shell using the TASKCLUSTER_*
// environment or a config file.
package main

import (
	"bufio"
	"os"

	"github.com/mitchellh/cli"

	"github.com/kbukum/tcclient/version"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	name := "tcapi"
	if len(args) == 2 && (args[1] == "-version" || args[1] == "-v") {
		args = []string{name, "version"}
	}

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	c := &cli.CLI{
		Name:     name,
		Args:     args[1:],
		Version:  version.GetShortVersion(),
		Commands: commands(ui),
	}

	code, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	return code
}
