package main

import (
	"fmt"
	"os"

	"github.com/heaths/gitlab-compare/internal/cmd"
	"github.com/heaths/go-console"
)

func main() {
	opts := &cmd.GlobalOptions{
		Console: console.System(),
	}

	rootCmd := cmd.NewCompareCmd(opts, nil)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(opts.Console.Stderr(), cmd.Message(err))
		os.Exit(cmd.ExitCode(err))
	}
}
