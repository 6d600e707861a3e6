package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/easelai/easel/internal/app"
	"github.com/easelai/easel/internal/cli"
)

// main is the entrypoint for the easel CLI.
func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, args []string) (err error) {
	appConfig, shouldExit, parseErr := cli.Parse(args, errW)
	if parseErr != nil {
		return parseErr
	}
	if shouldExit {
		return nil
	}

	// The builder panics on state-invariant violations that a correctly
	// gated UI makes impossible; a CLI user can reach them, so surface a
	// clean message instead of a stack trace.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid generation state: %v", r)
		}
	}()

	easelApp := app.NewApp(outW, errW, appConfig)
	return easelApp.Run(context.Background())
}
