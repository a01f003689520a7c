package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/gridview/internal/app"
	"github.com/specialistvlad/gridview/internal/cli"
)

// main is the entrypoint for the gridview application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:], nil); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. A nil environ reads the process environment.
func run(outW, errW io.Writer, args []string, environ map[string]string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW, environ)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Store accessors panic on programmer errors; report them as failures.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application panicked: %v", r)
		}
	}()

	gridviewApp, err := app.NewApp(outW, errW, appConfig)
	if err != nil {
		return err
	}
	return gridviewApp.Run(context.Background())
}
