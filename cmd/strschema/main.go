// Command strschema compiles the schema DSL to JSON Schema and OpenAPI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/reoring/strschema/internal/app"
	"github.com/reoring/strschema/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run is main without the process exit, for tests.
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	opts, shouldExit, err := cli.Parse(args, stderr)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}
	return cli.FromError(app.New(stdin, stdout, stderr, opts).Run(ctx))
}
