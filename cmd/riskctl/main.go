// Command riskctl estimates credit scores and scores applicant CSV files
// from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"creditrisk/internal/platform/logger"
)

var (
	version = "v0.0.1-default"
	commit  = ""
)

const (
	formatText = "text"
	formatJSON = "json"
)

const logLevelFlag = "log-level"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "riskctl: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "riskctl",
		Usage:     "Credit score estimates and batch default-risk scoring",
		Version:   fmt.Sprintf("%s (commit: %s)", version, commit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  logLevelFlag,
				Usage: "Log level on stderr [debug, info, warn, error]",
				Value: "warn",
			},
		},
		Commands: []*cli.Command{
			newEstimateCmd(),
			newBatchCmd(),
		},
	}
}

func newLogger(cmd *cli.Command) *slog.Logger {
	return logger.NewText(cmd.Root().ErrWriter, cmd.String(logLevelFlag))
}
