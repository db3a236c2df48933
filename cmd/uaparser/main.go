package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

var version = "dev"

const (
	flagRegexes      = "regexes"
	flagS3Bucket     = "s3-bucket"
	flagS3Key        = "s3-key"
	flagMatchTimeout = "match-timeout"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "uaparser",
		Usage:   "classify User-Agent strings into device, OS and browser",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagRegexes, Usage: "path to the pattern file (default $UAPARSER_REGEXES)"},
			&cli.StringFlag{Name: flagS3Bucket, Usage: "load patterns from this S3 bucket"},
			&cli.StringFlag{Name: flagS3Key, Usage: "object key of the pattern file in the bucket"},
			&cli.DurationFlag{Name: flagMatchTimeout, Usage: "per-pattern regex match timeout"},
		},
		Commands: []*cli.Command{
			parseCommand(),
			checkCommand(),
			serveCommand(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
