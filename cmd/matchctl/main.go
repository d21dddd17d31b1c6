package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "matchctl",
		Usage: "Operate the organ matching service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:8080",
				Usage:   "base URL of the organmatch server",
				EnvVars: []string{"ORGANMATCH_SERVER"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "bearer token for the hospital tenant",
				EnvVars: []string{"ORGANMATCH_TOKEN"},
			},
		},
		Commands: []*cli.Command{
			tokenCmd,
			matchCmd,
			listCmd,
			commitCmd,
			releaseCmd,
			recordsCmd,
		},
	}
}
