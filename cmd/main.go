package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"tradeconsole/cmd/backtester"
	"tradeconsole/cmd/sessions"
)

var Version string

func main() {
	_ = godotenv.Load()

	app := cli.NewApp()
	app.Name = "Trade Console CMD"
	app.Usage = "The trading session console command line interface"

	app.Commands = []cli.Command{
		sessionsCMD,
		backtestCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	sessionsCMD = cli.Command{
		Name:      "sessions",
		Usage:     "list trading sessions",
		Action:    sessionsAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "mode", Value: "PAPER", Usage: "PAPER or LIVE"},
		},
		Description: `List the engine's sessions for one trading mode`,
	}
	backtestCMD = cli.Command{
		Name:      "backtest",
		Usage:     "run a session backtest",
		Action:    backtestAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.Int64Flag{Name: "session", Usage: "session id"},
			cli.StringFlag{Name: "start", Value: "2023-01-01", Usage: "start date (YYYY-MM-DD)"},
			cli.StringFlag{Name: "end", Usage: "end date (YYYY-MM-DD), defaults to today"},
		},
		Description: `Run a backtest with the session's own strategy bindings and print the summary`,
	}
)

func sessionsAction(c *cli.Context) error {
	logrus.Info("Starting sessions CMD")

	lister := &sessions.Lister{Mode: c.String("mode")}
	err := lister.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}

func backtestAction(c *cli.Context) error {
	logrus.Info("Starting backtest CMD")

	runner := &backtester.Runner{
		SessionID: c.Int64("session"),
		StartDate: c.String("start"),
		EndDate:   c.String("end"),
	}
	err := runner.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}
