package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"
)

// version is set via ldflags at build time.
// e.g. -ldflags "-X main.version=1.2.3"
var version = "dev"

// newApp creates the CLI application with all flags and commands.
func newApp() *cli.Command {
	return &cli.Command{
		Name:        "fincoach",
		Usage:       "Banking demo assistants over the Nessie sandbox",
		Version:     version,
		UsageText:   "fincoach [global options] command [command options] [arguments...]",
		Description: "A rule-based payment chatbot and an LLM financial coach sharing one sandbox ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "fincoach.json",
			},
			&cli.StringFlag{
				Name:  "account",
				Usage: "Override the demo account ID",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "LLM provider: anthropic, openai",
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "Override the coach model",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Verbose logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(cmd.Bool("verbose"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API for both assistants",
				Action: cmdServe,
			},
			{
				Name:      "ask",
				Usage:     "Ask the financial coach one question",
				ArgsUsage: "<question>",
				Action:    cmdAsk,
			},
			{
				Name:   "coach",
				Usage:  "Interactive financial coach session",
				Action: cmdCoach,
			},
			{
				Name:   "voice",
				Usage:  "Voice loop for the payment assistant (record, transcribe, answer, speak)",
				Action: cmdVoice,
			},
			{
				Name:   "accounts",
				Usage:  "List the demo customer's accounts",
				Action: cmdAccounts,
			},
			{
				Name:      "history",
				Usage:     "Show a session's recorded transcript",
				ArgsUsage: "[session-id]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "tools", Usage: "Include recorded tool calls"},
				},
				Action: cmdHistory,
			},
			{
				Name:   "init",
				Usage:  "Write a default config file",
				Action: cmdInit,
			},
			{
				Name:   "config",
				Usage:  "Show current configuration",
				Action: cmdConfig,
			},
		},
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
	slog.SetDefault(slog.New(handler))
}
