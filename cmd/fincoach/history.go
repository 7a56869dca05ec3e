package main

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/exedev/fincoach/internal/state"
)

func cmdHistory(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfigFromCtx(cmd)
	if err != nil {
		return err
	}

	sessionID := cmd.Args().First()
	if sessionID == "" {
		sessionID = "default"
	}

	db, err := state.OpenDB(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open transcript store: %w", err)
	}
	defer db.Close()

	turns, err := db.Turns(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}
	if len(turns) == 0 {
		pterm.Info.Printfln("No transcript for session %q.", sessionID)
		return nil
	}

	for _, t := range turns {
		fmt.Println(formatTurn(t))
	}

	if !cmd.Bool("tools") {
		return nil
	}

	invocations, err := db.Invocations(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("read tool invocations: %w", err)
	}
	if len(invocations) > 0 {
		pterm.DefaultSection.Println("Tool calls")
		for _, inv := range invocations {
			fmt.Println(formatInvocation(inv))
		}
	}
	return nil
}

func formatTurn(t state.Turn) string {
	return fmt.Sprintf("%s  %-9s  %s", pterm.Gray(t.CreatedAt), t.Role, t.Content)
}

func formatInvocation(inv state.Invocation) string {
	outcome := "ok"
	if inv.IsError {
		outcome = "error"
	}
	return fmt.Sprintf("%s  %s(%s) -> %s: %s",
		pterm.Gray(inv.CreatedAt), inv.Tool, inv.Input, outcome, inv.Output)
}
