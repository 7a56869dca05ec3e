package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/exedev/fincoach/internal/chat"
	"github.com/exedev/fincoach/internal/coach"
	"github.com/exedev/fincoach/internal/config"
	"github.com/exedev/fincoach/internal/ledger"
	"github.com/exedev/fincoach/internal/llm"
	"github.com/exedev/fincoach/internal/server"
	"github.com/exedev/fincoach/internal/session"
	"github.com/exedev/fincoach/internal/state"
	"github.com/exedev/fincoach/internal/tools"
	"github.com/exedev/fincoach/internal/voice"
)

func loadConfigFromCtx(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if v := cmd.String("account"); v != "" {
		cfg.Ledger.AccountID = v
	}
	if v := cmd.String("provider"); v != "" {
		cfg.Coach.Provider = v
		cfg.Coach.APIKey = "" // force re-resolution against the new provider
	}
	if v := cmd.String("model"); v != "" {
		cfg.Coach.Model = v
	}
	if cfg.Coach.APIKey == "" {
		switch cfg.Coach.Provider {
		case "openai":
			cfg.Coach.APIKey = os.Getenv("OPENAI_API_KEY")
		default:
			cfg.Coach.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	return cfg, nil
}

func newLedgerClient(cfg *config.Config) *ledger.Client {
	timeout := time.Duration(cfg.Ledger.TimeoutSeconds) * time.Second
	return ledger.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.APIKey, timeout)
}

func newAgent(cfg *config.Config, lc *ledger.Client, sessionID string, recorder coach.Recorder) (*coach.Agent, error) {
	client, err := llm.NewFromConfig(llm.ProviderConfig{
		Provider: cfg.Coach.Provider,
		Model:    cfg.Coach.Model,
		APIKey:   cfg.Coach.APIKey,
		BaseURL:  cfg.Coach.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	opts := []coach.Option{
		coach.WithMaxTurns(cfg.Coach.MaxTurns),
		coach.WithMaxRetries(cfg.Coach.MaxRetries),
		coach.WithSessionID(sessionID),
	}
	if recorder != nil {
		opts = append(opts, coach.WithRecorder(recorder))
	}

	catalog := tools.NewFinanceCatalog(lc)
	return coach.New(client, catalog, cfg.Ledger.AccountID, slog.Default(), opts...), nil
}

func cmdServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfigFromCtx(cmd)
	if err != nil {
		return err
	}

	db, err := state.OpenDB(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open transcript store: %w", err)
	}
	defer db.Close()

	contacts, err := chat.LoadContacts(cfg.ContactsFile)
	if err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}

	lc := newLedgerClient(cfg)
	handler := chat.NewHandler(lc, contacts, session.NewStore(), cfg.Ledger.AccountID, slog.Default())

	agentFactory := func(sessionID string) server.CoachAgent {
		if err := db.EnsureSession(ctx, sessionID, cfg.Ledger.AccountID); err != nil {
			slog.Warn("ensure session failed", "session", sessionID, "error", err)
		}
		agent, err := newAgent(cfg, lc, sessionID, db)
		if err != nil {
			return failedAgent{err}
		}
		return agent
	}

	srv := server.New(cfg.Server.Addr, handler, lc, cfg.Ledger.CustomerID, agentFactory, slog.Default())
	return srv.Run(ctx)
}

// failedAgent surfaces an agent construction error on first use instead of
// crashing the server.
type failedAgent struct{ err error }

func (f failedAgent) Chat(ctx context.Context, userMessage string) (string, error) {
	return "", f.err
}

func cmdAsk(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("usage: fincoach ask <question>")
	}
	question := strings.Join(args, " ")

	cfg, err := loadConfigFromCtx(cmd)
	if err != nil {
		return err
	}

	agent, err := newAgent(cfg, newLedgerClient(cfg), "ask", nil)
	if err != nil {
		return err
	}

	answer, err := agent.Chat(ctx, question)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

func cmdCoach(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfigFromCtx(cmd)
	if err != nil {
		return err
	}

	db, err := state.OpenDB(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open transcript store: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSession(ctx, "coach-repl", cfg.Ledger.AccountID); err != nil {
		slog.Warn("ensure session failed", "error", err)
	}
	agent, err := newAgent(cfg, newLedgerClient(cfg), "coach-repl", db)
	if err != nil {
		return err
	}

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if isTTY {
		pterm.DefaultHeader.Println("FinCoach")
		pterm.Info.Println("Ask about your balance, spending, or whether you can afford something. Type 'exit' to leave.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if isTTY {
			fmt.Print(pterm.Cyan("you> "))
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		answer, err := agent.Chat(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			pterm.Error.Printfln("coach: %v", err)
			continue
		}
		if isTTY {
			fmt.Printf("%s %s\n", pterm.Green("coach>"), answer)
		} else {
			fmt.Println(answer)
		}
	}
}

func cmdVoice(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfigFromCtx(cmd)
	if err != nil {
		return err
	}

	vh := voice.New(voice.Handler{
		RecordCmd:      cfg.Voice.RecordCmd,
		RecordArgs:     cfg.Voice.RecordArgs,
		TranscribeCmd:  cfg.Voice.TranscribeCmd,
		TranscribeArgs: cfg.Voice.TranscribeArgs,
		SpeakCmd:       cfg.Voice.SpeakCmd,
		SpeakArgs:      cfg.Voice.SpeakArgs,
		ListenSeconds:  cfg.Voice.ListenSeconds,
	}, slog.Default())

	if !vh.Available() {
		return fmt.Errorf("voice commands not found on PATH (record: %q, transcribe: %q)",
			cfg.Voice.RecordCmd, cfg.Voice.TranscribeCmd)
	}

	db, err := state.OpenDB(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open transcript store: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSession(ctx, "voice", cfg.Ledger.AccountID); err != nil {
		slog.Warn("ensure session failed", "error", err)
	}
	agent, err := newAgent(cfg, newLedgerClient(cfg), "voice", db)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("Listening in %d-second windows. Say 'goodbye' to stop.", cfg.Voice.ListenSeconds)
	return voiceLoop(ctx, vh, agent.Chat)
}

// voiceIO is the slice of the voice handler the loop needs.
type voiceIO interface {
	RecordAndTranscribe(ctx context.Context) (string, error)
	Speak(ctx context.Context, text string) error
}

// voiceLoop runs the spoken coach conversation: record an utterance, send
// the transcript through the tool-calling agent, speak the answer. The loop
// survives transcription and model errors and ends on a goodbye phrase.
func voiceLoop(ctx context.Context, vh voiceIO, respond func(context.Context, string) (string, error)) error {
	for ctx.Err() == nil {
		transcript, err := vh.RecordAndTranscribe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			pterm.Warning.Printfln("Didn't catch that: %v", err)
			continue
		}
		pterm.Println(pterm.Cyan("you> ") + transcript)

		lower := strings.ToLower(transcript)
		if strings.Contains(lower, "goodbye") || strings.Contains(lower, "exit") {
			break
		}

		answer, err := respond(ctx, transcript)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			pterm.Error.Printfln("coach: %v", err)
			continue
		}
		pterm.Println(pterm.Green("coach> ") + answer)
		if err := vh.Speak(ctx, answer); err != nil {
			slog.Warn("speak failed", "error", err)
		}
	}
	return nil
}

func cmdAccounts(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfigFromCtx(cmd)
	if err != nil {
		return err
	}

	accounts, err := newLedgerClient(cfg).Accounts(ctx, cfg.Ledger.CustomerID)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	if len(accounts) == 0 {
		pterm.Info.Println("No accounts found.")
		return nil
	}

	data := pterm.TableData{{"ID", "Nickname", "Type", "Balance"}}
	for _, a := range accounts {
		data = append(data, []string{a.ID, a.Nickname, a.Type, fmt.Sprintf("$%.2f", a.Balance)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func cmdInit(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	pterm.Success.Printfln("Config saved to %s", configPath)
	pterm.Info.Println("Set NESSIE_API_KEY and ANTHROPIC_API_KEY (or OPENAI_API_KEY) in your environment.")
	return nil
}

func cmdConfig(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfigFromCtx(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Configuration (%s):\n", cmd.String("config"))
	fmt.Printf("  State Dir:    %s\n", cfg.StateDir)
	fmt.Printf("  Ledger URL:   %s\n", cfg.Ledger.BaseURL)
	fmt.Printf("  Customer ID:  %s\n", cfg.Ledger.CustomerID)
	fmt.Printf("  Account ID:   %s\n", cfg.Ledger.AccountID)
	fmt.Printf("  Coach Model:  %s (%s)\n", cfg.Coach.Model, cfg.Coach.Provider)
	fmt.Printf("  Max Turns:    %d\n", cfg.Coach.MaxTurns)
	fmt.Printf("  Server Addr:  %s\n", cfg.Server.Addr)
	fmt.Printf("  Ledger Key:   %s\n", maskKey(cfg.Ledger.APIKey))
	fmt.Printf("  Coach Key:    %s\n", maskKey(cfg.Coach.APIKey))
	return nil
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
