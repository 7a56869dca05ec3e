package config

import (
	"encoding/json"
	"os"
)

type Config struct {
	// StateDir holds the SQLite transcript store.
	StateDir string `json:"state_dir"`

	// ContactsFile is an optional YAML contact directory for the payment
	// assistant. Empty means the built-in demo contacts.
	ContactsFile string `json:"contacts_file,omitempty"`

	Ledger LedgerConfig `json:"ledger"`
	Coach  CoachConfig  `json:"coach"`
	Server ServerConfig `json:"server"`
	Voice  VoiceConfig  `json:"voice"`
}

type LedgerConfig struct {
	BaseURL    string `json:"base_url"`
	APIKey     string `json:"api_key,omitempty"`
	CustomerID string `json:"customer_id"`
	AccountID  string `json:"account_id"`

	// TimeoutSeconds is a plain integer so the file stays hand-editable.
	TimeoutSeconds int `json:"timeout_seconds"`
}

type CoachConfig struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	APIKey     string `json:"api_key,omitempty"`
	BaseURL    string `json:"base_url,omitempty"`
	MaxTurns   int    `json:"max_turns"`
	MaxRetries int    `json:"max_retries"`
}

type ServerConfig struct {
	Addr string `json:"addr"`
}

type VoiceConfig struct {
	RecordCmd      string   `json:"record_cmd"`
	RecordArgs     []string `json:"record_args,omitempty"`
	TranscribeCmd  string   `json:"transcribe_cmd"`
	TranscribeArgs []string `json:"transcribe_args,omitempty"`
	SpeakCmd       string   `json:"speak_cmd"`
	SpeakArgs      []string `json:"speak_args,omitempty"`
	ListenSeconds  int      `json:"listen_seconds"`
}

func DefaultConfig() *Config {
	return &Config{
		StateDir: ".fincoach",
		Ledger: LedgerConfig{
			BaseURL:        "http://api.nessieisreal.com",
			CustomerID:     "demo-customer",
			AccountID:      "demo-account",
			TimeoutSeconds: 15,
		},
		Coach: CoachConfig{
			Provider:   "anthropic",
			Model:      "claude-sonnet-4-20250514",
			MaxTurns:   10,
			MaxRetries: 2,
		},
		Server: ServerConfig{
			Addr: ":5000",
		},
		Voice: VoiceConfig{
			RecordCmd:     "rec",
			RecordArgs:    []string{"-q", "-r", "16000", "-c", "1"},
			TranscribeCmd: "whisper-cli",
			SpeakCmd:      "say",
			ListenSeconds: 5,
		},
	}
}

// Load reads the config file at path, merged over defaults. A missing file
// is not an error: defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills credentials from the environment when the file omitted
// them. Keys are supplied out-of-band; the config file normally carries
// none.
func (c *Config) applyEnv() {
	if c.Ledger.APIKey == "" {
		c.Ledger.APIKey = os.Getenv("NESSIE_API_KEY")
	}
	if c.Coach.APIKey == "" {
		switch c.Coach.Provider {
		case "openai":
			c.Coach.APIKey = os.Getenv("OPENAI_API_KEY")
		default:
			c.Coach.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if v := os.Getenv("FINCOACH_CUSTOMER_ID"); v != "" {
		c.Ledger.CustomerID = v
	}
	if v := os.Getenv("FINCOACH_ACCOUNT_ID"); v != "" {
		c.Ledger.AccountID = v
	}
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
