package chatcmder

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ewittry/parley/pkg/config"
	"github.com/ewittry/parley/pkg/llm"
	"github.com/ewittry/parley/pkg/logger"
	"github.com/ewittry/parley/pkg/transcript"
	"github.com/ewittry/parley/repl"
)

const chatLongDesc string = `Start an interactive chat session.

Input is read line by line from stdin; each line is sent to the
configured completion provider together with the whole conversation so
far. Type 'quit' (any case) to end the session.

When a transcript database is configured (--db or db_path in the config
file), every completed exchange is recorded as a content-addressed
entry chain; browse it later with 'parley history'.

Examples:
  parley chat
  parley chat --model mistral --url http://localhost:11434
  parley chat --db ~/.parley/parley.db`

const chatShortDesc string = "Chat with a language model"

type chatCommander struct {
	configPath  string
	model       string
	baseURL     string
	temperature float64
	dbPath      string
	plain       bool
	debug       bool
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to config file (default ~/.parley/config.toml)")
	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", "Model to chat with")
	cmd.Flags().StringVarP(&cmder.baseURL, "url", "u", "", "Completion provider base URL")
	cmd.Flags().Float64VarP(&cmder.temperature, "temperature", "t", 0, "Sampling temperature (0.0-2.0)")
	cmd.Flags().StringVar(&cmder.dbPath, "db", "", "Record the transcript to this SQLite database")
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Disable colored output")
	cmd.Flags().BoolVar(&cmder.debug, "debug", false, "Enable debug logging")

	return cmd
}

func (c *chatCommander) run(cmd *cobra.Command) error {
	// Credentials may live in a .env next to the working directory
	config.LoadDotenv()

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewLogger(c.debug)
	defer log.Sync()

	temp := cfg.Temperature
	client := llm.NewClient(llm.ClientConfig{
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		APIKey:      config.APIKey(),
		Temperature: &temp,
	}, log)

	log.Debug("chat session starting",
		zap.String("url", cfg.BaseURL),
		zap.String("model", cfg.Model),
		zap.Float64("temperature", cfg.Temperature),
	)

	var recorder repl.Recorder
	if cfg.DBPath != "" {
		storer, err := transcript.NewSQLiteStorer(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("could not open transcript database %s: %w", cfg.DBPath, err)
		}
		defer storer.Close()
		recorder = transcript.NewRecorder(storer, cfg.Model)
		log.Debug("recording transcript", zap.String("db", cfg.DBPath))
	}

	styled := !c.plain && term.IsTerminal(int(os.Stdout.Fd()))

	session := repl.NewSession(client, repl.Config{
		In:       cmd.InOrStdin(),
		Out:      cmd.OutOrStdout(),
		Recorder: recorder,
		Styled:   styled,
	}, log)

	return session.Run(cmd.Context())
}

// loadConfig resolves the effective configuration: defaults, then the
// TOML file, then flag overrides.
func (c *chatCommander) loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := c.configPath
	required := path != ""
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return config.Config{}, err
		}
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return config.Config{}, err
	}

	if c.model != "" {
		cfg.Model = c.model
	}
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature = c.temperature
	}
	if c.dbPath != "" {
		cfg.DBPath = c.dbPath
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return config.Config{}, errors.New("temperature must be between 0.0 and 2.0")
	}

	return cfg, nil
}
