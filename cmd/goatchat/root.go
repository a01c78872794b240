package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mandalnilabja/goatchat/internal/config"
)

// globalFlags override config values for a single invocation.
type globalFlags struct {
	logLevel  string
	logFormat string
	provider  string
	model     string
}

// cli carries the state shared by subcommands. Services are opened on
// first use so commands like version never touch the database.
type cli struct {
	flags  globalFlags
	cfg    *config.Config
	logger *slog.Logger
	svc    *services
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}

	root := &cobra.Command{
		Use:          "goatchat",
		Short:        "Chat with AI providers from the terminal or over HTTP",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&c.flags.logFormat, "log-format", "", "log format: text or json")
	pf.StringVarP(&c.flags.provider, "provider", "p", "", "provider id (openrouter, openai, anthropic, gemini, closerouter, pollinations)")
	pf.StringVarP(&c.flags.model, "model", "m", "", "model id or alias")

	root.AddCommand(
		newServeCmd(c),
		newAskCmd(c),
		newChatCmd(c),
		newProvidersCmd(c),
		newCredsCmd(c),
		newConvoCmd(c),
		newLogsCmd(c),
		newVersionCmd(),
	)
	return root, c
}

// init loads configuration and applies flag overrides.
func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", config.ConfigPath(), err)
	}
	if c.flags.logLevel != "" {
		cfg.LogLevel = c.flags.logLevel
	}
	if c.flags.logFormat != "" {
		cfg.LogFormat = c.flags.logFormat
	}
	c.cfg = cfg
	c.logger = setupLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return nil
}

// services opens the runtime graph once.
func (c *cli) services() (*services, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	svc, err := newServices(c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.svc = svc
	return svc, nil
}

func (c *cli) close() {
	if c.svc == nil {
		return
	}
	if err := c.svc.Close(); err != nil && c.logger != nil {
		c.logger.Warn("failed to close storage", "error", err)
	}
	c.svc = nil
}

// genFlags are the generation options shared by ask and chat.
type genFlags struct {
	noStream       bool
	temperature    float64
	temperatureSet bool
	maxTokens      int
	apiKey         string
}

func (f *genFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&f.noStream, "no-stream", false, "wait for the full answer instead of streaming")
	fs.Float64VarP(&f.temperature, "temperature", "t", config.DefaultTemperature, "sampling temperature")
	fs.IntVar(&f.maxTokens, "max-tokens", 0, "maximum tokens to generate (0 = provider default)")
	fs.StringVar(&f.apiKey, "api-key", "", "credential for this call, overriding configured keys")
}

func (f *genFlags) load(cmd *cobra.Command) {
	f.temperatureSet = cmd.Flags().Changed("temperature")
}
