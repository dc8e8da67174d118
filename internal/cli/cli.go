package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"qualifier/internal/api"
	"qualifier/internal/engine/webhooks"
	"qualifier/internal/pkg/logger"
	"qualifier/internal/platform/config"
	"qualifier/internal/workflow"
)

const defaultConfigPath = "configs/config.yaml"

// CLI represents the command-line interface
type CLI struct {
	rootCmd    *cobra.Command
	configPath string
}

// Options contain configuration for the CLI
type Options struct {
	// Args replaces os.Args[1:] when non-nil.
	Args []string
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	cli := &CLI{}
	cli.rootCmd = cli.newRootCmd()
	if opts.Args != nil {
		cli.rootCmd.SetArgs(opts.Args)
	}
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "qualifier",
		Short:        "Register with the hiring service and submit the final SQL query",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         cli.runWorkflow,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", defaultConfigPath,
		"Path to the YAML config file (optional; environment variables and .env also apply)")

	cmd.AddCommand(cli.newStubCmd())

	return cmd
}

func (cli *CLI) loadConfig() (*config.Config, bool) {
	cfg, err := config.Load(cli.configPath)
	if err != nil {
		log.Error().Stack().Err(err).Msg("failed to load configuration")
		return nil, false
	}
	logger.Init(cfg.Logging)
	log.Debug().Str("config", cli.configPath).Msg("configuration loaded")
	return cfg, true
}

// runWorkflow always returns nil once arguments were parsed: the outcome of
// the flow is reported through the log, not the exit code.
func (cli *CLI) runWorkflow(cmd *cobra.Command, _ []string) error {
	cfg, ok := cli.loadConfig()
	if !ok {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return nil
	}

	ctx := log.Logger.WithContext(cmd.Context())
	workflow.NewRunner(*cfg, webhooks.NewClient(cfg.Hiring)).Run(ctx)
	return nil
}

func (cli *CLI) newStubCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve a local stand-in for the hiring API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, ok := cli.loadConfig()
			if !ok {
				return nil
			}
			if cmd.Flags().Changed("port") {
				cfg.Stub.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = log.Logger.WithContext(ctx)

			return api.NewStub(cfg.Stub, log.Logger).ListenAndServe(ctx, cfg.Stub)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultStubPort, "Port to listen on")

	return cmd
}
