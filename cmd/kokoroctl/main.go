// Command kokoroctl converts text to speech with a Kokoro voice, saves the
// result as a WAV file and optionally plays it back.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harunnryd/kokoroctl/pkg/logging"
	"github.com/harunnryd/kokoroctl/pkg/runner"
	"github.com/harunnryd/kokoroctl/pkg/studio"
	"github.com/harunnryd/kokoroctl/pkg/workflow"
)

// errFailed marks a command whose outcome was already reported as a status line.
var errFailed = errors.New("failed")

type app struct {
	configPath string
	envFile    string
	logLevel   string
	noColor    bool

	cfg    studio.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "kokoroctl",
		Short:             "Convert text to speech with Kokoro voices and save it as WAV",
		Version:           runner.Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "kokoroctl.yaml", "config file (optional)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the config (optional)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log_level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored status lines")

	root.AddCommand(newConvertCmd(a), newVoicesCmd(a), newReplCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(a.envFile); err != nil {
		if cmd.Flags().Changed("env-file") || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}
	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(a.configPath); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	cfg, err := studio.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg
	a.logger = logging.InitLogger(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if a.noColor {
		color.NoColor = true
	}
	return nil
}

func (a *app) engine(ctx context.Context, presenter workflow.Presenter) (*studio.Engine, error) {
	reg := studio.NewProviderRegistry()
	registerProviders(reg)
	return studio.NewEngine(ctx, studio.EngineOptions{
		Config:    a.cfg,
		Providers: reg,
		Presenter: presenter,
		Logger:    a.logger,
	})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		}
		os.Exit(1)
	}
}
