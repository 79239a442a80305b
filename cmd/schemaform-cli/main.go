package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-schemaform/pkg/renderers/tui"
)

// app carries the state shared by every subcommand.
type app struct {
	verbose   bool
	logFormat string
	logger    *zap.Logger

	// prompts replaces the terminal prompt driver used by fill.
	prompts tui.PromptDriver
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	if a.logger == nil {
		a.logger = zap.NewNop()
	}

	root := &cobra.Command{
		Use:   "schemaform-cli",
		Short: "Render, validate and serve forms described by a field schema",
		Long: `schemaform-cli turns a JSON, YAML or OpenAPI field schema into an HTML form.

Schemas are lists of field descriptors (name, type, constraints). The same
constraint checks a browser applies run here, so submissions can be validated
from the command line, collected interactively or served over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if a.verbose {
				level = "debug"
			}
			logger, err := buildLogger(level, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "log encoding (console, json)")

	root.AddCommand(
		newRenderCmd(a),
		newValidateCmd(a),
		newFillCmd(a),
		newServeCmd(a),
	)
	return root
}

// buildLogger writes to stderr so command output on stdout stays clean.
func buildLogger(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	config := zap.NewProductionConfig()
	if format != "json" {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
