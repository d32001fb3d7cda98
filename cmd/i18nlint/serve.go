package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tangzhangming/i18nlint/internal/logging"
	"github.com/tangzhangming/i18nlint/internal/lsp"
)

var serveLogFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the language server over stdio",
	Long: `Start the i18n linter language server.

The server talks LSP over stdin/stdout. Logs go to stderr (errors only) and,
when --log is given, to a JSON log file. Set I18NLINT_LSP_DEBUG=1 for debug logs.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveLogFile, "log", "", "log file path (default: no file log)")
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logLevel
	if level == "" {
		level = "info"
	}
	log, err := logging.NewServerLogger(serveLogFile, level, logging.DebugEnabled())
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := lsp.NewServer(lsp.Options{
		In:      os.Stdin,
		Out:     os.Stdout,
		Logger:  log,
		Version: Version,
	})
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("LSP server error", zap.Error(err))
		return err
	}
	return nil
}
