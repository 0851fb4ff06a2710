package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cabbie/internal/config"
	"cabbie/pkg/logger"
)

var (
	tariffPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "cabctl",
	Short:         "Operator tools for the cab booking service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tariffPath, "tariff", os.Getenv("TARIFF_PATH"), "YAML tariff file (built-in tariff when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")

	rootCmd.AddCommand(migrateCmd, quoteCmd, tariffCmd)
}

func newLogger() *zap.Logger {
	log, err := logger.New(logLevel, "console")
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func loadTariff() (config.Tariff, error) {
	return config.LoadTariff(tariffPath)
}
