package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"factoryfloor/internal/config"
	"factoryfloor/internal/database"
	"factoryfloor/internal/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "factoryfloor",
	Short:         "Factory floor layout and workflow server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, initDBCmd, userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}

// env is what every subcommand starts from.
type env struct {
	cfg    *config.Config
	log    *zap.Logger
	stores *database.Stores
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	stores, err := database.Open(cfg.MainDBPath, cfg.MontazaDSN, cfg.CasDBPath, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &env{cfg: cfg, log: log, stores: stores}, nil
}

func (e *env) close() {
	e.stores.Close(e.log)
	_ = e.log.Sync()
}

func warn(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.New(color.FgYellow).Sprintf("WARNING: "+format, args...))
}
