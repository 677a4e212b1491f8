package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interviewer/internal/app"
	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/logger"
)

const name = "interviewctl"

var (
	debug   bool
	jsonLog bool

	rootCmd = &cobra.Command{
		Use:          name,
		Short:        "interviewctl runs administrative tasks against the interview store",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")
}

// bootstrap loads the environment and wires the same services the API uses.
func bootstrap(ctx context.Context) (*app.App, error) {
	cfg := config.Load()

	log, err := logger.New(jsonLog || cfg.Log.JSON, debug || cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	a, err := app.New(ctx, cfg, log.With(zap.String("cli", name)))
	if err != nil {
		return nil, err
	}
	return a, nil
}
