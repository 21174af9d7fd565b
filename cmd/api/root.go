package main

import (
	"fmt"
	"os"

	"github.com/Mugiii7/CustomHA/internal/config"
	"github.com/Mugiii7/CustomHA/internal/core/service"
	"github.com/Mugiii7/CustomHA/internal/core/store"
	"github.com/Mugiii7/CustomHA/internal/metrics"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "demohome",
	Short: "Demo Home is a simulated smart home backend",
	Long: `Demo Home serves a fixed set of simulated entities over HTTP, with optional
MQTT and Modbus TCP mirrors, and renders them as a self-contained dashboard.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("config errors: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	return zap.Must(zapCfg.Build())
}

// newCore wires the store, dispatcher and integration shared by every command.
func newCore(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*store.MemoryStore, *service.DemoIntegration) {
	s := store.NewDemo(store.WithLogger(logger))
	dispatcher := service.NewDispatcher(s, nil, logger)
	// a nil *Metrics must not end up behind the interface
	if m != nil {
		dispatcher.Recorder = m
	}
	return s, service.NewDemoIntegration(s, dispatcher, cfg.Demo.ServerName)
}
