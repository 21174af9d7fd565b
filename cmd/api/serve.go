package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	adactor "github.com/Mugiii7/CustomHA/internal/adapter/actor"
	"github.com/Mugiii7/CustomHA/internal/config"
	"github.com/Mugiii7/CustomHA/internal/core/actor"
	"github.com/Mugiii7/CustomHA/internal/core/port"
	"github.com/Mugiii7/CustomHA/internal/metrics"
	"github.com/Mugiii7/CustomHA/internal/server"
	"github.com/Mugiii7/CustomHA/internal/util/actorutil"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the enabled transports",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

const shutdownTimeout = 5 * time.Second

// gracefulShutdown waits for ctx to end, then gives in-flight requests
// shutdownTimeout to finish before signalling done.
func gracefulShutdown(ctx context.Context, apiServer *http.Server, logger *zap.Logger, done chan<- bool) {
	<-ctx.Done()
	logger.Info("shutting down http server", zap.String("addr", apiServer.Addr))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server forced to shut down", zap.Error(err))
	}

	done <- true
}

func serve(cfg *config.Config) error {
	logger := newLogger(cfg)
	defer logger.Sync()
	logger.Info("using config", zap.Any("config", cfg.Redacted()))

	m := metrics.New()
	s, integration := newCore(cfg, m, logger)

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, integration, modbusActorProvider(cfg, s, m, logger),
			mqttActorProvider(cfg, m, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, "master")
	if err != nil {
		return err
	}

	apiServer := server.NewServer(*cfg, ctx, pid, integration, m, logger)
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go gracefulShutdown(sigCtx, apiServer, logger, done)

	logger.Info("http server listening", zap.String("addr", apiServer.Addr))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}

	// Wait for the graceful shutdown to complete
	<-done
	logger.Info("graceful shutdown complete")

	ctx.Stop(pid)
	as.Shutdown()
	return nil
}

func modbusActorProvider(cfg *config.Config, reader port.EntityReader, m *metrics.Metrics, logger *zap.Logger) actor.ModbusActorProvider {
	return func() *adactor.ModbusActor {
		return adactor.NewModbusActor(cfg.Modbus, reader, m, logger)
	}
}

func mqttActorProvider(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) actor.MQTTActorProvider {
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, m, logger)
	}
}
