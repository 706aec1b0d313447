package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"mexc-connector/internal/config"
	"mexc-connector/internal/exchange/mexc"
	"mexc-connector/internal/strategy"
	"mexc-connector/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.App.LogLevel,
		OutputFile: cfg.App.LogFile,
		MaxSize:    cfg.App.LogMaxSizeMB,
		MaxBackups: cfg.App.LogMaxBackups,
		MaxAge:     cfg.App.LogMaxAgeDays,
		Compress:   cfg.App.LogCompress,
	}); err != nil {
		logrus.Fatalf("Failed to init logger: %v", err)
	}

	logrus.Info("Config loaded successfully")
	logrus.Infof("Directional strategy enabled: %v", cfg.Strategies.Directional.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := mexc.NewClient(cfg.Exchanges.Mexc)

	if latency, err := client.Futures.Ping(ctx); err != nil {
		logrus.WithError(err).Warn("futures ping failed")
	} else {
		logrus.Infof("futures ping: %v", latency)
	}

	if !cfg.Strategies.Directional.Enabled {
		return
	}

	directional := strategy.NewDirectionalStrategy(cfg.Strategies.Directional, client.Futures)
	results, err := directional.Run(ctx)
	if err != nil {
		logrus.Fatalf("Invalid directional targets: %v", err)
	}
	for _, r := range results {
		if r.Err != nil {
			stop()
			os.Exit(1)
		}
	}
}
