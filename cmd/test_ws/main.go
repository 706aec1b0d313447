package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"mexc-connector/internal/config"
	"mexc-connector/internal/exchange/mexc"
	"mexc-connector/pkg/ws"
)

func main() {
	logrus.Info("Testing MEXC futures WebSocket...")

	cfg, err := config.LoadConfig("config")
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	client := mexc.NewClient(cfg.Exchanges.Mexc)

	// Public session when no api key is configured
	var login func() ([]byte, error)
	if cfg.Exchanges.Mexc.APIKey != "" {
		login = client.Futures.LoginStatement
	}

	wsClient := ws.NewClient(client.Futures.WSURL(), login, client.Futures.PingStatement(), func(data []byte) {
		logrus.Infof("Received: %s", string(data))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := wsClient.Connect(ctx); err != nil {
		logrus.Fatalf("Failed to connect: %v", err)
	}
	defer wsClient.Close()

	logrus.Info("Connected. Press Ctrl+C to exit...")

	// Wait for interrupt signal or a dropped connection
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-wsClient.Done():
		logrus.Warn("Connection closed by server")
	}

	logrus.Info("Shutting down...")
}
