package nats

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	natsgo "github.com/nats-io/nats.go"
)

// Connect dials the NATS server with reconnect handling that logs through slog.
func Connect(url, clientName string, logger *slog.Logger) (*natsgo.Conn, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("nats url is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return natsgo.Connect(url,
		natsgo.Name(clientName),
		natsgo.Timeout(5*time.Second),
		natsgo.MaxReconnects(10),
		natsgo.ReconnectWait(2*time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
		natsgo.ReconnectHandler(func(conn *natsgo.Conn) {
			logger.Info("nats reconnected", slog.String("url", conn.ConnectedUrl()))
		}),
	)
}

// ConnectFromEnv dials NATS_URL. When unset or unreachable, it logs and returns nil with a no-op cleanup.
func ConnectFromEnv(clientName string, logger *slog.Logger) (*natsgo.Conn, func()) {
	url := strings.TrimSpace(os.Getenv("NATS_URL"))
	if url == "" {
		if logger != nil {
			logger.Info("NATS_URL not set, order events disabled")
		}
		return nil, func() {}
	}
	conn, err := Connect(url, clientName, logger)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to nats, order events disabled", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("nats connection established", slog.String("url", url))
	}
	return conn, func() { _ = conn.Drain() }
}
