package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/illancapan/uno-test-full-stack/internal/entity"
)

const DefaultResultSubject = "memory.results.saved"

type ResultPublisher interface {
	ResultSaved(ctx context.Context, result *entity.GameResult) error
	Close()
}

type natsPublisher struct {
	logger  *slog.Logger
	conn    *nats.Conn
	subject string
}

// Connect dials the broker at url and publishes saved results to subject.
func Connect(logger *slog.Logger, url, subject string) (ResultPublisher, error) {
	opts := []nats.Option{
		nats.Name("memory-game-backend"),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(5),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	if subject == "" {
		subject = DefaultResultSubject
	}

	return &natsPublisher{
		logger:  logger.With("component", "result-publisher"),
		conn:    conn,
		subject: subject,
	}, nil
}

func (that *natsPublisher) ResultSaved(ctx context.Context, result *entity.GameResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err = that.conn.Publish(that.subject, payload); err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}

	that.logger.Debug("result published", "subject", that.subject, "id", result.ID)

	return nil
}

func (that *natsPublisher) Close() {
	if err := that.conn.Drain(); err != nil {
		that.logger.Error("failed to drain nats connection", "error", err)
	}
}

type nopPublisher struct{}

// NewNopPublisher is used when no broker is configured.
func NewNopPublisher() ResultPublisher {
	return nopPublisher{}
}

func (nopPublisher) ResultSaved(context.Context, *entity.GameResult) error { return nil }

func (nopPublisher) Close() {}
