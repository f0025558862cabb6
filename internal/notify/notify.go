// Package notify announces generated sitemaps on a NATS subject.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	serrors "git.home.luguber.info/inful/sitemapper/internal/errors"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

const (
	connectTimeout = 2 * time.Second
	flushTimeout   = 5 * time.Second
)

// Generated is the message published after an artifact was written.
type Generated struct {
	BuildID     string    `json:"build_id"`
	Artifact    string    `json:"artifact"`
	Fingerprint string    `json:"fingerprint"`
	Pages       int       `json:"pages"`
	Blocks      int       `json:"blocks"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Publisher delivers build notifications.
type Publisher interface {
	Publish(ctx context.Context, msg Generated) error
	Close()
}

// NoopPublisher drops every notification.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Generated) error { return nil }
func (NoopPublisher) Close()                                   {}

// NATSPublisher publishes notifications with core NATS.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("sitemapper"),
		nats.Timeout(connectTimeout),
	)
	if err != nil {
		return nil, serrors.NotifyError(subject, err).WithContext("url", url)
	}

	slog.Debug("NATS publisher connected", "url", conn.ConnectedUrl(), logfields.Subject(subject))
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// Publish sends msg and waits until the server has received it.
func (p *NATSPublisher) Publish(ctx context.Context, msg Generated) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return serrors.NotifyError(p.subject, err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return serrors.NotifyError(p.subject, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return serrors.NotifyError(p.subject, err)
	}

	slog.DebugContext(ctx, "Published sitemap notification",
		logfields.Subject(p.subject),
		logfields.BuildID(msg.BuildID),
		logfields.Pages(msg.Pages))
	return nil
}

// Close drains and closes the connection.
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
