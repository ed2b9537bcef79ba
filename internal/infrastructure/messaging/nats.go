package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
)

const (
	connectWait   = 5 * time.Second
	maxReconnects = -1
	reconnectWait = 2 * time.Second

	DefaultSubjectPrefix = "moderation"
)

// NewNATSConnection подключается к шине событий с бесконечными переподключениями.
func NewNATSConnection(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("classifieds-moderation"),
		nats.Timeout(connectWait),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.L().WithError(err).Warn("nats: соединение потеряно")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.L().WithField("url", nc.ConnectedUrl()).Info("nats: переподключено")
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			logger.L().Info("nats: соединение закрыто")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к NATS %s: %w", url, err)
	}
	return nc, nil
}

// publisher - часть *nats.Conn, которая нужна публикатору.
type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher отправляет события модерации в subject <prefix>.<type>.
type NATSPublisher struct {
	conn   publisher
	prefix string
}

func NewNATSPublisher(conn *nats.Conn, prefix string) *NATSPublisher {
	return newPublisher(conn, prefix)
}

func newPublisher(conn publisher, prefix string) *NATSPublisher {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Subject - имя subject для типа события, например moderation.listing.approved.
func (p *NATSPublisher) Subject(t event.Type) string {
	return p.prefix + "." + string(t)
}

// Publish реализует event.Publisher: ошибка доставки только логируется.
func (p *NATSPublisher) Publish(_ context.Context, evt event.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		logger.L().WithError(err).Error("nats: не удалось сериализовать событие")
		return
	}
	subject := p.Subject(evt.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		logger.WithFields(logrus.Fields{
			"subject":    subject,
			"listing_id": evt.ListingID,
		}).WithError(err).Warn("nats: событие не доставлено")
	}
}
