package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"community_server/server/common/infra/mq"
	commonlog "community_server/server/common/log"
)

const EventsExchange = "community.events"

const (
	EventUserRegistered      = "user.registered"
	EventTicketCreated       = "ticket.created"
	EventTicketUpdated       = "ticket.updated"
	EventAnnouncementCreated = "announcement.created"
	EventChatGroupDeleted    = "chat.group.deleted"
)

type Publisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

type AMQPPublisher struct {
	mu      sync.Mutex
	channel *amqp.Channel
}

func NewAMQPPublisher(conn *amqp.Connection) (*AMQPPublisher, error) {
	ch, err := mq.DeclareTopicExchange(conn, EventsExchange)
	if err != nil {
		return nil, err
	}
	return &AMQPPublisher{channel: ch}, nil
}

// Publish is safe for concurrent use; amqp channels are not.
func (p *AMQPPublisher) Publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel == nil {
		return errors.New("amqp publisher is closed")
	}
	return p.channel.PublishWithContext(ctx, EventsExchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
}

func (p *AMQPPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
}

// publish never fails the caller; delivery problems are logged.
func publish(ctx context.Context, p Publisher, key string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, key, payload); err != nil {
		commonlog.Warnf("publish %s: %v", key, err)
		return
	}
	commonlog.Debugf("published %s", key)
}
