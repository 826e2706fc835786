// Package publisher streams completed simulation summaries to a
// RabbitMQ queue for downstream consumers (reporting, registries).
package publisher

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/harrykososuta/avf-simulator/internal/domain"
)

const publishTimeout = 10 * time.Second

// RabbitMQPublisher owns one connection and channel and serializes all
// publishes through a mailbox goroutine, so handlers never block on the
// broker.
type RabbitMQPublisher struct {
	queueName string
	conn      *amqp.Connection
	channel   *amqp.Channel
	mailbox   chan domain.SimulationRecord
	wg        sync.WaitGroup
}

// NewRabbitMQPublisher connects to the broker and declares the queue.
// Returns an error when the broker is unreachable; callers fall back to
// running without a publisher.
func NewRabbitMQPublisher(addr, queueName string) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(addr)
	if err != nil {
		return nil, err
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	p := &RabbitMQPublisher{
		queueName: queueName,
		conn:      conn,
		channel:   channel,
		mailbox:   make(chan domain.SimulationRecord, 64),
	}
	p.wg.Add(1)
	go p.run()
	return p, nil
}

func (p *RabbitMQPublisher) run() {
	defer p.wg.Done()
	for rec := range p.mailbox {
		if err := p.push(rec); err != nil {
			log.Printf("publisher: failed to push simulation record: %v", err)
		}
	}
}

func (p *RabbitMQPublisher) push(rec domain.SimulationRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(
		ctx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Publish enqueues a record for publication. Non-blocking: when the
// mailbox is full the record is dropped with a log line rather than
// stalling a request.
func (p *RabbitMQPublisher) Publish(rec domain.SimulationRecord) {
	select {
	case p.mailbox <- rec:
	default:
		log.Println("publisher: mailbox full, dropping simulation record")
	}
}

// Close drains the mailbox and tears down the channel and connection.
func (p *RabbitMQPublisher) Close() {
	close(p.mailbox)
	p.wg.Wait()
	if err := p.channel.Close(); err != nil {
		log.Printf("publisher: error closing channel: %v", err)
	}
	if err := p.conn.Close(); err != nil {
		log.Printf("publisher: error closing connection: %v", err)
	}
}
