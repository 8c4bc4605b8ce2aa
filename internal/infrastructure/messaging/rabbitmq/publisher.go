package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/account-service/internal/application/account"
)

const (
	DefaultExchange = "account.events"

	RoutingKeyVerifyEmail = "account.email.verify.requested"

	appID = "account-service"

	// Upper bound on waiting for the broker's verdict when ctx has no deadline.
	confirmTimeout = 2 * time.Second
	// A basic.return may arrive just after its ack.
	returnGrace = 50 * time.Millisecond
)

var (
	ErrUnroutable = errors.New("rabbitmq: verify email unroutable")
	ErrNacked     = errors.New("rabbitmq: verify email nacked")
)

// VerifyEmailEvent is the message consumed by the downstream email service.
type VerifyEmailEvent struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	URL      string `json:"url"`
	PIN      string `json:"pin"`
}

// Publisher relays verification emails to an email service. Each message is
// published mandatory and persistent; SendVerification returns only after
// the broker has confirmed it.
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	sess *session
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	sess, err := dial(url, exchange)
	if err != nil {
		return nil, err
	}
	return &Publisher{url: url, exchange: exchange, sess: sess}, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drop()
	return nil
}

// SendVerification implements account.Mailer.
func (p *Publisher) SendVerification(ctx context.Context, msg account.VerificationEmail) error {
	pub, err := verifyEmailPublishing(msg, time.Now())
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmTimeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil || !p.sess.alive() {
		p.drop()
		if p.sess, err = dial(p.url, p.exchange); err != nil {
			return err
		}
	}

	s := p.sess
	s.drain()
	if err := s.ch.PublishWithContext(ctx, p.exchange, RoutingKeyVerifyEmail, true, false, pub); err != nil {
		p.drop()
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return awaitConfirm(ctx, s.confirms, s.returns)
}

func (p *Publisher) drop() {
	if p.sess != nil {
		p.sess.close()
		p.sess = nil
	}
}

func toVerifyEmailEvent(msg account.VerificationEmail) VerifyEmailEvent {
	return VerifyEmailEvent{
		Email:    msg.To,
		Username: msg.Username,
		URL:      msg.Link,
		PIN:      msg.PIN,
	}
}

// verifyEmailPublishing builds the AMQP message for one verification email.
// MessageId lets the consumer drop redeliveries.
func verifyEmailPublishing(msg account.VerificationEmail, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(toVerifyEmailEvent(msg))
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal verify email: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         RoutingKeyVerifyEmail,
		AppId:        appID,
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}

// awaitConfirm waits for the broker's verdict on the last publish.
// A return (no queue bound) wins over a racing ack.
func awaitConfirm(ctx context.Context, confirms <-chan amqp.Confirmation, returns <-chan amqp.Return) error {
	select {
	case ret := <-returns:
		return unroutable(ret)

	case conf := <-confirms:
		select {
		case ret := <-returns:
			return unroutable(ret)
		case <-time.After(returnGrace):
		}
		if !conf.Ack {
			return fmt.Errorf("%w: delivery tag %d", ErrNacked, conf.DeliveryTag)
		}
		return nil

	case <-ctx.Done():
		return fmt.Errorf("rabbitmq confirm: %w", ctx.Err())
	}
}

func unroutable(ret amqp.Return) error {
	return fmt.Errorf("%w: %d %s", ErrUnroutable, ret.ReplyCode, ret.ReplyText)
}
