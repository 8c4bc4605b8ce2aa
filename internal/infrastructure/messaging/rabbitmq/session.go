package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// session is one connection with a confirm-mode channel on which the
// exchange has been declared.
type session struct {
	conn *amqp.Connection
	ch   *amqp.Channel

	confirms <-chan amqp.Confirmation
	returns  <-chan amqp.Return
}

func dial(url, exchange string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	s := &session{conn: conn}
	if s.ch, err = conn.Channel(); err != nil {
		s.close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	// durable topic exchange, shared with the email service
	if err := s.ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		s.close()
		return nil, fmt.Errorf("rabbitmq exchange %q: %w", exchange, err)
	}
	if err := s.ch.Confirm(false); err != nil {
		s.close()
		return nil, fmt.Errorf("rabbitmq confirm mode: %w", err)
	}

	s.confirms = s.ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	s.returns = s.ch.NotifyReturn(make(chan amqp.Return, 1))
	return s, nil
}

func (s *session) alive() bool {
	return s.conn != nil && !s.conn.IsClosed() && s.ch != nil && !s.ch.IsClosed()
}

// drain discards verdicts left over from a publish that timed out.
func (s *session) drain() {
	for {
		select {
		case <-s.confirms:
		case <-s.returns:
		default:
			return
		}
	}
}

func (s *session) close() {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		_ = s.conn.Close()
	}
}
