package memory

import (
	"context"
	"sync"

	"github.com/baechuer/account-service/internal/application/account"
)

// Outbox is a Mailer that keeps verification emails in memory instead of
// delivering them.
type Outbox struct {
	mu   sync.Mutex
	sent []account.VerificationEmail
}

func NewOutbox() *Outbox { return &Outbox{} }

func (o *Outbox) SendVerification(ctx context.Context, msg account.VerificationEmail) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

// Last returns the most recent email sent to addr.
func (o *Outbox) Last(addr string) (account.VerificationEmail, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if o.sent[i].To == addr {
			return o.sent[i], true
		}
	}
	return account.VerificationEmail{}, false
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}
