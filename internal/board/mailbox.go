package board

import (
	"sync"

	"github.com/hkmoud/fogsign/internal/domain"
)

// Compile-time interface check.
var _ domain.Sink = (*Mailbox)(nil)

// Mailbox is the process-wide pending-update slot. Ingestors put
// complete payloads in; the animation loop takes them out once per
// tick. There is no queue: the last writer wins, matching the single
// pending flag of the device. The lock stands in for the "callbacks
// run on the main task" guarantee the device's radio stack gave.
type Mailbox struct {
	mu   sync.Mutex
	slot *domain.Payload
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox { return &Mailbox{} }

// Put stores a payload, replacing any payload not yet consumed.
func (m *Mailbox) Put(p domain.Payload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slot = &p
}

// Take removes and returns the pending payload, if any.
func (m *Mailbox) Take() (domain.Payload, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slot == nil {
		return domain.Payload{}, false
	}
	p := *m.slot
	m.slot = nil
	return p, true
}

// Pending reports whether a payload is waiting without consuming it.
func (m *Mailbox) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slot != nil
}
