package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Notifier delivers a human-readable notice. Email or SMS senders can be
// swapped in behind it.
type Notifier interface {
	Notify(subject, message string) error
}

// ConsoleNotifier writes every notice to the log.
type ConsoleNotifier struct {
	log zerolog.Logger
}

func NewConsole(log zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{log: log}
}

func (c *ConsoleNotifier) Notify(subject, message string) error {
	c.log.Info().Str("subject", subject).Msg(message)
	return nil
}

// Notice is one captured notification.
type Notice struct {
	Subject string
	Message string
}

// MemoryNotifier keeps notices in memory.
type MemoryNotifier struct {
	mu      sync.Mutex
	Notices []Notice
	Err     error
}

func (m *MemoryNotifier) Notify(subject, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Notices = append(m.Notices, Notice{Subject: subject, Message: message})
	return nil
}
