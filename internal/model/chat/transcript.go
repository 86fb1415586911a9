package chat

import "sync"

// Transcript is the append-only message log of one session. It defines the
// prompt context sent to the completion backend on every turn; entries are
// never reordered or removed.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{messages: make([]Message, 0, 16)}
}

// Append adds a message at the end of the log.
func (t *Transcript) Append(msg Message) {
	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.mu.Unlock()
}

// Snapshot copies out the current message sequence.
func (t *Transcript) Snapshot() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	copied := make([]Message, len(t.messages))
	copy(copied, t.messages)
	return copied
}

// Len reports the number of stored messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
