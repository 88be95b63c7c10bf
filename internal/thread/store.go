// Package thread holds the message list of the selected chat and the
// composition buffer for the next outgoing message.
package thread

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/bus"
	"github.com/mvolkoff/beseda/internal/precond"
)

const (
	// ErrEmptyMessage rejects sends whose trimmed text is empty.
	ErrEmptyMessage = precond.Error("empty message text")
	// ErrNoChat rejects sends with no chat selected.
	ErrNoChat = precond.Error("no chat selected")
)

// Store keeps the thread snapshot for one chat at a time. A reload
// fully supersedes the prior snapshot; messages are never merged,
// reordered or patched locally.
type Store struct {
	mu     sync.RWMutex
	source adapter.Source
	bus    *bus.Bus

	chatID int64
	msgs   []adapter.Message
	draft  string

	seq     uint64
	applied uint64
}

// New creates an empty thread store.
func New(source adapter.Source, b *bus.Bus) *Store {
	return &Store{source: source, bus: b}
}

// Load replaces the thread with the server's current order for chatID.
// On failure the last good snapshot stays and the error is returned.
// A response that lost the race to a newer load is discarded.
func (s *Store) Load(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	msgs, err := s.source.ListMessages(ctx, chatID)
	if err != nil {
		return fmt.Errorf("load thread %d: %w", chatID, err)
	}

	s.mu.Lock()
	if seq < s.applied {
		s.mu.Unlock()
		return nil
	}
	s.applied = seq
	s.chatID = chatID
	s.msgs = msgs
	s.mu.Unlock()

	s.publish(bus.KindThreadUpdated, chatID)
	return nil
}

// SendText appends a text message. Empty trimmed text or a missing
// chat id is a precondition violation: no network call happens and the
// draft is untouched. On adapter failure the draft is also untouched
// so the user keeps what they typed; nothing is inserted locally. On
// success the composition buffer is cleared; the caller then reloads
// thread and roster.
func (s *Store) SendText(ctx context.Context, chatID, senderID int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if chatID == 0 {
		return ErrNoChat
	}

	err := s.source.AppendMessage(ctx, adapter.Append{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  text,
		Kind:     adapter.MessageText,
	})
	if err != nil {
		return fmt.Errorf("send text: %w", err)
	}

	s.mu.Lock()
	s.draft = ""
	s.mu.Unlock()
	return nil
}

// SendVoice appends a voice message with the given duration. Same
// append semantics as SendText; the draft is not involved.
func (s *Store) SendVoice(ctx context.Context, chatID, senderID int64, durationSeconds int) error {
	if chatID == 0 {
		return ErrNoChat
	}

	err := s.source.AppendMessage(ctx, adapter.Append{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  "Голосовое сообщение",
		Kind:     adapter.MessageVoice,
		Duration: durationSeconds,
	})
	if err != nil {
		return fmt.Errorf("send voice: %w", err)
	}
	return nil
}

// SetDraft stores the in-progress composition text.
func (s *Store) SetDraft(text string) {
	s.mu.Lock()
	s.draft = text
	s.mu.Unlock()
}

// Draft returns the in-progress composition text.
func (s *Store) Draft() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// Messages returns a copy of the current snapshot.
func (s *Store) Messages() []adapter.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]adapter.Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

// ChatID returns the chat the current snapshot belongs to.
func (s *Store) ChatID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatID
}

func (s *Store) publish(kind string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}
