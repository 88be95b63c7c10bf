// Package roster holds the ordered chat list for the signed-in user
// and the current selection.
package roster

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/bus"
	"github.com/mvolkoff/beseda/internal/precond"
)

// ErrUnknownChat is returned when a selection targets a chat that is
// not in the current snapshot.
const ErrUnknownChat = precond.Error("chat not in roster")

// Store keeps the roster snapshot. Ordering is server-defined and
// never re-sorted client-side. A failed load keeps the previous
// snapshot intact.
type Store struct {
	mu     sync.RWMutex
	source adapter.Source
	userID int64
	bus    *bus.Bus

	chats    []adapter.Chat
	selected int64 // 0 = no selection

	// Monotonic load sequencing: a response that lost the race to a
	// newer one is discarded instead of overwriting fresher data.
	seq     uint64
	applied uint64
}

// New creates an empty roster store for the given user.
func New(source adapter.Source, userID int64, b *bus.Bus) *Store {
	return &Store{source: source, userID: userID, bus: b}
}

// Load fetches the roster. On the first successful load with no
// selection yet, the first chat is auto-selected. On failure the store
// is untouched and the error is returned for the caller to surface.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	chats, err := s.source.ListChats(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	s.mu.Lock()
	if seq < s.applied {
		// A newer load already finished; this snapshot is stale.
		s.mu.Unlock()
		return nil
	}
	s.applied = seq
	s.chats = chats

	var autoSelected int64
	if s.selected == 0 && len(chats) > 0 {
		s.selected = chats[0].ID
		autoSelected = s.selected
	}
	s.mu.Unlock()

	s.publish(bus.KindRosterUpdated, len(chats))
	if autoSelected != 0 {
		s.publish(bus.KindRosterSelected, autoSelected)
	}
	return nil
}

// Select makes chatID the current selection. Selecting a chat that is
// not in the snapshot is a precondition violation and leaves the
// selection unchanged.
func (s *Store) Select(chatID int64) error {
	s.mu.Lock()
	if !s.containsLocked(chatID) {
		s.mu.Unlock()
		return ErrUnknownChat
	}
	changed := s.selected != chatID
	s.selected = chatID
	s.mu.Unlock()

	if changed {
		s.publish(bus.KindRosterSelected, chatID)
	}
	return nil
}

// Chats returns a copy of the current snapshot.
func (s *Store) Chats() []adapter.Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]adapter.Chat, len(s.chats))
	copy(out, s.chats)
	return out
}

// Selected returns the currently selected chat, if any.
func (s *Store) Selected() (adapter.Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chats {
		if c.ID == s.selected {
			return c, true
		}
	}
	return adapter.Chat{}, false
}

// SelectedID returns the selected chat id, 0 when nothing is selected.
func (s *Store) SelectedID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

func (s *Store) containsLocked(chatID int64) bool {
	for _, c := range s.chats {
		if c.ID == chatID {
			return true
		}
	}
	return false
}

func (s *Store) publish(kind string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}
