// Package call models the client-side call session. No media
// negotiation happens; transitions are pure state updates and the
// overlay is a visual placeholder.
package call

import (
	"sync"
	"time"

	"github.com/mvolkoff/beseda/internal/bus"
	"github.com/mvolkoff/beseda/internal/precond"
)

// Mode is the call session state.
type Mode string

const (
	ModeIdle       Mode = "idle"
	ModeDirect     Mode = "direct"
	ModeConference Mode = "conference"
)

const (
	// ErrNoChat rejects call starts with no chat selected.
	ErrNoChat = precond.Error("no chat selected for call")
	// ErrNoParticipants rejects conference starts with an empty
	// participant snapshot; the session invariant requires a non-empty
	// list while in conference mode.
	ErrNoParticipants = precond.Error("conference requires participants")
)

// Info is a snapshot of an active call.
type Info struct {
	Mode         Mode
	ChatID       int64
	ChatName     string
	Participants []string
	StartedAt    time.Time
}

// Session enforces at most one active call. The peer chat is bound at
// transition time and not retargeted when the roster selection later
// changes. Starting a new call while one is active force-ends the
// current one first.
type Session struct {
	mu  sync.RWMutex
	bus *bus.Bus
	now func() time.Time

	mode         Mode
	chatID       int64
	chatName     string
	participants []string
	startedAt    time.Time
}

// NewSession creates a session in ModeIdle.
func NewSession(b *bus.Bus) *Session {
	return &Session{bus: b, now: time.Now, mode: ModeIdle}
}

// StartDirect begins a one-to-one call bound to the given chat.
func (s *Session) StartDirect(chatID int64, chatName string) error {
	if chatID == 0 {
		return ErrNoChat
	}
	s.mu.Lock()
	s.endLocked()
	s.mode = ModeDirect
	s.chatID = chatID
	s.chatName = chatName
	s.startedAt = s.now()
	info := s.infoLocked()
	s.mu.Unlock()

	s.publish(bus.KindCallStarted, info)
	return nil
}

// StartConference begins a conference call with a snapshot of
// participants taken at call-start time. Mid-call joins and leaves are
// not modeled.
func (s *Session) StartConference(chatID int64, chatName string, participants []string) error {
	if chatID == 0 {
		return ErrNoChat
	}
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	s.mu.Lock()
	s.endLocked()
	s.mode = ModeConference
	s.chatID = chatID
	s.chatName = chatName
	s.participants = append([]string(nil), participants...)
	s.startedAt = s.now()
	info := s.infoLocked()
	s.mu.Unlock()

	s.publish(bus.KindCallStarted, info)
	return nil
}

// End returns the session to ModeIdle and clears participants.
// Idempotent: ending an idle session does nothing.
func (s *Session) End() {
	s.mu.Lock()
	if s.mode == ModeIdle {
		s.mu.Unlock()
		return
	}
	elapsed := s.now().Sub(s.startedAt)
	s.endLocked()
	s.mu.Unlock()

	s.publish(bus.KindCallEnded, elapsed)
}

// endLocked resets to idle. Callers hold s.mu.
func (s *Session) endLocked() {
	s.mode = ModeIdle
	s.chatID = 0
	s.chatName = ""
	s.participants = nil
	s.startedAt = time.Time{}
}

// Mode returns the current state.
func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Active returns a snapshot of the current call, false when idle.
func (s *Session) Active() (Info, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mode == ModeIdle {
		return Info{}, false
	}
	return s.infoLocked(), true
}

func (s *Session) infoLocked() Info {
	return Info{
		Mode:         s.mode,
		ChatID:       s.chatID,
		ChatName:     s.chatName,
		Participants: append([]string(nil), s.participants...),
		StartedAt:    s.startedAt,
	}
}

func (s *Session) publish(kind string, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}
