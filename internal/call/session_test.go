package call

import (
	"errors"
	"testing"
	"time"

	"github.com/mvolkoff/beseda/internal/bus"
	"github.com/mvolkoff/beseda/internal/precond"
)

func TestStartDirect(t *testing.T) {
	s := NewSession(nil)
	if err := s.StartDirect(1, "Анна Петрова"); err != nil {
		t.Fatalf("StartDirect: %v", err)
	}

	info, ok := s.Active()
	if !ok || info.Mode != ModeDirect {
		t.Fatalf("Active = %+v, %v", info, ok)
	}
	if info.ChatID != 1 || info.ChatName != "Анна Петрова" {
		t.Fatalf("bound chat = %+v", info)
	}
	if len(info.Participants) != 0 {
		t.Fatalf("direct call has participants: %v", info.Participants)
	}
}

func TestStartDirectWithoutChat(t *testing.T) {
	s := NewSession(nil)
	err := s.StartDirect(0, "")
	if !errors.Is(err, ErrNoChat) || !precond.Is(err) {
		t.Fatalf("err = %v, want ErrNoChat", err)
	}
	if s.Mode() != ModeIdle {
		t.Fatalf("mode = %v after rejected start", s.Mode())
	}
}

func TestStartConference(t *testing.T) {
	s := NewSession(nil)
	participants := []string{"Анна", "Михаил"}
	if err := s.StartConference(2, "Команда разработки", participants); err != nil {
		t.Fatalf("StartConference: %v", err)
	}

	// The session holds its own snapshot; mutating the caller's slice
	// must not leak in.
	participants[0] = "mutated"
	info, _ := s.Active()
	if info.Participants[0] != "Анна" {
		t.Fatalf("participants aliased: %v", info.Participants)
	}
	if info.Mode != ModeConference || len(info.Participants) != 2 {
		t.Fatalf("info = %+v", info)
	}
}

func TestStartConferenceWithoutParticipants(t *testing.T) {
	s := NewSession(nil)
	err := s.StartConference(2, "Команда разработки", nil)
	if !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("err = %v, want ErrNoParticipants", err)
	}
	if s.Mode() != ModeIdle {
		t.Fatalf("mode = %v", s.Mode())
	}
}

func TestStartForceEndsActiveCall(t *testing.T) {
	b := bus.New()
	ch, cancel := b.Subscribe(bus.KindCallEnded, 8)
	defer cancel()

	s := NewSession(b)
	if err := s.StartDirect(1, "Анна"); err != nil {
		t.Fatalf("StartDirect: %v", err)
	}
	if err := s.StartConference(2, "Команда", []string{"Анна"}); err != nil {
		t.Fatalf("StartConference: %v", err)
	}

	info, _ := s.Active()
	if info.Mode != ModeConference || info.ChatID != 2 {
		t.Fatalf("info = %+v", info)
	}
	// endLocked is silent on mode switch; only an explicit End emits.
	select {
	case ev := <-ch:
		t.Fatalf("unexpected end event on takeover: %+v", ev)
	default:
	}
}

func TestEndIsIdempotent(t *testing.T) {
	b := bus.New()
	ch, cancel := b.Subscribe(bus.KindCallEnded, 8)
	defer cancel()

	s := NewSession(b)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	if err := s.StartDirect(1, "Анна"); err != nil {
		t.Fatalf("StartDirect: %v", err)
	}
	s.now = func() time.Time { return base.Add(90 * time.Second) }

	s.End()
	s.End()

	if s.Mode() != ModeIdle {
		t.Fatalf("mode = %v", s.Mode())
	}
	if _, ok := s.Active(); ok {
		t.Fatal("Active after End")
	}
	ev := <-ch
	if got := ev.Payload.(time.Duration); got != 90*time.Second {
		t.Fatalf("elapsed = %v, want 90s", got)
	}
	select {
	case ev := <-ch:
		t.Fatalf("second End published: %+v", ev)
	default:
	}
}

func TestParticipantsEmptyIffNotConference(t *testing.T) {
	s := NewSession(nil)
	check := func(stage string) {
		t.Helper()
		info, active := s.Active()
		mode := ModeIdle
		if active {
			mode = info.Mode
		}
		if (len(info.Participants) > 0) != (mode == ModeConference) {
			t.Fatalf("%s: mode %v with participants %v", stage, mode, info.Participants)
		}
	}

	check("idle")
	s.StartDirect(1, "Анна")
	check("direct")
	s.StartConference(2, "Команда", []string{"Анна"})
	check("conference")
	s.End()
	check("ended")
}
