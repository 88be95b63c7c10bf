// Package voice implements the voice-recording toggle. No audio is
// actually captured; stopping materializes one voice message through
// the sender with the measured recording time.
package voice

import (
	"context"
	"sync"
	"time"

	"github.com/mvolkoff/beseda/internal/bus"
	"github.com/mvolkoff/beseda/internal/precond"
)

const (
	// ErrAlreadyRecording guards double starts.
	ErrAlreadyRecording = precond.Error("recording already active")
	// ErrNotRecording guards stops without a matching start.
	ErrNotRecording = precond.Error("no recording active")
)

// Sender materializes the voice message when a recording stops.
type Sender interface {
	SendVoice(ctx context.Context, durationSeconds int) error
}

// Recorder is the two-state recording flag.
type Recorder struct {
	mu     sync.Mutex
	sender Sender
	bus    *bus.Bus
	now    func() time.Time

	recording bool
	startedAt time.Time
}

// New creates an idle recorder.
func New(sender Sender, b *bus.Bus) *Recorder {
	return &Recorder{sender: sender, bus: b, now: time.Now}
}

// Start flips the recorder on. Starting while already recording is a
// precondition no-op; only one recording may be active.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	r.recording = true
	r.startedAt = r.now()
	r.mu.Unlock()

	r.publish(bus.KindRecorderStart, nil)
	return nil
}

// Stop flips the recorder off and sends exactly one voice message with
// the elapsed recording time, floored at one second. The recorder
// returns to idle even when the send fails; the failure is returned
// for the caller to surface.
func (r *Recorder) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return ErrNotRecording
	}
	r.recording = false
	seconds := int(r.now().Sub(r.startedAt).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	r.mu.Unlock()

	if err := r.sender.SendVoice(ctx, seconds); err != nil {
		return err
	}
	r.publish(bus.KindRecorderStop, seconds)
	return nil
}

// Recording reports whether a recording is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

func (r *Recorder) publish(kind string, payload any) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
}
