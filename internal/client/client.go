// Package client is the application context: the signed-in user, the
// data source, and the stores, plus the workflows that span them
// (chat switching triggers a thread reload, a send refreshes thread
// and roster).
package client

import (
	"context"
	"sync"
	"time"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/bus"
	"github.com/mvolkoff/beseda/internal/call"
	"github.com/mvolkoff/beseda/internal/notify"
	"github.com/mvolkoff/beseda/internal/precond"
	"github.com/mvolkoff/beseda/internal/roster"
	"github.com/mvolkoff/beseda/internal/thread"
	"github.com/mvolkoff/beseda/internal/voice"
	"go.uber.org/zap"
)

// Client wires the stores together for one signed-in user.
type Client struct {
	userID int64
	source adapter.Source
	bus    *bus.Bus
	logger *zap.Logger

	Roster   *roster.Store
	Thread   *thread.Store
	Call     *call.Session
	Recorder *voice.Recorder
	Flash    notify.Flash

	mu      sync.RWMutex
	profile *adapter.User
	calls   []adapter.CallEntry
}

// New creates a client for the given user over the given source.
func New(userID int64, source adapter.Source, b *bus.Bus, logger *zap.Logger) *Client {
	c := &Client{
		userID: userID,
		source: source,
		bus:    b,
		logger: logger,
		Roster: roster.New(source, userID, b),
		Thread: thread.New(source, b),
		Call:   call.NewSession(b),
	}
	c.Recorder = voice.New(voiceSender{c}, b)
	return c
}

// UserID returns the signed-in user's id.
func (c *Client) UserID() int64 { return c.userID }

// Bootstrap performs the initial loads: roster (with the thread of the
// auto-selected chat), profile and call history. Failures are logged
// and flashed but do not abort startup; the affected panel simply
// stays empty until a manual retry.
func (c *Client) Bootstrap(ctx context.Context) {
	if err := c.Roster.Load(ctx); err != nil {
		c.surface("load chats", err)
	} else if id := c.Roster.SelectedID(); id != 0 {
		if err := c.Thread.Load(ctx, id); err != nil {
			c.surface("load messages", err)
		}
	}
	if err := c.LoadProfile(ctx); err != nil {
		c.surface("load profile", err)
	}
	if err := c.LoadCalls(ctx); err != nil {
		c.surface("load call history", err)
	}
}

// SelectChat switches the selection and reloads the thread for it.
// Selecting an unknown chat is reported back as a precondition error
// and changes nothing.
func (c *Client) SelectChat(ctx context.Context, chatID int64) error {
	if err := c.Roster.Select(chatID); err != nil {
		c.logger.Warn("chat selection rejected", zap.Int64("chat_id", chatID), zap.Error(err))
		return err
	}
	if err := c.Thread.Load(ctx, chatID); err != nil {
		c.surface("load messages", err)
		return err
	}
	return nil
}

// SendDraft sends the composition buffer to the selected chat, then
// reloads thread and roster so previews reflect the server state.
// Precondition violations (empty draft, no selection) are silent
// no-ops; adapter failures keep the draft for retry.
func (c *Client) SendDraft(ctx context.Context) error {
	chatID := c.Roster.SelectedID()
	err := c.Thread.SendText(ctx, chatID, c.userID, c.Thread.Draft())
	if err != nil {
		if precond.Is(err) {
			return err
		}
		c.surface("send message", err)
		return err
	}
	c.refreshAfterSend(ctx, chatID)
	return nil
}

// StartCall begins a one-to-one call with the selected chat.
func (c *Client) StartCall() error {
	selected, ok := c.Roster.Selected()
	if !ok {
		return call.ErrNoChat
	}
	return c.Call.StartDirect(selected.ID, selected.Name)
}

// StartConference begins a conference bound to the selected chat. The
// participant list is a snapshot of the other roster names at
// call-start time.
func (c *Client) StartConference() error {
	selected, ok := c.Roster.Selected()
	if !ok {
		return call.ErrNoChat
	}
	var participants []string
	for _, ch := range c.Roster.Chats() {
		if ch.ID == selected.ID || ch.Kind != adapter.ChatDirect {
			continue
		}
		participants = append(participants, ch.Name)
	}
	return c.Call.StartConference(selected.ID, selected.Name, participants)
}

// EndCall ends any active call; idempotent.
func (c *Client) EndCall() {
	c.Call.End()
}

// LoadProfile fetches the signed-in user's profile snapshot.
func (c *Client) LoadProfile(ctx context.Context) error {
	u, err := c.source.GetUser(ctx, c.userID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.profile = u
	c.mu.Unlock()
	return nil
}

// Profile returns the last loaded profile, nil before the first
// successful load.
func (c *Client) Profile() *adapter.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

// LoadCalls fetches the call history snapshot.
func (c *Client) LoadCalls(ctx context.Context) error {
	calls, err := c.source.ListCalls(ctx, c.userID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.calls = calls
	c.mu.Unlock()
	return nil
}

// Calls returns the last loaded call history.
func (c *Client) Calls() []adapter.CallEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]adapter.CallEntry, len(c.calls))
	copy(out, c.calls)
	return out
}

// Feed assembles the notification feed from the current snapshots.
func (c *Client) Feed(previews bool) []notify.Entry {
	return notify.BuildFeed(c.Roster.Chats(), c.Calls(), previews)
}

// refreshAfterSend reloads the thread and the roster after a
// successful append. The two loads are independent; a failure here
// only delays the preview update until the next reload. The thread is
// reloaded only while chatID is still selected; a send that outlives
// a chat switch must not pull the old chat back into the view.
func (c *Client) refreshAfterSend(ctx context.Context, chatID int64) {
	if c.Roster.SelectedID() == chatID {
		if err := c.Thread.Load(ctx, chatID); err != nil {
			c.surface("refresh messages", err)
		}
	}
	if err := c.Roster.Load(ctx); err != nil {
		c.surface("refresh chats", err)
	}
}

func (c *Client) surface(op string, err error) {
	c.logger.Error(op+" failed", zap.Error(err))
	c.Flash.Set(op+" failed: "+err.Error(), 5*time.Second)
	if c.bus != nil {
		c.bus.Publish(bus.Event{
			Kind:      bus.KindFlash,
			Timestamp: time.Now(),
			Payload:   bus.Flash{Level: "error", Message: op + " failed"},
		})
	}
}

// voiceSender adapts the client's send-and-refresh workflow to the
// recorder's Sender interface.
type voiceSender struct {
	c *Client
}

func (v voiceSender) SendVoice(ctx context.Context, durationSeconds int) error {
	chatID := v.c.Roster.SelectedID()
	err := v.c.Thread.SendVoice(ctx, chatID, v.c.userID, durationSeconds)
	if err != nil {
		if precond.Is(err) {
			return err
		}
		v.c.surface("send voice message", err)
		return err
	}
	v.c.refreshAfterSend(ctx, chatID)
	return nil
}
