package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/bus"
	"github.com/mvolkoff/beseda/internal/call"
	"github.com/mvolkoff/beseda/internal/precond"
	"go.uber.org/zap"
)

type fakeSource struct {
	mu sync.Mutex

	chats    []adapter.Chat
	messages map[int64][]adapter.Message
	user     adapter.User
	calls    []adapter.CallEntry

	appendErr error
	appends   []adapter.Append
	// onAppend runs after a successful append, before the client's
	// post-send refresh.
	onAppend func()

	listChatsCalls    int
	listMessagesCalls int
}

func (f *fakeSource) ListChats(ctx context.Context, userID int64) ([]adapter.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listChatsCalls++
	out := make([]adapter.Chat, len(f.chats))
	copy(out, f.chats)
	return out, nil
}

func (f *fakeSource) ListMessages(ctx context.Context, chatID int64) ([]adapter.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listMessagesCalls++
	return f.messages[chatID], nil
}

func (f *fakeSource) GetUser(ctx context.Context, userID int64) (*adapter.User, error) {
	u := f.user
	return &u, nil
}

func (f *fakeSource) ListCalls(ctx context.Context, userID int64) ([]adapter.CallEntry, error) {
	return f.calls, nil
}

func (f *fakeSource) AppendMessage(ctx context.Context, req adapter.Append) error {
	f.mu.Lock()
	if f.appendErr != nil {
		f.mu.Unlock()
		return f.appendErr
	}
	f.appends = append(f.appends, req)
	hook := f.onAppend
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (f *fakeSource) resetCounters() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listChatsCalls = 0
	f.listMessagesCalls = 0
}

func testSource() *fakeSource {
	now := time.Now()
	return &fakeSource{
		chats: []adapter.Chat{
			{ID: 1, Name: "Анна Петрова", Kind: adapter.ChatDirect, Unread: 2, LastMessageAt: &now},
			{ID: 2, Name: "Команда разработки", Kind: adapter.ChatGroup},
			{ID: 3, Name: "Михаил Иванов", Kind: adapter.ChatDirect},
		},
		messages: map[int64][]adapter.Message{
			1: {{ID: 10, ChatID: 1, SenderID: 2, Kind: adapter.MessageText, Content: "Привет"}},
			3: {{ID: 11, ChatID: 3, SenderID: 3, Kind: adapter.MessageText, Content: "Ок"}},
		},
		user: adapter.User{ID: 1, FullName: "Мария Волкова"},
		calls: []adapter.CallEntry{
			{ID: 1, ChatID: 2, Kind: adapter.CallVideo, Status: adapter.CallMissed, ChatName: "Команда разработки"},
		},
	}
}

func testClient(src *fakeSource) *Client {
	return New(1, src, bus.New(), zap.NewNop())
}

func TestBootstrapLoadsEverything(t *testing.T) {
	src := testSource()
	c := testClient(src)

	c.Bootstrap(context.Background())

	if got := c.Roster.SelectedID(); got != 1 {
		t.Fatalf("selected chat = %d, want 1", got)
	}
	if got := len(c.Thread.Messages()); got != 1 {
		t.Fatalf("thread has %d messages, want 1", got)
	}
	if p := c.Profile(); p == nil || p.FullName != "Мария Волкова" {
		t.Fatalf("profile = %+v", p)
	}
	if got := len(c.Calls()); got != 1 {
		t.Fatalf("call history has %d entries, want 1", got)
	}
}

func TestSelectChatReloadsThread(t *testing.T) {
	src := testSource()
	c := testClient(src)
	c.Bootstrap(context.Background())

	if err := c.SelectChat(context.Background(), 3); err != nil {
		t.Fatalf("SelectChat: %v", err)
	}
	if got := c.Thread.ChatID(); got != 3 {
		t.Fatalf("thread chat = %d, want 3", got)
	}
	msgs := c.Thread.Messages()
	if len(msgs) != 1 || msgs[0].Content != "Ок" {
		t.Fatalf("thread = %+v", msgs)
	}
}

func TestSelectUnknownChatKeepsState(t *testing.T) {
	src := testSource()
	c := testClient(src)
	c.Bootstrap(context.Background())

	err := c.SelectChat(context.Background(), 99)
	if !precond.Is(err) {
		t.Fatalf("want precondition error, got %v", err)
	}
	if got := c.Roster.SelectedID(); got != 1 {
		t.Fatalf("selection moved to %d", got)
	}
	if got := c.Thread.ChatID(); got != 1 {
		t.Fatalf("thread moved to chat %d", got)
	}
}

func TestSendDraftRefreshesOnce(t *testing.T) {
	src := testSource()
	c := testClient(src)
	c.Bootstrap(context.Background())
	src.resetCounters()

	c.Thread.SetDraft("  добрый день  ")
	if err := c.SendDraft(context.Background()); err != nil {
		t.Fatalf("SendDraft: %v", err)
	}

	if len(src.appends) != 1 {
		t.Fatalf("append called %d times, want 1", len(src.appends))
	}
	req := src.appends[0]
	if req.ChatID != 1 || req.SenderID != 1 || req.Content != "добрый день" || req.Kind != adapter.MessageText {
		t.Fatalf("append = %+v", req)
	}
	if src.listMessagesCalls != 1 || src.listChatsCalls != 1 {
		t.Fatalf("refresh loads = %d thread, %d roster; want 1 and 1",
			src.listMessagesCalls, src.listChatsCalls)
	}
	if c.Thread.Draft() != "" {
		t.Fatalf("draft not cleared: %q", c.Thread.Draft())
	}
}

func TestSendRefreshSkipsSwitchedChat(t *testing.T) {
	src := testSource()
	c := testClient(src)
	c.Bootstrap(context.Background())

	// The user moves to another chat while the append is in flight;
	// the late refresh must not pull the old chat back.
	src.onAppend = func() {
		if err := c.Roster.Select(3); err != nil {
			t.Errorf("Select: %v", err)
		}
	}
	src.resetCounters()

	c.Thread.SetDraft("вдогонку")
	if err := c.SendDraft(context.Background()); err != nil {
		t.Fatalf("SendDraft: %v", err)
	}

	if src.listMessagesCalls != 0 {
		t.Fatalf("thread reloaded %d times for a deselected chat, want 0", src.listMessagesCalls)
	}
	if src.listChatsCalls != 1 {
		t.Fatalf("roster loads = %d, want 1", src.listChatsCalls)
	}
}

func TestSendDraftEmptyIsNoop(t *testing.T) {
	src := testSource()
	c := testClient(src)
	c.Bootstrap(context.Background())
	src.resetCounters()

	c.Thread.SetDraft("   ")
	err := c.SendDraft(context.Background())
	if !precond.Is(err) {
		t.Fatalf("want precondition error, got %v", err)
	}
	if len(src.appends) != 0 {
		t.Fatalf("append called on empty draft")
	}
	if src.listMessagesCalls != 0 || src.listChatsCalls != 0 {
		t.Fatalf("refresh ran on rejected send")
	}
}

func TestSendDraftFailureKeepsDraft(t *testing.T) {
	src := testSource()
	c := testClient(src)
	c.Bootstrap(context.Background())
	src.appendErr = errors.New("connection refused")

	c.Thread.SetDraft("повторю позже")
	if err := c.SendDraft(context.Background()); err == nil {
		t.Fatal("want error")
	}
	if got := c.Thread.Draft(); got != "повторю позже" {
		t.Fatalf("draft lost: %q", got)
	}
}

func TestVoiceRecorderAppendsOnce(t *testing.T) {
	src := testSource()
	c := testClient(src)
	c.Bootstrap(context.Background())

	if err := c.Recorder.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Recorder.Start(); !precond.Is(err) {
		t.Fatalf("second Start: want precondition error, got %v", err)
	}
	if err := c.Recorder.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	var voices []adapter.Append
	for _, a := range src.appends {
		if a.Kind == adapter.MessageVoice {
			voices = append(voices, a)
		}
	}
	if len(voices) != 1 {
		t.Fatalf("voice appends = %d, want 1", len(voices))
	}
	if voices[0].Duration < 1 {
		t.Fatalf("duration = %d, want at least 1", voices[0].Duration)
	}
	if c.Recorder.Recording() {
		t.Fatal("recorder still active after Stop")
	}
}

func TestConferenceParticipantsFromRoster(t *testing.T) {
	src := testSource()
	c := testClient(src)
	c.Bootstrap(context.Background())

	if err := c.StartConference(); err != nil {
		t.Fatalf("StartConference: %v", err)
	}
	info, ok := c.Call.Active()
	if !ok || info.Mode != call.ModeConference {
		t.Fatalf("call = %+v, active %v", info, ok)
	}
	if len(info.Participants) != 1 || info.Participants[0] != "Михаил Иванов" {
		t.Fatalf("participants = %v", info.Participants)
	}
	c.EndCall()
	if _, ok := c.Call.Active(); ok {
		t.Fatal("call still active after EndCall")
	}
}

func TestStartCallWithoutSelection(t *testing.T) {
	c := testClient(&fakeSource{})
	if err := c.StartCall(); !precond.Is(err) {
		t.Fatalf("want precondition error, got %v", err)
	}
}
