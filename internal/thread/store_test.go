package thread

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/precond"
)

type fakeSource struct {
	messages map[int64][]adapter.Message
	listErr  error

	appendErr error
	appends   []adapter.Append
}

func (f *fakeSource) ListChats(ctx context.Context, userID int64) ([]adapter.Chat, error) {
	return nil, nil
}

func (f *fakeSource) ListMessages(ctx context.Context, chatID int64) ([]adapter.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.messages[chatID], nil
}

func (f *fakeSource) GetUser(ctx context.Context, userID int64) (*adapter.User, error) {
	return nil, nil
}

func (f *fakeSource) ListCalls(ctx context.Context, userID int64) ([]adapter.CallEntry, error) {
	return nil, nil
}

func (f *fakeSource) AppendMessage(ctx context.Context, req adapter.Append) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends = append(f.appends, req)
	return nil
}

func TestLoadReplacesThread(t *testing.T) {
	src := &fakeSource{messages: map[int64][]adapter.Message{
		1: {{ID: 1, ChatID: 1, Content: "первое"}, {ID: 2, ChatID: 1, Content: "второе"}},
		2: {{ID: 3, ChatID: 2, Content: "другой чат"}},
	}}
	s := New(src, nil)

	if err := s.Load(context.Background(), 1); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(s.Messages()); got != 2 {
		t.Fatalf("messages = %d, want 2", got)
	}

	// Switching chats fully replaces the snapshot, no merging.
	if err := s.Load(context.Background(), 2); err != nil {
		t.Fatalf("Load chat 2: %v", err)
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Content != "другой чат" {
		t.Fatalf("messages = %+v", msgs)
	}
	if got := s.ChatID(); got != 2 {
		t.Fatalf("chat id = %d, want 2", got)
	}
}

func TestLoadFailureKeepsSnapshot(t *testing.T) {
	src := &fakeSource{messages: map[int64][]adapter.Message{
		1: {{ID: 1, ChatID: 1, Content: "ок"}},
	}}
	s := New(src, nil)
	if err := s.Load(context.Background(), 1); err != nil {
		t.Fatalf("Load: %v", err)
	}

	src.listErr = errors.New("timeout")
	if err := s.Load(context.Background(), 2); err == nil {
		t.Fatal("want error")
	}
	if got := s.ChatID(); got != 1 {
		t.Fatalf("chat id = %d, want 1 after failed load", got)
	}
	if got := len(s.Messages()); got != 1 {
		t.Fatalf("snapshot lost: %d messages", got)
	}
}

func TestSendTextTrimsAndClearsDraft(t *testing.T) {
	src := &fakeSource{}
	s := New(src, nil)
	s.SetDraft("  привет  ")

	if err := s.SendText(context.Background(), 1, 7, s.Draft()); err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if len(src.appends) != 1 {
		t.Fatalf("appends = %d, want 1", len(src.appends))
	}
	req := src.appends[0]
	if req.Content != "привет" || req.ChatID != 1 || req.SenderID != 7 || req.Kind != adapter.MessageText {
		t.Fatalf("append = %+v", req)
	}
	if s.Draft() != "" {
		t.Fatalf("draft = %q, want empty", s.Draft())
	}
}

func TestSendTextPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		chatID int64
		text   string
		want   error
	}{
		{"empty text", 1, "", ErrEmptyMessage},
		{"whitespace only", 1, "   \n\t ", ErrEmptyMessage},
		{"no chat", 0, "привет", ErrNoChat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{}
			s := New(src, nil)
			s.SetDraft(tt.text)

			err := s.SendText(context.Background(), tt.chatID, 7, tt.text)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !precond.Is(err) {
				t.Fatalf("err is not a precondition error")
			}
			if len(src.appends) != 0 {
				t.Fatalf("append reached the network on a rejected send")
			}
			if s.Draft() != tt.text {
				t.Fatalf("draft changed to %q", s.Draft())
			}
		})
	}
}

func TestSendTextFailureKeepsDraft(t *testing.T) {
	src := &fakeSource{appendErr: errors.New("503")}
	s := New(src, nil)
	s.SetDraft("не потеряй меня")

	if err := s.SendText(context.Background(), 1, 7, s.Draft()); err == nil {
		t.Fatal("want error")
	}
	if got := s.Draft(); got != "не потеряй меня" {
		t.Fatalf("draft = %q", got)
	}
	if got := len(s.Messages()); got != 0 {
		t.Fatalf("message inserted locally on failure: %d", got)
	}
}

func TestSendVoice(t *testing.T) {
	src := &fakeSource{}
	s := New(src, nil)

	if err := s.SendVoice(context.Background(), 1, 7, 12); err != nil {
		t.Fatalf("SendVoice: %v", err)
	}
	req := src.appends[0]
	if req.Kind != adapter.MessageVoice || req.Duration != 12 {
		t.Fatalf("append = %+v", req)
	}
	if req.Content == "" {
		t.Fatal("voice message has no placeholder content")
	}

	if err := s.SendVoice(context.Background(), 0, 7, 3); !errors.Is(err, ErrNoChat) {
		t.Fatalf("err = %v, want ErrNoChat", err)
	}
}

// gatedSource holds its first ListMessages response until released so
// a later load can overtake it.
type gatedSource struct {
	fakeSource
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
	stale   []adapter.Message
	fresh   []adapter.Message
}

func (g *gatedSource) ListMessages(ctx context.Context, chatID int64) ([]adapter.Message, error) {
	g.mu.Lock()
	first := g.calls == 0
	g.calls++
	g.mu.Unlock()

	if first {
		close(g.entered)
		<-g.release
		return g.stale, nil
	}
	return g.fresh, nil
}

func TestLoadDiscardsOvertakenResponse(t *testing.T) {
	src := &gatedSource{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		stale:   []adapter.Message{{ID: 1, ChatID: 1, Content: "из старого чата"}},
		fresh:   []adapter.Message{{ID: 2, ChatID: 2, Content: "из нового чата"}},
	}
	s := New(src, nil)

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background(), 1) }()
	<-src.entered

	// The user switched chats before the first response landed; the
	// second load completes first.
	if err := s.Load(context.Background(), 2); err != nil {
		t.Fatalf("second Load: %v", err)
	}

	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("overtaken Load: %v", err)
	}

	if got := s.ChatID(); got != 2 {
		t.Fatalf("chat id = %d, want 2", got)
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Content != "из нового чата" {
		t.Fatalf("stale response overwrote the thread: %+v", msgs)
	}
}
