package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/store"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "fixture.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(db, zap.NewNop()).RegisterRoutes(r)
	return r
}

func TestHealth(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestListChatsServesSeed(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chats?user_id=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var rows []adapter.ChatRow
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("empty roster from seeded fixture")
	}
	for _, row := range rows {
		if row.DisplayName == "" {
			t.Errorf("chat %d has empty display name", row.ID)
		}
	}
}

func TestListChatsRequiresUserID(t *testing.T) {
	r := testRouter(t)
	for _, target := range []string{"/chats", "/chats?user_id=abc", "/chats?user_id=-1"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", target, w.Code)
		}
	}
}

func TestCreateMessage(t *testing.T) {
	r := testRouter(t)
	body, _ := json.Marshal(adapter.AppendRow{
		ChatID: 1, SenderID: 1, Content: "тест", MessageType: "text",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var ack adapter.AckRow
	if err := json.Unmarshal(w.Body.Bytes(), &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.ID == 0 || ack.CreatedAt == "" {
		t.Fatalf("ack = %+v", ack)
	}

	// The new message must be visible in the listing and in the chat
	// preview.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/messages?chat_id=1", nil))
	var msgs []adapter.MessageRow
	if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode messages: %v", err)
	}
	if last := msgs[len(msgs)-1]; last.ID != ack.ID || last.Content != "тест" {
		t.Fatalf("last message = %+v", last)
	}
}

func TestCreateMessageValidation(t *testing.T) {
	r := testRouter(t)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"not json", "{", http.StatusBadRequest},
		{"missing content", `{"chat_id":1,"sender_id":1}`, http.StatusBadRequest},
		{"unknown chat", `{"chat_id":999,"sender_id":1,"content":"x"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d; body %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?user_id=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var row adapter.UserRow
	if err := json.Unmarshal(w.Body.Bytes(), &row); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if row.ID != 1 || row.FullName == "" {
		t.Fatalf("user = %+v", row)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users?user_id=999", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing user status = %d", w.Code)
	}
}

// The HTTP adapter and the fixture server speak the same wire records;
// drive the adapter against the real handler end to end.
func TestAdapterRoundTrip(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	src, err := adapter.NewHTTP(srv.URL, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	ctx := context.Background()

	chats, err := src.ListChats(ctx, 1)
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(chats) == 0 {
		t.Fatal("no chats")
	}

	if err := src.AppendMessage(ctx, adapter.Append{
		ChatID: chats[0].ID, SenderID: 1, Content: "сквозной тест", Kind: adapter.MessageText,
	}); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	msgs, err := src.ListMessages(ctx, chats[0].ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if last := msgs[len(msgs)-1]; last.Content != "сквозной тест" {
		t.Fatalf("last message = %+v", last)
	}

	calls, err := src.ListCalls(ctx, 1)
	if err != nil {
		t.Fatalf("ListCalls: %v", err)
	}
	if len(calls) == 0 {
		t.Fatal("no call history from seed")
	}
}
