package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// HTTP is the Source implementation backed by the remote messenger
// service.
type HTTP struct {
	base   *url.URL
	client *http.Client
	logger *zap.Logger
}

// NewHTTP creates an HTTP source for the given base URL.
func NewHTTP(baseURL string, logger *zap.Logger) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q missing scheme or host", baseURL)
	}
	return &HTTP{
		base:   u,
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}, nil
}

// ListChats implements Source.
func (h *HTTP) ListChats(ctx context.Context, userID int64) ([]Chat, error) {
	const op = "list chats"
	var rows []ChatRow
	if err := h.get(ctx, op, "/chats", url.Values{"user_id": {formatID(userID)}}, &rows); err != nil {
		return nil, err
	}
	chats := make([]Chat, 0, len(rows))
	for _, r := range rows {
		c, err := r.Chat()
		if err != nil {
			return nil, newError(op, err)
		}
		chats = append(chats, c)
	}
	return chats, nil
}

// ListMessages implements Source.
func (h *HTTP) ListMessages(ctx context.Context, chatID int64) ([]Message, error) {
	const op = "list messages"
	var rows []MessageRow
	if err := h.get(ctx, op, "/messages", url.Values{"chat_id": {formatID(chatID)}}, &rows); err != nil {
		return nil, err
	}
	msgs := make([]Message, 0, len(rows))
	for _, r := range rows {
		m, err := r.Message()
		if err != nil {
			return nil, newError(op, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// GetUser implements Source.
func (h *HTTP) GetUser(ctx context.Context, userID int64) (*User, error) {
	const op = "get user"
	var row UserRow
	if err := h.get(ctx, op, "/users", url.Values{"user_id": {formatID(userID)}}, &row); err != nil {
		return nil, err
	}
	u := row.User()
	return &u, nil
}

// ListCalls implements Source.
func (h *HTTP) ListCalls(ctx context.Context, userID int64) ([]CallEntry, error) {
	const op = "list calls"
	var rows []CallRow
	if err := h.get(ctx, op, "/calls", url.Values{"user_id": {formatID(userID)}}, &rows); err != nil {
		return nil, err
	}
	calls := make([]CallEntry, 0, len(rows))
	for _, r := range rows {
		c, err := r.Call()
		if err != nil {
			return nil, newError(op, err)
		}
		calls = append(calls, c)
	}
	return calls, nil
}

// AppendMessage implements Source.
func (h *HTTP) AppendMessage(ctx context.Context, req Append) error {
	const op = "append message"
	row := AppendRow{
		ChatID:      req.ChatID,
		SenderID:    req.SenderID,
		Content:     req.Content,
		MessageType: string(req.Kind),
	}
	if req.Kind == MessageVoice {
		d := req.Duration
		row.Duration = &d
	}
	body, err := json.Marshal(row)
	if err != nil {
		return newError(op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint("/messages", nil), bytes.NewReader(body))
	if err != nil {
		return newError(op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var ack AckRow
	if err := h.do(httpReq, op, &ack); err != nil {
		return err
	}
	h.logger.Info("message appended",
		zap.Int64("chat_id", req.ChatID),
		zap.String("kind", string(req.Kind)),
		zap.Int64("server_id", ack.ID))
	return nil
}

func (h *HTTP) get(ctx context.Context, op, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.endpoint(path, query), nil)
	if err != nil {
		return newError(op, err)
	}
	return h.do(req, op, out)
}

func (h *HTTP) do(req *http.Request, op string, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := h.client.Do(req)
	if err != nil {
		return newError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the log; the error itself only
		// carries the status.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		h.logger.Warn("backend request failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return newError(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (h *HTTP) endpoint(path string, query url.Values) string {
	u := h.base.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
