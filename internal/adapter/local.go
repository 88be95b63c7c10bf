package adapter

import (
	"context"
	"fmt"

	"github.com/mvolkoff/beseda/internal/store"
)

// Local is the Source implementation backed by the seeded fixture
// database. It is what --offline mode runs against; besedasrv serves
// the same store over HTTP.
type Local struct {
	db *store.DB
}

// NewLocal wraps an opened, migrated fixture database.
func NewLocal(db *store.DB) *Local {
	return &Local{db: db}
}

// DisplayName resolves the roster name of a stored chat: the
// counterpart's name for direct chats, the chat's own name (or a
// generic fallback) for groups.
func DisplayName(c store.ChatRecord) string {
	if c.ChatType == "direct" && c.CounterpartName.Valid && c.CounterpartName.String != "" {
		return c.CounterpartName.String
	}
	if c.Name != "" {
		return c.Name
	}
	return "Групповой чат"
}

// ListChats implements Source. The fixture is single-account, so the
// user id only has to match the seeded account.
func (l *Local) ListChats(ctx context.Context, userID int64) ([]Chat, error) {
	const op = "list chats"
	records, err := l.db.ListChats()
	if err != nil {
		return nil, newError(op, err)
	}
	chats := make([]Chat, 0, len(records))
	for _, rec := range records {
		c, err := ChatRowFromRecord(rec).Chat()
		if err != nil {
			return nil, newError(op, err)
		}
		chats = append(chats, c)
	}
	return chats, nil
}

// ListMessages implements Source.
func (l *Local) ListMessages(ctx context.Context, chatID int64) ([]Message, error) {
	const op = "list messages"
	records, err := l.db.ListMessages(chatID)
	if err != nil {
		return nil, newError(op, err)
	}
	msgs := make([]Message, 0, len(records))
	for _, rec := range records {
		m, err := MessageRowFromRecord(rec).Message()
		if err != nil {
			return nil, newError(op, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// GetUser implements Source.
func (l *Local) GetUser(ctx context.Context, userID int64) (*User, error) {
	const op = "get user"
	rec, err := l.db.GetUser(userID)
	if err != nil {
		return nil, newError(op, err)
	}
	if rec == nil {
		return nil, newError(op, fmt.Errorf("user %d not found", userID))
	}
	u := UserRowFromRecord(*rec).User()
	return &u, nil
}

// ListCalls implements Source.
func (l *Local) ListCalls(ctx context.Context, userID int64) ([]CallEntry, error) {
	const op = "list calls"
	records, err := l.db.ListCalls()
	if err != nil {
		return nil, newError(op, err)
	}
	calls := make([]CallEntry, 0, len(records))
	for _, rec := range records {
		c, err := CallRowFromRecord(rec).Call()
		if err != nil {
			return nil, newError(op, err)
		}
		calls = append(calls, c)
	}
	return calls, nil
}

// AppendMessage implements Source.
func (l *Local) AppendMessage(ctx context.Context, req Append) error {
	const op = "append message"
	var dur *int
	if req.Kind == MessageVoice {
		d := req.Duration
		dur = &d
	}
	if _, _, err := l.db.InsertMessage(req.ChatID, req.SenderID, string(req.Kind), req.Content, dur); err != nil {
		return newError(op, err)
	}
	return nil
}

// Record-to-wire converters, shared with the fixture server so the
// local source and the HTTP surface present identical payloads.

// ChatRowFromRecord converts a stored chat to its wire form.
func ChatRowFromRecord(rec store.ChatRecord) ChatRow {
	row := ChatRow{
		ID:          rec.ID,
		Name:        rec.Name,
		ChatType:    rec.ChatType,
		DisplayName: DisplayName(rec),
		UnreadCount: rec.Unread,
	}
	if rec.LastMessage.Valid {
		row.LastMessage = &rec.LastMessage.String
	}
	if rec.LastMessageAt.Valid {
		row.LastMessageTime = &rec.LastMessageAt.String
	}
	if rec.CounterpartName.Valid {
		row.OtherUserName = &rec.CounterpartName.String
	}
	if rec.CounterpartStatus.Valid {
		row.OtherUserStatus = &rec.CounterpartStatus.String
	}
	return row
}

// MessageRowFromRecord converts a stored message to its wire form.
func MessageRowFromRecord(rec store.MessageRecord) MessageRow {
	row := MessageRow{
		ID:          rec.ID,
		ChatID:      rec.ChatID,
		SenderID:    rec.SenderID,
		MessageType: rec.Type,
		Content:     rec.Content,
		CreatedAt:   rec.CreatedAt,
		SenderName:  rec.SenderName,
	}
	if rec.Duration.Valid {
		d := int(rec.Duration.Int64)
		row.Duration = &d
	}
	return row
}

// UserRowFromRecord converts a stored user to its wire form.
func UserRowFromRecord(rec store.UserRecord) UserRow {
	return UserRow(rec)
}

// CallRowFromRecord converts a stored call to its wire form.
func CallRowFromRecord(rec store.CallRecord) CallRow {
	row := CallRow{
		ID:            rec.ID,
		ChatID:        rec.ChatID,
		CallType:      rec.Type,
		Status:        rec.Status,
		StartedAt:     rec.StartedAt,
		Duration:      &rec.Duration,
		InitiatorName: rec.InitiatorName,
	}
	if rec.EndedAt.Valid {
		row.EndedAt = &rec.EndedAt.String
	}
	if rec.ChatName.Valid {
		row.ChatName = &rec.ChatName.String
	}
	return row
}
