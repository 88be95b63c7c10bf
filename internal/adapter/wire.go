package adapter

import (
	"fmt"
	"time"
)

// Wire records mirror the backend's JSON payloads field for field. The
// fixture server reuses them so both sides cannot drift.

// ChatRow is one element of the GET /chats response.
type ChatRow struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	ChatType        string  `json:"chat_type"`
	DisplayName     string  `json:"display_name"`
	LastMessage     *string `json:"last_message"`
	LastMessageTime *string `json:"last_message_time"`
	UnreadCount     int     `json:"unread_count"`
	OtherUserName   *string `json:"other_user_name"`
	OtherUserAvatar *string `json:"other_user_avatar"`
	OtherUserStatus *string `json:"other_user_status"`
}

// MessageRow is one element of the GET /messages response.
type MessageRow struct {
	ID           int64   `json:"id"`
	ChatID       int64   `json:"chat_id"`
	SenderID     int64   `json:"sender_id"`
	MessageType  string  `json:"message_type"`
	Content      string  `json:"content"`
	FileURL      *string `json:"file_url"`
	Duration     *int    `json:"duration"`
	CreatedAt    string  `json:"created_at"`
	SenderName   string  `json:"sender_name"`
	SenderAvatar *string `json:"sender_avatar"`
}

// UserRow is the GET /users response.
type UserRow struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Bio        string `json:"bio"`
	Status     string `json:"status"`
}

// CallRow is one element of the GET /calls response.
type CallRow struct {
	ID            int64   `json:"id"`
	ChatID        int64   `json:"chat_id"`
	CallType      string  `json:"call_type"`
	Status        string  `json:"status"`
	StartedAt     string  `json:"started_at"`
	EndedAt       *string `json:"ended_at"`
	Duration      *int    `json:"duration"`
	InitiatorName string  `json:"initiator_name"`
	ChatName      *string `json:"chat_name"`
}

// AppendRow is the POST /messages request body.
type AppendRow struct {
	ChatID      int64  `json:"chat_id"`
	SenderID    int64  `json:"sender_id"`
	Content     string `json:"content"`
	MessageType string `json:"message_type"`
	Duration    *int   `json:"duration,omitempty"`
}

// AckRow is the POST /messages response body.
type AckRow struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
}

// The backend serializes timestamps with Python's str(datetime), which
// yields "2006-01-02 15:04:05[.ffffff]"; the fixture server emits
// RFC 3339. Accept all of them.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func presence(s *string) Presence {
	if s == nil {
		return PresenceOffline
	}
	switch Presence(*s) {
	case PresenceOnline, PresenceAway, PresenceOffline:
		return Presence(*s)
	default:
		return PresenceOffline
	}
}

// Chat converts a wire row to the domain record.
func (r ChatRow) Chat() (Chat, error) {
	lastAt, err := parseTimePtr(r.LastMessageTime)
	if err != nil {
		return Chat{}, fmt.Errorf("chat %d: %w", r.ID, err)
	}
	kind := ChatKind(r.ChatType)
	if kind != ChatGroup {
		kind = ChatDirect
	}
	name := r.DisplayName
	if name == "" {
		name = r.Name
	}
	var last string
	if r.LastMessage != nil {
		last = *r.LastMessage
	}
	return Chat{
		ID:            r.ID,
		Name:          name,
		Kind:          kind,
		LastMessage:   last,
		LastMessageAt: lastAt,
		Unread:        r.UnreadCount,
		Presence:      presence(r.OtherUserStatus),
	}, nil
}

// Message converts a wire row to the domain record.
func (r MessageRow) Message() (Message, error) {
	at, err := parseTime(r.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("message %d: %w", r.ID, err)
	}
	kind := MessageKind(r.MessageType)
	if kind != MessageVoice {
		kind = MessageText
	}
	var dur int
	if kind == MessageVoice && r.Duration != nil {
		dur = *r.Duration
	}
	return Message{
		ID:         r.ID,
		ChatID:     r.ChatID,
		SenderID:   r.SenderID,
		SenderName: r.SenderName,
		Kind:       kind,
		Content:    r.Content,
		Duration:   dur,
		SentAt:     at,
	}, nil
}

// User converts a wire row to the domain record.
func (r UserRow) User() User {
	s := r.Status
	return User{
		ID:         r.ID,
		FullName:   r.FullName,
		Email:      r.Email,
		Position:   r.Position,
		Department: r.Department,
		Phone:      r.Phone,
		Bio:        r.Bio,
		Presence:   presence(&s),
	}
}

// Call converts a wire row to the domain record.
func (r CallRow) Call() (CallEntry, error) {
	at, err := parseTime(r.StartedAt)
	if err != nil {
		return CallEntry{}, fmt.Errorf("call %d: %w", r.ID, err)
	}
	kind := CallKind(r.CallType)
	if kind != CallAudio {
		kind = CallVideo
	}
	status := CallStatus(r.Status)
	if status != CallMissed {
		status = CallCompleted
	}
	var dur int
	if r.Duration != nil {
		dur = *r.Duration
	}
	var chatName string
	if r.ChatName != nil {
		chatName = *r.ChatName
	}
	return CallEntry{
		ID:        r.ID,
		ChatID:    r.ChatID,
		Kind:      kind,
		Status:    status,
		StartedAt: at,
		Duration:  dur,
		Initiator: r.InitiatorName,
		ChatName:  chatName,
	}, nil
}
