package adapter

import "time"

// Presence is a user's availability status.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceAway    Presence = "away"
	PresenceOffline Presence = "offline"
)

// ChatKind distinguishes direct chats from group chats.
type ChatKind string

const (
	ChatDirect ChatKind = "direct"
	ChatGroup  ChatKind = "group"
)

// MessageKind is the payload type of a message.
type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageVoice MessageKind = "voice"
)

// CallKind distinguishes audio from video calls.
type CallKind string

const (
	CallAudio CallKind = "audio"
	CallVideo CallKind = "video"
)

// CallStatus is the outcome of a finished call.
type CallStatus string

const (
	CallCompleted CallStatus = "completed"
	CallMissed    CallStatus = "missed"
)

// Chat is one roster entry. LastMessage/LastMessageAt are unset for
// chats without history.
type Chat struct {
	ID            int64
	Name          string
	Kind          ChatKind
	LastMessage   string
	LastMessageAt *time.Time
	Unread        int
	Presence      Presence
}

// Message is one thread entry. Duration is set only for voice messages.
type Message struct {
	ID         int64
	ChatID     int64
	SenderID   int64
	SenderName string
	Kind       MessageKind
	Content    string
	Duration   int
	SentAt     time.Time
}

// User is a read-only profile snapshot.
type User struct {
	ID         int64
	FullName   string
	Email      string
	Position   string
	Department string
	Phone      string
	Bio        string
	Presence   Presence
}

// CallEntry is one call-history row. Duration is zero for missed calls.
type CallEntry struct {
	ID        int64
	ChatID    int64
	Kind      CallKind
	Status    CallStatus
	StartedAt time.Time
	Duration  int
	Initiator string
	ChatName  string
}

// Append describes one outgoing message. Duration is meaningful only
// for MessageVoice.
type Append struct {
	ChatID   int64
	SenderID int64
	Content  string
	Kind     MessageKind
	Duration int
}
