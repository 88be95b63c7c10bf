package store

import "database/sql"

// ChatRecord is one row of the chat listing query.
type ChatRecord struct {
	ID                int64
	Name              string
	ChatType          string
	LastMessage       sql.NullString
	LastMessageAt     sql.NullString
	Unread            int
	CounterpartName   sql.NullString
	CounterpartStatus sql.NullString
}

// MessageRecord is one stored message joined with its sender.
type MessageRecord struct {
	ID         int64
	ChatID     int64
	SenderID   int64
	Type       string
	Content    string
	Duration   sql.NullInt64
	CreatedAt  string
	SenderName string
}

// UserRecord is one stored user profile.
type UserRecord struct {
	ID         int64
	FullName   string
	Email      string
	Position   string
	Department string
	Phone      string
	Bio        string
	Status     string
}

// CallRecord is one call-history row joined with initiator and chat.
type CallRecord struct {
	ID            int64
	ChatID        int64
	Type          string
	Status        string
	StartedAt     string
	EndedAt       sql.NullString
	Duration      int
	InitiatorName string
	ChatName      sql.NullString
}
