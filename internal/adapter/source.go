// Package adapter defines the contract to the messenger backend and
// its two implementations: the HTTP client that talks to the remote
// service and the sqlite-backed local fixture. The stores depend only
// on the Source interface, so either can be swapped in.
package adapter

import (
	"context"
	"errors"
	"fmt"
)

// Source is the read/write interface to chat, message, user and call
// data. Implementations must be safe for concurrent use.
type Source interface {
	ListChats(ctx context.Context, userID int64) ([]Chat, error)
	ListMessages(ctx context.Context, chatID int64) ([]Message, error)
	GetUser(ctx context.Context, userID int64) (*User, error)
	ListCalls(ctx context.Context, userID int64) ([]CallEntry, error)
	AppendMessage(ctx context.Context, req Append) error
}

// Error wraps a transport or malformed-response failure from a Source
// call. Stores keep their last good snapshot when they see one.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("adapter: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// IsError reports whether err is (or wraps) an adapter failure.
func IsError(err error) bool {
	var ae *Error
	return errors.As(err, &ae)
}
