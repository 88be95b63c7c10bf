// Package notify builds the notification feed and the status-bar
// flash. The feed is derived from adapter data on render instead of
// being stored anywhere.
package notify

import (
	"sort"
	"time"

	"github.com/mvolkoff/beseda/internal/adapter"
)

// EntryKind classifies a feed entry.
type EntryKind string

const (
	EntryMessage EntryKind = "message"
	EntryCall    EntryKind = "call"
)

// Entry is one row of the notification feed.
type Entry struct {
	Kind   EntryKind
	Title  string
	Detail string
	At     time.Time
	Unread bool
}

// BuildFeed assembles the feed from unread chats and missed calls,
// newest first. When previews is false, message entries omit the
// message text (the "show message previews" toggle).
func BuildFeed(chats []adapter.Chat, calls []adapter.CallEntry, previews bool) []Entry {
	var feed []Entry

	for _, c := range chats {
		if c.Unread == 0 || c.LastMessageAt == nil {
			continue
		}
		detail := c.Name
		if previews && c.LastMessage != "" {
			detail = c.Name + ": " + c.LastMessage
		}
		feed = append(feed, Entry{
			Kind:   EntryMessage,
			Title:  "Новое сообщение",
			Detail: detail,
			At:     *c.LastMessageAt,
			Unread: true,
		})
	}

	for _, call := range calls {
		if call.Status != adapter.CallMissed {
			continue
		}
		detail := call.ChatName
		if detail == "" {
			detail = call.Initiator
		}
		feed = append(feed, Entry{
			Kind:   EntryCall,
			Title:  "Пропущенный звонок",
			Detail: detail,
			At:     call.StartedAt,
			Unread: true,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].At.After(feed[j].At)
	})
	return feed
}
