package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/tui/ui"
)

// RosterList is the chat roster table. Row order mirrors the store
// snapshot; no client-side re-sort.
type RosterList struct {
	*tview.Table
	theme  *ui.Theme
	chats  []adapter.Chat
	filter string
	// visible maps table rows (minus header) back to chat ids when a
	// filter hides part of the roster.
	visible []int64
}

// NewRosterList creates the roster table.
func NewRosterList(theme *ui.Theme) *RosterList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Chats ")
	table.SetBorderColor(theme.BorderColor)
	table.SetTitleColor(theme.TitleColor)

	return &RosterList{Table: table, theme: theme}
}

// SetFilter narrows the visible rows to chats whose name contains the
// query, case-insensitive. Empty query shows everything.
func (rl *RosterList) SetFilter(query string) {
	rl.filter = strings.ToLower(strings.TrimSpace(query))
	rl.render()
}

// Update refreshes the table from a roster snapshot, keeping the
// cursor on the selected chat.
func (rl *RosterList) Update(chats []adapter.Chat, selectedID int64) {
	rl.chats = chats
	rl.render()
	rl.moveCursorTo(selectedID)
}

func (rl *RosterList) render() {
	rl.Clear()
	rl.visible = rl.visible[:0]
	rl.SetSelectedStyle(tcell.StyleDefault.
		Foreground(rl.theme.TableCursorFg).
		Background(rl.theme.TableCursorBg))

	header := func(col int, text string) {
		rl.SetCell(0, col, tview.NewTableCell(" "+text).
			SetSelectable(false).
			SetTextColor(rl.theme.TableHeaderFg))
	}
	header(0, "Name")
	header(1, "Last Message")
	header(2, "Time")

	row := 1
	for _, chat := range rl.chats {
		if rl.filter != "" && !strings.Contains(strings.ToLower(chat.Name), rl.filter) {
			continue
		}
		name := sanitizeForTerminal(chat.Name)
		if chat.Kind == adapter.ChatGroup {
			name = "# " + name
		} else if chat.Presence == adapter.PresenceOnline {
			name = "• " + name
		}
		nameCell := tview.NewTableCell(" " + name).SetMaxWidth(30).SetExpansion(1)
		if chat.Unread > 0 {
			nameCell.SetText(fmt.Sprintf(" %s (%d)", name, chat.Unread))
			nameCell.SetTextColor(rl.theme.UnreadColor)
		}
		rl.SetCell(row, 0, nameCell)
		rl.SetCell(row, 1, tview.NewTableCell(" "+sanitizeForTerminal(chat.LastMessage)).SetMaxWidth(40).SetExpansion(2))

		var ts string
		if chat.LastMessageAt != nil {
			ts = formatTimestamp(*chat.LastMessageAt)
		}
		rl.SetCell(row, 2, tview.NewTableCell(" "+ts).SetMaxWidth(12))

		rl.visible = append(rl.visible, chat.ID)
		row++
	}
}

// SelectedChat returns the chat id under the cursor, 0 when the cursor
// is on the header or the table is empty.
func (rl *RosterList) SelectedChat() int64 {
	row, _ := rl.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(rl.visible) {
		return rl.visible[idx]
	}
	return 0
}

func (rl *RosterList) moveCursorTo(chatID int64) {
	for i, id := range rl.visible {
		if id == chatID {
			rl.Select(i+1, 0)
			return
		}
	}
}
