package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/tui/ui"
)

// ThreadView displays the message thread of the selected chat.
type ThreadView struct {
	*tview.TextView
	theme  *ui.Theme
	userID int64
}

// NewThreadView creates the thread view for the signed-in user.
func NewThreadView(theme *ui.Theme, userID int64) *ThreadView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true).SetTitle(" Messages ")
	tv.SetBorderColor(theme.BorderColor)
	tv.SetTitleColor(theme.TitleColor)

	return &ThreadView{TextView: tv, theme: theme, userID: userID}
}

// SetChatName updates the title with the chat name.
func (tv *ThreadView) SetChatName(name string) {
	tv.SetTitle(fmt.Sprintf(" %s ", sanitizeForTerminal(name)))
}

// Update replaces the rendered thread. Messages arrive oldest first
// and are printed in that order, scrolled to the newest.
func (tv *ThreadView) Update(msgs []adapter.Message) {
	tv.Clear()

	for _, m := range msgs {
		sender := sanitizeForTerminal(m.SenderName)
		color := ""
		if m.SenderID == tv.userID {
			sender = "You"
			color = ui.Tag(tv.theme.OwnMessageColor)
		}

		body := sanitizeForTerminal(m.Content)
		if m.Kind == adapter.MessageVoice {
			body = fmt.Sprintf("♪ %s (%s)", body, formatDuration(m.Duration))
		}

		_, _ = fmt.Fprintf(tv, "%s[::b]%s[-:-:-] %s%s[-]\n%s\n\n",
			color, sender, ui.Tag(tv.theme.MutedColor), formatTimestamp(m.SentAt), body)
	}

	tv.ScrollToEnd()
}
