package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/mvolkoff/beseda/internal/notify"
	"github.com/mvolkoff/beseda/internal/tui/ui"
)

// FeedView shows the notification feed: unread messages and missed
// calls, newest first.
type FeedView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewFeedView creates the feed panel.
func NewFeedView(theme *ui.Theme) *FeedView {
	tv := tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	tv.SetBorder(true).SetTitle(" Notifications ")
	tv.SetBorderColor(theme.BorderColor)
	tv.SetTitleColor(theme.TitleColor)

	return &FeedView{TextView: tv, theme: theme}
}

// Update re-renders the feed.
func (fv *FeedView) Update(entries []notify.Entry) {
	fv.Clear()
	if len(entries) == 0 {
		fmt.Fprint(fv, "\n  [::d]Nothing new[-:-:-]")
		return
	}

	for _, e := range entries {
		icon := "✉"
		if e.Kind == notify.EntryCall {
			icon = "☎"
		}
		fmt.Fprintf(fv, "\n  %s [::b]%s[-:-:-] [::d]%s[-:-:-]\n    %s\n",
			icon, e.Title, formatTimestamp(e.At), sanitizeForTerminal(e.Detail))
	}
}
