package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/mvolkoff/beseda/internal/adapter"
	"github.com/mvolkoff/beseda/internal/tui/ui"
)

// ProfileView shows the signed-in user's read-only profile.
type ProfileView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewProfileView creates the profile panel.
func NewProfileView(theme *ui.Theme) *ProfileView {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBorder(true).SetTitle(" Profile ")
	tv.SetBorderColor(theme.BorderColor)
	tv.SetTitleColor(theme.TitleColor)

	return &ProfileView{TextView: tv, theme: theme}
}

// Update re-renders the panel from a profile snapshot.
func (pv *ProfileView) Update(u *adapter.User) {
	pv.Clear()
	if u == nil {
		fmt.Fprint(pv, "\n  [::d]Profile not loaded[-:-:-]")
		return
	}

	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(pv, "  [::b]%-12s[-:-:-] %s\n", label, sanitizeForTerminal(value))
	}

	fmt.Fprintf(pv, "\n  [::b]%s[-:-:-]  [::d](%s)[-:-:-]\n\n", sanitizeForTerminal(u.FullName), u.Presence)
	field("Position", u.Position)
	field("Department", u.Department)
	field("Email", u.Email)
	field("Phone", u.Phone)
	if u.Bio != "" {
		fmt.Fprintf(pv, "\n  %s\n", sanitizeForTerminal(u.Bio))
	}
}
