package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/mvolkoff/beseda/internal/tui/ui"
)

// StatusBar is the single-line footer: profile, connection state, the
// recording indicator, key hints, clock and the transient flash.
type StatusBar struct {
	*tview.TextView
	theme     *ui.Theme
	profile   string
	status    string
	recording bool
	hints     []string
	flash     string
}

// NewStatusBar creates the footer.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)
	return &StatusBar{TextView: tv, theme: theme}
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetStatus updates the connection state display.
func (sb *StatusBar) SetStatus(status string) {
	sb.status = status
	sb.render()
}

// SetRecording toggles the recording indicator.
func (sb *StatusBar) SetRecording(on bool) {
	sb.recording = on
	sb.render()
}

// SetHints updates the key hints for the current page.
func (sb *StatusBar) SetHints(hints []string) {
	sb.hints = hints
	sb.render()
}

// SetFlash sets the transient message slot.
func (sb *StatusBar) SetFlash(msg string) {
	sb.flash = msg
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	rec := ""
	if sb.recording {
		rec = " [red]● REC[-]"
	}

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s%s | %s%s[-] | %s",
		sb.profile, sb.status, rec,
		ui.Tag(sb.theme.MutedColor), strings.Join(sb.hints, " "),
		time.Now().Format("15:04"))
	if sb.flash != "" {
		line += fmt.Sprintf(" | %s%s[-]", ui.Tag(sb.theme.FlashColor), sb.flash)
	}

	_, _ = fmt.Fprint(sb, line)
}
