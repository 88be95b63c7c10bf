package views

import (
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/rivo/tview"

	"github.com/mvolkoff/beseda/internal/call"
	"github.com/mvolkoff/beseda/internal/tui/ui"
)

// CallView is the full-screen overlay shown while a call is active.
// No media flows; it renders the bound chat, the participant roster
// and a live timer, plus a join QR for conferences.
type CallView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewCallView creates the call overlay.
func NewCallView(theme *ui.Theme) *CallView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.CallAccentColor)
	tv.SetTitleColor(theme.TitleColor)

	return &CallView{TextView: tv, theme: theme}
}

// Update re-renders the overlay from a call snapshot. The caller
// invokes it on a ticker so the timer advances.
func (cv *CallView) Update(info call.Info, now time.Time) {
	cv.Clear()

	switch info.Mode {
	case call.ModeDirect:
		cv.SetTitle(" Call ")
		fmt.Fprintf(cv, "\n\n[::b]%s[-:-:-]\n\n[::d]connected[-:-:-]\n\n%s\n",
			sanitizeForTerminal(info.ChatName), formatElapsed(now.Sub(info.StartedAt)))
	case call.ModeConference:
		cv.SetTitle(" Conference ")
		var names strings.Builder
		for _, p := range info.Participants {
			names.WriteString("  • " + sanitizeForTerminal(p) + "\n")
		}
		fmt.Fprintf(cv, "\n[::b]%s[-:-:-]\n\n%s\n%s\n%s\n  [::d]Share this code to join[-:-:-]\n",
			sanitizeForTerminal(info.ChatName),
			names.String(),
			formatElapsed(now.Sub(info.StartedAt)),
			renderQR(joinLink(info)))
	default:
		cv.SetTitle(" Call ")
	}
}

func joinLink(info call.Info) string {
	return fmt.Sprintf("beseda://join/%d?t=%d", info.ChatID, info.StartedAt.Unix())
}

// renderQR converts a string to a compact QR code using Unicode
// half-block characters, two bitmap rows per terminal row.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "  (QR generation failed: " + err.Error() + ")"
	}

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		sb.WriteString("  ")
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := false
			if y+1 < rows {
				bot = bitmap[y+1][x]
			}
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top && !bot:
				sb.WriteRune('▀')
			case !top && bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
