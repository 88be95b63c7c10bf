package views

import (
	"github.com/rivo/tview"

	"github.com/mvolkoff/beseda/internal/config"
	"github.com/mvolkoff/beseda/internal/tui/ui"
)

// SettingsView is the toggle form persisted to config.toml.
type SettingsView struct {
	*tview.Form
	theme  *ui.Theme
	draft  config.Settings
	onSave func(config.Settings)
}

// NewSettingsView creates the settings form pre-filled with the
// current toggles. Save hands the edited copy to onSave; leaving the
// page without saving discards edits.
func NewSettingsView(theme *ui.Theme, current config.Settings, onSave func(config.Settings)) *SettingsView {
	sv := &SettingsView{
		Form:   tview.NewForm(),
		theme:  theme,
		draft:  current,
		onSave: onSave,
	}
	sv.SetBorder(true).SetTitle(" Settings ")
	sv.SetBorderColor(theme.BorderColor)
	sv.SetTitleColor(theme.TitleColor)

	toggle := func(label string, value *bool) {
		sv.AddCheckbox(label, *value, func(checked bool) { *value = checked })
	}
	toggle("Dark theme", &sv.draft.DarkTheme)
	toggle("Sound alerts", &sv.draft.SoundAlerts)
	toggle("Message previews", &sv.draft.MessagePreviews)
	toggle("Call alerts", &sv.draft.CallAlerts)
	toggle("Show online status", &sv.draft.ShowOnlineStatus)
	toggle("Read receipts", &sv.draft.ReadReceipts)
	toggle("Autostart", &sv.draft.Autostart)
	toggle("Keep history", &sv.draft.KeepHistory)

	sv.AddButton("Save", func() {
		if sv.onSave != nil {
			sv.onSave(sv.draft)
		}
	})

	return sv
}

// Reset discards unsaved edits and re-fills the form.
func (sv *SettingsView) Reset(current config.Settings) {
	sv.draft = current
	boxes := []bool{
		current.DarkTheme, current.SoundAlerts, current.MessagePreviews,
		current.CallAlerts, current.ShowOnlineStatus, current.ReadReceipts,
		current.Autostart, current.KeepHistory,
	}
	for i, v := range boxes {
		if cb, ok := sv.GetFormItem(i).(*tview.Checkbox); ok {
			cb.SetChecked(v)
		}
	}
}
