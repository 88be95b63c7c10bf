package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Composer is the text input for the next outgoing message. Every edit
// is mirrored into the thread store's draft through onChange so the
// buffer survives focus switches.
type Composer struct {
	*tview.InputField
	onSend   func(text string)
	onChange func(text string)
}

// NewComposer creates the composer input.
func NewComposer() *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)

	c := &Composer{InputField: input}

	input.SetChangedFunc(func(text string) {
		if c.onChange != nil {
			c.onChange(text)
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && c.onSend != nil {
			c.onSend(c.GetText())
		}
	})

	return c
}

// SetOnSend sets the callback for Enter. The callback decides whether
// to clear; empty sends are rejected upstream and keep the text.
func (c *Composer) SetOnSend(fn func(text string)) {
	c.onSend = fn
}

// SetOnChange sets the callback for every edit.
func (c *Composer) SetOnChange(fn func(text string)) {
	c.onChange = fn
}
