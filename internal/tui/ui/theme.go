package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme holds color constants for the TUI. Views share one *Theme and
// read it at render time, so swapping palettes recolors the next draw.
type Theme struct {
	BgColor         tcell.Color
	FgColor         tcell.Color
	BorderColor     tcell.Color
	TableHeaderFg   tcell.Color
	TableCursorFg   tcell.Color
	TableCursorBg   tcell.Color
	UnreadColor     tcell.Color
	OwnMessageColor tcell.Color
	TitleColor      tcell.Color
	MutedColor      tcell.Color
	FlashColor      tcell.Color
	CallAccentColor tcell.Color
}

// DarkTheme is the default palette.
func DarkTheme() *Theme {
	return &Theme{
		BgColor:         tcell.ColorBlack,
		FgColor:         tcell.ColorLightGray,
		BorderColor:     tcell.ColorSteelBlue,
		TableHeaderFg:   tcell.ColorWhite,
		TableCursorFg:   tcell.ColorBlack,
		TableCursorBg:   tcell.ColorAqua,
		UnreadColor:     tcell.ColorOrange,
		OwnMessageColor: tcell.ColorPaleGreen,
		TitleColor:      tcell.ColorFuchsia,
		MutedColor:      tcell.ColorGray,
		FlashColor:      tcell.ColorYellow,
		CallAccentColor: tcell.ColorMediumSpringGreen,
	}
}

// LightTheme is used when the dark theme toggle is off.
func LightTheme() *Theme {
	return &Theme{
		BgColor:         tcell.ColorWhiteSmoke,
		FgColor:         tcell.ColorBlack,
		BorderColor:     tcell.ColorSteelBlue,
		TableHeaderFg:   tcell.ColorBlack,
		TableCursorFg:   tcell.ColorWhite,
		TableCursorBg:   tcell.ColorDarkCyan,
		UnreadColor:     tcell.ColorDarkOrange,
		OwnMessageColor: tcell.ColorDarkGreen,
		TitleColor:      tcell.ColorPurple,
		MutedColor:      tcell.ColorDarkSlateGray,
		FlashColor:      tcell.ColorDarkGoldenrod,
		CallAccentColor: tcell.ColorSeaGreen,
	}
}

// Pick returns the palette matching the dark-theme toggle.
func Pick(dark bool) *Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}

// Tag renders a color as a tview dynamic-color tag for inline use.
func Tag(c tcell.Color) string {
	return fmt.Sprintf("[#%06x]", c.Hex())
}
