package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestPickReturnsDistinctPalettes(t *testing.T) {
	dark := Pick(true)
	light := Pick(false)

	if dark.BgColor == light.BgColor {
		t.Fatal("dark and light palettes share a background")
	}
	if dark.FgColor == light.FgColor {
		t.Fatal("dark and light palettes share a foreground")
	}
	if dark.OwnMessageColor == light.OwnMessageColor {
		t.Fatal("dark and light palettes share the own-message color")
	}
	if dark.BgColor != tcell.ColorBlack {
		t.Fatalf("dark background = %v, want black", dark.BgColor)
	}
}

func TestTagFormatsHexColor(t *testing.T) {
	if got := Tag(tcell.ColorRed); got != "[#ff0000]" {
		t.Fatalf("Tag(red) = %q, want [#ff0000]", got)
	}
	if got := Tag(tcell.ColorBlack); got != "[#000000]" {
		t.Fatalf("Tag(black) = %q, want [#000000]", got)
	}
}
