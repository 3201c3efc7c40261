package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#E8743B", "#04B575", "#FF4F4F", "#FFB000", "#7A7A7A")

// struct Palette is a small stylesheet of named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	meta  lipgloss.Style
	star  lipgloss.Style
}

// NewPalette builds a Palette from title, success, error, warning and muted colors.
func NewPalette(t, s, e, w, muted string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(muted),
		meta:  NewStyle(muted),
		star:  NewBold(w),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
