package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#58a6ff")
	colorMuted  = lipgloss.Color("#8b949e")
	colorWarn   = lipgloss.Color("#d29922")

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	valueStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
)

// console prints progress lines for people running the command.
type console struct {
	w io.Writer
}

func (c console) count(label string, n int, rest string) {
	if c.w == nil {
		return
	}
	fmt.Fprintf(c.w, "%s %s%s\n", labelStyle.Render(label), valueStyle.Render(fmt.Sprint(n)), rest)
}

func (c console) line(label, value string) {
	if c.w == nil {
		return
	}
	fmt.Fprintf(c.w, "%s %s\n", labelStyle.Render(label), value)
}

func (c console) warn(msg string) {
	if c.w == nil {
		return
	}
	fmt.Fprintln(c.w, warnStyle.Render(msg))
}
