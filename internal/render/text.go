// Package render formats tree nodes, queues and sessions for the terminal.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters other than tab and invalid UTF-8 bytes,
// and turns non-breaking spaces into plain ones. Library metadata is printed
// as is otherwise.
func Sanitize(s string) string {
	if !needsSanitize(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
			i++
			continue
		case r != '\t' && unicode.IsControl(r):
		case r == '\u00a0':
			b.WriteByte(' ')
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func needsSanitize(s string) bool {
	for i := range len(s) {
		c := s[i]
		if c < 0x20 && c != '\t' {
			return true
		}
		if c >= 0x80 && c <= 0x9f {
			return true
		}
		if c == 0xc2 && i+1 < len(s) && s[i+1] == 0xa0 {
			return true
		}
	}
	return !utf8.ValidString(s)
}

// Fit sanitizes s, truncates it to width cells with an ellipsis and pads it
// with spaces to exactly width cells.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(Sanitize(s), width, "..."), width)
}

// Row joins left and right with enough spaces to span width. A left side
// too wide for the row is truncated; at least one space separates them.
// Both sides may carry styles.
func Row(left, right string, width int) string {
	rw := lipgloss.Width(right)
	if avail := width - rw - 1; avail > 0 && lipgloss.Width(left) > avail {
		left = ansi.Truncate(left, avail, "...")
	}
	gap := max(width-lipgloss.Width(left)-rw, 1)
	return left + strings.Repeat(" ", gap) + right
}
