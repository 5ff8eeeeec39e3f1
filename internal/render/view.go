package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/odeon/internal/icons"
	"github.com/llehouerou/odeon/internal/library"
	"github.com/llehouerou/odeon/internal/queue"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 100

const (
	idWidth       = 24
	browsableMark = "▸"
	playableMark  = "♪"
	activeMark    = "▶"
)

// Nodes renders one line per node: marker, media id, title and subtitle,
// with the duration or track count right aligned.
func Nodes(nodes []library.Node, width int) string {
	if len(nodes) == 0 {
		return T().S().Muted.Render("(empty)")
	}
	s := T().S()
	lines := make([]string, len(nodes))
	for i, n := range nodes {
		mark := playableMark
		if n.Browsable {
			mark = s.Active.Render(browsableMark)
		}

		left := mark + " " + s.Subtle.Render(Fit(n.MediaID.String(), idWidth)) + " " + s.Base.Render(icons.FormatMedia(n.MediaID, Sanitize(n.Title)))
		if n.Subtitle != "" {
			left += "  " + s.Muted.Render(Sanitize(n.Subtitle))
		}
		lines[i] = Row(left, s.Muted.Render(nodeDetail(n)), width)
	}
	return strings.Join(lines, "\n")
}

func nodeDetail(n library.Node) string {
	switch {
	case n.Extras.Duration > 0:
		return FormatDuration(n.Extras.Duration)
	case n.Extras.TrackCount > 0:
		return Count(n.Extras.TrackCount, "track")
	default:
		return ""
	}
}

// Node renders a single node with its display fields, one per line.
func Node(n library.Node) string {
	s := T().S()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.Title.Render(Sanitize(n.Title)))
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  %s %s\n", s.Muted.Render(Pad(name, 10)), value)
		}
	}
	field("id", n.MediaID.String())
	field("subtitle", Sanitize(n.Subtitle))
	field("browsable", strconv.FormatBool(n.Browsable))
	field("playable", strconv.FormatBool(n.Playable))
	if n.Extras.Duration > 0 {
		field("duration", FormatDuration(n.Extras.Duration))
	}
	if n.Extras.DiscNumber > 0 || n.Extras.TrackNumber > 0 {
		field("position", fmt.Sprintf("disc %d, track %d", n.Extras.DiscNumber, n.Extras.TrackNumber))
	}
	if n.Extras.TrackCount > 0 {
		field("tracks", Count(n.Extras.TrackCount, "track"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Queue renders the floating queue, marking the active item.
func Queue(items []queue.Item, activeID int64, width int) string {
	if len(items) == 0 {
		return T().S().Muted.Render("(queue empty)")
	}
	s := T().S()
	lines := make([]string, len(items))
	for i, item := range items {
		label := fmt.Sprintf("%4d  %s", item.ID, Sanitize(item.Track.Title))
		if item.Track.Artist != "" {
			label += " - " + Sanitize(item.Track.Artist)
		}
		right := ""
		if item.Track.Duration > 0 {
			right = FormatDuration(item.Track.Duration)
		}

		if item.ID == activeID {
			lines[i] = Row(s.Active.Render(activeMark+" "+label), s.Active.Render(right), width)
		} else {
			lines[i] = Row("  "+s.Base.Render(label), s.Muted.Render(right), width)
		}
	}
	return strings.Join(lines, "\n")
}

// Order renders a shuffle order as space separated indexes.
func Order(indexes []int) string {
	parts := make([]string, len(indexes))
	for i, idx := range indexes {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, " ")
}

// Count renders n with thousands separators and a pluralized noun.
func Count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

// Since renders how long ago t was, relative to now.
func Since(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatDuration renders d as m:ss, or h:mm:ss from one hour.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// Pad fills s with spaces to width cells. Wider strings are left as is.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
