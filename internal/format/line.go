package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/agbru/nqdm/internal/stats"
)

// fixedSeparators is the number of cells taken by the separators of a line:
// the two bar brackets and the three spaces between fields.
const fixedSeparators = 5

// BarStyle holds the glyphs used to draw the bar.
type BarStyle struct {
	// Fill is repeated for the completed part of the bar.
	Fill string
	// Head caps the completed part.
	Head string
}

// DefaultBarStyle draws bars like "=====>    ".
var DefaultBarStyle = BarStyle{Fill: "=", Head: ">"}

// orDefault fills empty glyphs from DefaultBarStyle.
func (s BarStyle) orDefault() BarStyle {
	if s.Fill == "" {
		s.Fill = DefaultBarStyle.Fill
	}
	if s.Head == "" {
		s.Head = DefaultBarStyle.Head
	}
	return s
}

// Clock formats a duration as HH:MM:SS. Hours are not wrapped at 24 and may
// use more than two digits. Negative durations format as 00:00:00.
func Clock(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3_600_000
	minutes := ms/60_000 - hours*60
	seconds := ms/1000 - hours*3600 - minutes*60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// Percent formats a ratio as a percentage right-justified to 7 characters,
// e.g. " 50.00%" or "100.00%".
func Percent(ratio float64) string {
	return fmt.Sprintf("%6.2f%%", ratio*100)
}

// Throughput formats an items-per-second rate as "[X.XX iter/sec]".
// Non-finite rates are shown as 0.00.
func Throughput(perSec float64) string {
	if math.IsNaN(perSec) || math.IsInf(perSec, 0) {
		perSec = 0
	}
	return fmt.Sprintf("[%.2f iter/sec]", perSec)
}

// Bar draws the inside of the bar brackets. The completed part holds
// round(barLength*ratio)-1 fill glyphs followed by the head; the remainder is
// padded with spaces up to barLength cells. The head is always drawn, so a
// non-positive barLength still yields the head alone.
func Bar(barLength int, ratio float64, style BarStyle) string {
	style = style.orDefault()
	if barLength < 0 {
		barLength = 0
	}
	fill := int(math.Floor(float64(barLength)*ratio+0.5)) - 1
	if fill < 0 {
		fill = 0
	}
	var b strings.Builder
	b.Grow(barLength)
	b.WriteString(strings.Repeat(style.Fill, fill))
	b.WriteString(style.Head)
	if pad := barLength - runewidth.StringWidth(b.String()); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	return b.String()
}

// Left returns the leading field: a percentage when the total is known,
// otherwise the raw item count.
func Left(s stats.Snapshot) string {
	if s.HasTotal {
		return Percent(s.Ratio)
	}
	return strconv.Itoa(s.Current)
}

// Time returns the elapsed clock, followed by the remaining clock when an
// estimate is available.
func Time(s stats.Snapshot) string {
	if s.HasETA {
		return Clock(s.Elapsed) + " " + Clock(s.ETA)
	}
	return Clock(s.Elapsed)
}

// Line renders a snapshot as "{left} [{bar}] {time} {throughput}". The bar
// takes whatever is left of width once the other fields are laid out; when
// width is too small the bar shrinks to its head and the line overflows
// rather than failing.
func Line(s stats.Snapshot, width int, style BarStyle) string {
	left := Left(s)
	clock := Time(s)
	perSec := Throughput(s.Throughput)

	barLength := width - (runewidth.StringWidth(left) + runewidth.StringWidth(clock) +
		runewidth.StringWidth(perSec) + fixedSeparators)
	if barLength < 0 {
		barLength = 0
	}
	return left + " [" + Bar(barLength, s.Ratio, style) + "] " + clock + " " + perSec
}
