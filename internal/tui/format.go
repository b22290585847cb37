package tui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// formatOpt formats an optional value, "-" when absent
func formatOpt(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

// formatHours renders fractional hours as "7h 30m"
func formatHours(h *float64) string {
	if h == nil {
		return "-"
	}
	d := time.Duration(*h * float64(time.Hour)).Round(time.Minute)
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", hours, mins)
}

func formatSteps(steps *int) string {
	if steps == nil {
		return "-"
	}
	return humanize.Comma(int64(*steps))
}

func formatLastSync(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// formatSwimTime renders seconds as m:ss.hh
func formatSwimTime(seconds float64) string {
	hundredths := int(seconds*100 + 0.5)
	m := hundredths / 6000
	s := (hundredths % 6000) / 100
	h := hundredths % 100
	if m == 0 {
		return fmt.Sprintf("%d.%02d", s, h)
	}
	return fmt.Sprintf("%d:%02d.%02d", m, s, h)
}

// trimSeries drops leading and trailing nil values and fills interior gaps
// with the previous value so asciigraph gets a continuous line
func trimSeries(values []*float64) []float64 {
	var out []float64
	var last *float64
	for _, v := range values {
		switch {
		case v != nil:
			out = append(out, *v)
			last = v
		case last != nil:
			out = append(out, *last)
		}
	}
	// Trailing gaps were carried forward; strip them back off
	for i := len(values) - 1; i >= 0 && values[i] == nil && len(out) > 0; i-- {
		out = out[:len(out)-1]
	}
	return out
}
