package printer

import (
	"fmt"
	"strconv"
	"time"
)

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// formatSize returns a byte size the way the console shows backup and dataset
// sizes, e.g. "2.4 GB".
func formatSize(b int64) string {
	if b < 1024 {
		return fmt.Sprintf("%d B", max(b, 0))
	}

	v := float64(b)
	unit := ""
	for _, u := range sizeUnits {
		v /= 1024
		unit = u
		if v < 1024 {
			break
		}
	}

	return fmt.Sprintf("%.1f %s", v, unit)
}

// formatRate returns a bandwidth, e.g. "2.4 GB/s".
func formatRate(bytesPerSecond int64) string {
	return formatSize(bytesPerSecond) + "/s"
}

// formatCount returns a counter with thousands separators, e.g. "15,847".
func formatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}

	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}

	return sign + string(out)
}

// formatTimestamp returns an absolute UTC time, e.g. "2024-01-15 14:30:25 UTC".
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// timeAgo returns how long before now t happened, e.g. "3h ago".
func timeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < 0:
		return "in the future"
	case d < time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
