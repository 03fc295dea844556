package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Number groups the digits of n in threes, e.g. 1234567 -> "1,234,567".
func Number(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Duration renders elapsed batch time: "0s" under a second, "5.2s" under a
// minute, "3m5.2s" under an hour and "2h15m" beyond.
func Duration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "0s"
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		m := d.Truncate(time.Minute)
		return fmt.Sprintf("%dm%.1fs", int(m.Minutes()), (d - m).Seconds())
	default:
		h := d.Truncate(time.Hour)
		return fmt.Sprintf("%dh%dm", int(h.Hours()), int((d-h).Minutes()))
	}
}

// Bytes formats a byte count with a binary unit suffix.
// Examples:
//   - Less than 1 KiB: "512B"
//   - Less than 1 MiB: "12.3KiB"
//   - Otherwise: "1.5MiB", "2.0GiB"
func Bytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 3; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGT"[exp])
}
