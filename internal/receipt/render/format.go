package render

import (
	"fmt"
	"strings"
	"time"
)

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

// formatThaiDate renders a long-form date, e.g. "14 กุมภาพันธ์ 2025".
func formatThaiDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%02d %s %d", t.Day(), thaiMonths[t.Month()-1], t.Year())
}

// formatThaiTime renders a clock time, e.g. "14:05 น.".
func formatThaiTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("15:04") + " น."
}

// formatThaiTimestamp renders the generation stamp, e.g. "14/02/2025 เวลา 14:05 น.".
func formatThaiTimestamp(t time.Time) string {
	return t.Format("02/01/2006") + " เวลา " + t.Format("15:04") + " น."
}

// formatAmount adds thousands separators; decimals appear only when the
// amount has a fractional part.
func formatAmount(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(s, ".", 2)
	whole, frac := parts[0], parts[1]

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "00" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
