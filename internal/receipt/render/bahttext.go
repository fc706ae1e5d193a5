package render

import (
	"math"
	"strings"
)

var thaiDigits = [...]string{"ศูนย์", "หนึ่ง", "สอง", "สาม", "สี่", "ห้า", "หก", "เจ็ด", "แปด", "เก้า"}
var thaiPlaces = [...]string{"", "สิบ", "ร้อย", "พัน", "หมื่น", "แสน"}

// BahtText spells an amount out in Thai words, whole baht plus satang,
// following conventional reading rules: สิบ for a leading one in the tens
// place, ยี่สิบ for twenty, เอ็ด for a trailing one after higher digits.
func BahtText(amount float64) string {
	satang := int64(math.Round(amount * 100))
	if satang < 0 {
		satang = -satang
	}
	baht := satang / 100
	fraction := satang % 100

	if baht == 0 && fraction == 0 {
		return "ศูนย์บาทถ้วน"
	}

	var b strings.Builder
	if baht > 0 {
		b.WriteString(readNumber(baht))
		b.WriteString("บาท")
	}
	if fraction == 0 {
		b.WriteString("ถ้วน")
	} else {
		b.WriteString(readGroup(fraction, false))
		b.WriteString("สตางค์")
	}
	return b.String()
}

// readNumber reads an integer, recursing on groups of six digits joined
// with ล้าน.
func readNumber(n int64) string {
	if n >= 1_000_000 {
		head := readNumber(n / 1_000_000)
		rest := n % 1_000_000
		if rest == 0 {
			return head + "ล้าน"
		}
		return head + "ล้าน" + readGroup(rest, true)
	}
	return readGroup(n, false)
}

// readGroup reads 1..999999. hasHigher marks that digits were already read
// before this group, which makes a lone trailing one read as เอ็ด.
func readGroup(n int64, hasHigher bool) string {
	var b strings.Builder
	for pos := len(thaiPlaces) - 1; pos >= 0; pos-- {
		scale := pow10(pos)
		d := (n / scale) % 10
		if d == 0 {
			continue
		}
		switch {
		case pos == 0 && d == 1 && (n > 10 || hasHigher):
			b.WriteString("เอ็ด")
		case pos == 1 && d == 1:
			b.WriteString("สิบ")
		case pos == 1 && d == 2:
			b.WriteString("ยี่สิบ")
		default:
			b.WriteString(thaiDigits[d])
			b.WriteString(thaiPlaces[pos])
		}
	}
	return b.String()
}

func pow10(n int) int64 {
	out := int64(1)
	for i := 0; i < n; i++ {
		out *= 10
	}
	return out
}
