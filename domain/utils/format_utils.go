package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumbers renders a number sequence as "1-2-3-4-5-6-7".
func FormatNumbers(numbers []int32) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(int(n))
	}
	return strings.Join(parts, "-")
}

// FormatAmount renders a currency amount with thousands separators.
func FormatAmount(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// FormatBasisPoints renders basis points as a percentage, e.g. 1500 -> "15%".
func FormatBasisPoints(bp int64) string {
	if bp%100 == 0 {
		return fmt.Sprintf("%d%%", bp/100)
	}
	return fmt.Sprintf("%.2f%%", float64(bp)/100)
}
