package serial

import (
	"strconv"
	"strings"
)

// Format renders a serial from its parts:
//
//	[prefix PrefixSeparator] series Separator MMYY Separator NNNNNN
//
// Numbers are padded, never truncated. The year is truncated from the left.
func (c Config) Format(series string, year, month int, number uint64, prefix string) string {
	monthPart := padLeft(strconv.Itoa(month), c.MonthLength)
	yearPart := rightmost(strconv.Itoa(year), c.YearLength)
	numberPart := padLeft(strconv.FormatUint(number, 10), c.NumberLength)

	body := strings.Join([]string{series, monthPart + yearPart, numberPart}, c.Separator)
	if prefix == "" {
		return body
	}
	return prefix + c.PrefixSeparator + body
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

func rightmost(s string, n int) string {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
