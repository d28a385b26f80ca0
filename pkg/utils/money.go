package utils

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
)

// CurrencyScale ISO 4217 小数位数，JPY / XOF 为 0，USD 为 2，未知币种按 2 处理
func CurrencyScale(code string) int {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// ParseMinorUnits "12.34" + EUR -> 1234，"1500" + JPY -> 1500
func ParseMinorUnits(s, code string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int64(math.Round(f * math.Pow10(CurrencyScale(code))))
}

// FormatMinorUnits 1999 + USD -> "19.99"，1500 + XOF -> "1500"
func FormatMinorUnits(amount int64, code string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	scale := CurrencyScale(code)
	if scale == 0 {
		return sign + strconv.FormatInt(amount, 10)
	}
	div := int64(math.Pow10(scale))
	frac := strconv.FormatInt(amount%div, 10)
	if pad := scale - len(frac); pad > 0 {
		frac = strings.Repeat("0", pad) + frac
	}
	return sign + strconv.FormatInt(amount/div, 10) + "." + frac
}
