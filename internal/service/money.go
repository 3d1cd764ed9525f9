package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("amount must be a number like 125000 or 1,250,000.50")

// FormatMoney renders cents with thousands separators, dropping zero cents.
func FormatMoney(cents int64, symbol string) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := symbol + b.String()
	if frac := cents % 100; frac != 0 {
		out += fmt.Sprintf(".%02d", frac)
	}
	if neg {
		out = "-" + out
	}
	return out
}

// CompactMoney renders large amounts as 1.2M / 340K for narrow columns.
func CompactMoney(cents int64, symbol string) string {
	units := float64(cents) / 100
	switch {
	case units >= 1_000_000:
		return fmt.Sprintf("%s%.1fM", symbol, units/1_000_000)
	case units >= 1_000:
		return fmt.Sprintf("%s%.0fK", symbol, units/1_000)
	default:
		return fmt.Sprintf("%s%.0f", symbol, units)
	}
}

// ParseMoney accepts an optional currency symbol, thousands separators and
// up to two decimal places. An empty string is zero.
func ParseMoney(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£¥ ")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return 0, nil
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && !hasFrac {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if !digitsOnly(whole) || (hasFrac && !digitsOnly(frac)) {
		return 0, ErrInvalidAmount
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	var f int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, ErrInvalidAmount
		}
		if len(frac) == 1 {
			frac += "0"
		}
		f, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
	}
	cents := w*100 + f
	if neg {
		cents = -cents
	}
	return cents, nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
