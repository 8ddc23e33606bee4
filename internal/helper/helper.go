package helper

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LastDigit returns the last decimal digit of a quote printed with pipSize
// decimals. 123.40 at pip size 2 yields 0, not 4.
func LastDigit(quote float64, pipSize int) int {
	if pipSize < 0 {
		pipSize = 0
	}
	s := decimal.NewFromFloat(quote).Abs().StringFixed(int32(pipSize))
	return int(s[len(s)-1] - '0')
}

// SplitList parses "R_10, R_25,,R_50" into trimmed, de-duplicated entries.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	parts = lo.Map(parts, func(p string, _ int) string { return strings.TrimSpace(p) })
	parts = lo.Compact(parts)
	return lo.Uniq(parts)
}

// Streak counts identical values at the tail of xs.
func Streak(xs []int) int {
	if len(xs) == 0 {
		return 0
	}
	n := 1
	for i := len(xs) - 2; i >= 0; i-- {
		if xs[i] != xs[i+1] {
			break
		}
		n++
	}
	return n
}
