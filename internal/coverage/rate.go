package coverage

import (
	"math"
	"strconv"
	"strings"
)

// DefaultRate is written for a rate attribute that is missing or empty.
const DefaultRate = "0.0"

// ParseRate converts a rate attribute such as "0.87" to a float.
// Unparsable, NaN and infinite values yield 0.
func ParseRate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Percent returns ParseRate(s) scaled to a percentage.
func Percent(s string) float64 {
	return ParseRate(s) * 100
}

// rateOrDefault returns v, or DefaultRate when v is empty.
func rateOrDefault(v string) string {
	if v == "" {
		return DefaultRate
	}
	return v
}
