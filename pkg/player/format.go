package player

import (
	"strconv"
	"strings"
)

// trimFloat renders a live value without trailing noise: integers stay
// integers, fractional values keep one decimal.
func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0")
}
