package types

import (
	"strconv"
	"strings"
)

// ParseDecimal parses a number written in the source's locale: "." as the
// thousands separator and "," as the decimal separator. A trailing "%" is
// stripped, so percentage-formatted cells parse to their percent value
// ("12,34%" -> 12.34, not 0.1234).
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}
