package normalizer

import (
	"regexp"
	"strconv"
	"strings"
)

var nonPriceChars = regexp.MustCompile(`[^0-9,.]`)

// ParsePrice converts a messy price string ("1,299.00 Dhs") to a float,
// else nil. A single comma with no dot is treated as the decimal separator;
// any other commas are thousands separators and removed.
func ParsePrice(txt *string) *float64 {
	if txt == nil {
		return nil
	}

	digits := nonPriceChars.ReplaceAllString(*txt, "")
	if strings.Count(digits, ",") == 1 && !strings.Contains(digits, ".") {
		digits = strings.ReplaceAll(digits, ",", ".")
	}
	digits = strings.ReplaceAll(digits, ",", "")

	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil
	}

	return &value
}
