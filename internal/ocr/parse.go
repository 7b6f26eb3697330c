package ocr

import (
	"regexp"
	"strconv"
	"strings"
)

// The digit bounds (1-2 integer digits, 0-2 decimals) are deliberate: they
// keep unrelated numbers on a busy display from matching as readings.
var (
	tempRe     = regexp.MustCompile(`(?i)(?:t|temp|temperatura)?\s*[:=]?\s*(-?\d{1,2}(?:\.\d{1,2})?)`)
	humidityRe = regexp.MustCompile(`(\d{1,2}(?:\.\d{1,2})?)\s*%`)
	numberRe   = regexp.MustCompile(`-?\d{1,2}(?:\.\d{1,2})?`)
)

// ParseReading extracts an optional temperature and humidity from recognized
// text. Strategies run in fixed precedence: the labelled temperature pattern,
// then the percent-suffixed humidity pattern, then a positional fallback that
// assigns unlabelled numeric tokens left to right to whichever field is still
// unset. Malformed candidates are skipped; the function never fails.
func ParseReading(text string) (temp, humidity *float64) {
	text = strings.ReplaceAll(text, ",", ".")

	if m := tempRe.FindStringSubmatch(text); m != nil {
		temp = parseFloat(m[1])
	}
	if m := humidityRe.FindStringSubmatch(text); m != nil {
		humidity = parseFloat(m[1])
	}

	if temp == nil || humidity == nil {
		nums := numberRe.FindAllString(text, -1)
		if temp == nil && len(nums) >= 1 {
			temp = parseFloat(nums[0])
		}
		if humidity == nil && len(nums) >= 2 {
			humidity = parseFloat(nums[1])
		}
	}
	return temp, humidity
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
