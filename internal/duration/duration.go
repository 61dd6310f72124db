// Package duration normalizes the raw text typed into the hours, minutes and
// seconds fields. Malformed input is never an error: it is coerced to a value
// the timer can use.
package duration

import (
	"strconv"
	"strings"
)

// NormalizeHours parses text as a non-negative hour count. Anything that does
// not parse, or is negative, yields 0.
func NormalizeHours(text string) int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// NormalizeMinuteOrSecond parses text as a minute or second value in [0,59].
//
// A keystroke that pushes the value past 59 is clipped rather than rejected:
// three or more digits keep the first two, and 60-99 keeps the first digit.
func NormalizeMinuteOrSecond(text string) int {
	text = strings.TrimSpace(text)
	v, err := strconv.Atoi(text)
	switch {
	case err != nil, v < 0:
		return 0
	case v >= 100:
		return NormalizeMinuteOrSecond(prefix(text, 2))
	case v >= 60:
		return NormalizeMinuteOrSecond(prefix(text, 1))
	}
	return v
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
