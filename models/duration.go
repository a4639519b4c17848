package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const secondsPerHour = 3600

// Duration is a signed elapsed time stored as whole seconds. It
// round-trips through JSON as a H:MM:SS clock string and through BSON
// as an int64.
type Duration int64

// ParseError reports a duration value that could not be parsed.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid duration %q: %s", e.Input, e.Reason)
}

// ParseClock parses a colon-separated [-]H:MM:SS value. Hours may
// exceed 24; minutes and seconds must fall in 00-59.
func ParseClock(s string) (Duration, error) {
	raw := strings.TrimSpace(s)
	body, negative := strings.CutPrefix(raw, "-")

	parts := strings.Split(body, ":")
	if len(parts) != 3 {
		return 0, &ParseError{Input: s, Reason: "expected H:MM:SS"}
	}

	hours, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, &ParseError{Input: s, Reason: "bad hours segment"}
	}
	minutes, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || minutes > 59 {
		return 0, &ParseError{Input: s, Reason: "bad minutes segment"}
	}
	seconds, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil || seconds > 59 {
		return 0, &ParseError{Input: s, Reason: "bad seconds segment"}
	}

	total := int64(hours)*secondsPerHour + int64(minutes)*60 + int64(seconds)
	if negative {
		total = -total
	}
	return Duration(total), nil
}

// Seconds returns the total elapsed seconds.
func (d Duration) Seconds() int64 {
	return int64(d)
}

// Hours returns the duration in decimal hours, the unit summaries are
// reported in.
func (d Duration) Hours() float64 {
	return float64(d) / secondsPerHour
}

// String renders the canonical H:MM:SS clock form.
func (d Duration) String() string {
	total := int64(d)
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, total/secondsPerHour, (total%secondsPerHour)/60, total%60)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts either a clock string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := ParseClock(s)
		if perr != nil {
			return perr
		}
		*d = parsed
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*d = Duration(n)
		return nil
	}

	return &ParseError{Input: string(data), Reason: "expected clock string or seconds"}
}

// MeetsTarget reports whether logged has reached total. An absent
// value on either side is never complete.
func MeetsTarget(logged, total *Duration) bool {
	if logged == nil || total == nil {
		return false
	}
	return *logged >= *total
}
