// Package nnduration provides JSON-compatible non-negative duration types.
package nnduration

import (
	"strconv"
	"strings"
	"time"
)

func parse(input string, unit time.Duration) (uint64, error) {
	d, e := time.ParseDuration(input)
	if e != nil {
		return strconv.ParseUint(input, 10, 64)
	}
	return uint64(d / unit), nil
}

func parseJSON[T ~uint64](d *T, p []byte, unit time.Duration) error {
	value, e := parse(strings.Trim(string(p), `"`), unit)
	*d = T(value)
	return e
}

// Milliseconds is a duration in milliseconds unit.
// In JSON, it is either a non-negative integer in milliseconds,
// or a string acceptable to time.ParseDuration.
type Milliseconds uint64

// UnmarshalJSON implements json.Unmarshaler interface.
func (d *Milliseconds) UnmarshalJSON(p []byte) error {
	return parseJSON(d, p, time.Millisecond)
}

// Duration converts this to time.Duration.
func (d Milliseconds) Duration() time.Duration {
	return time.Duration(d) * time.Millisecond
}

// DurationOr converts this to time.Duration, substituting dflt if this is zero.
func (d Milliseconds) DurationOr(dflt Milliseconds) time.Duration {
	if d == 0 {
		d = dflt
	}
	return d.Duration()
}

// Nanoseconds is a duration in nanoseconds unit.
// In JSON, it is either a non-negative integer in nanoseconds,
// or a string acceptable to time.ParseDuration.
type Nanoseconds uint64

// UnmarshalJSON implements json.Unmarshaler interface.
func (d *Nanoseconds) UnmarshalJSON(p []byte) error {
	return parseJSON(d, p, time.Nanosecond)
}

// Duration converts this to time.Duration.
func (d Nanoseconds) Duration() time.Duration {
	return time.Duration(d)
}

// DurationOr converts this to time.Duration, substituting dflt if this is zero.
func (d Nanoseconds) DurationOr(dflt Nanoseconds) time.Duration {
	if d == 0 {
		d = dflt
	}
	return d.Duration()
}
