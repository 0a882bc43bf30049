package transcode

import (
	"strconv"
	"strings"
)

const (
	// DefaultFrameRate is used when the frame rate field is empty or unparsable.
	DefaultFrameRate = 10
	// DefaultWidth is used when the width field is empty or unparsable.
	DefaultWidth = 320
)

// Params is the flat record read from the form when a conversion starts.
type Params struct {
	FrameRate int
	Width     int
	Compress  bool
	// Start is the trim offset in seconds; zero means from the beginning.
	Start float64
	// Duration is the trim length in seconds; zero means to the end.
	Duration float64
}

// Form carries the raw field values as the user typed them.
type Form struct {
	FrameRate string
	Width     string
	Compress  bool
	Start     string
	Duration  string
}

// Defaults supplies the fallbacks used by Parse.
type Defaults struct {
	FrameRate int
	Width     int
}

// DefaultParams returns the parameters an untouched form produces.
func DefaultParams() Params {
	return Params{FrameRate: DefaultFrameRate, Width: DefaultWidth}
}

// Parse converts a form into Params. Numeric fields never fail: anything
// that does not yield a positive integer falls back to the default, and
// trim fields that are not non-negative numbers become zero.
func Parse(form Form, defaults Defaults) Params {
	if defaults.FrameRate <= 0 {
		defaults.FrameRate = DefaultFrameRate
	}
	if defaults.Width <= 0 {
		defaults.Width = DefaultWidth
	}
	return Params{
		FrameRate: intOrDefault(form.FrameRate, defaults.FrameRate),
		Width:     intOrDefault(form.Width, defaults.Width),
		Compress:  form.Compress,
		Start:     secondsOrZero(form.Start),
		Duration:  secondsOrZero(form.Duration),
	}
}

// intOrDefault accepts a leading integer prefix, so "12fps" and "12.7" both
// read as 12.
func intOrDefault(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return fallback
	}
	value, err := strconv.Atoi(raw[:end])
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func secondsOrZero(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value < 0 || value != value {
		return 0
	}
	return value
}
