package engine

import (
	"regexp"
	"strconv"
	"strings"
)

var durationPattern = regexp.MustCompile(`Duration:\s*(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)

// progressTracker converts `-progress pipe:1` output into a completion ratio.
// The expected output length comes from `-t` when present, otherwise from the
// input duration the engine prints on stderr minus any `-ss` offset.
type progressTracker struct {
	start    float64
	limit    float64
	input    float64
	last     float64
	finished bool
}

func newProgressTracker(args []string) *progressTracker {
	t := &progressTracker{last: -1}
	for i := 0; i+1 < len(args); i++ {
		switch args[i] {
		case "-ss":
			t.start = parseSeconds(args[i+1])
		case "-t":
			t.limit = parseSeconds(args[i+1])
		}
	}
	return t
}

func (t *progressTracker) total() float64 {
	if t.limit > 0 {
		if t.input > 0 && t.input-t.start < t.limit {
			return t.input - t.start
		}
		return t.limit
	}
	if t.input > 0 {
		return t.input - t.start
	}
	return 0
}

// observeStderr picks up the first input duration banner.
func (t *progressTracker) observeStderr(line string) {
	if t.input > 0 {
		return
	}
	match := durationPattern.FindStringSubmatch(line)
	if match == nil {
		return
	}
	hours, _ := strconv.ParseFloat(match[1], 64)
	minutes, _ := strconv.ParseFloat(match[2], 64)
	seconds, _ := strconv.ParseFloat(match[3], 64)
	t.input = hours*3600 + minutes*60 + seconds
}

// observeStdout returns a new ratio when the line moves progress forward.
func (t *progressTracker) observeStdout(line string) (float64, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return 0, false
	}
	var elapsed float64
	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds.
		micros, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}
		elapsed = micros / 1e6
	case "out_time":
		elapsed = parseSeconds(value)
	case "progress":
		if value != "end" || t.finished {
			return 0, false
		}
		t.finished = true
		t.last = 1
		return 1, true
	default:
		return 0, false
	}

	total := t.total()
	if total <= 0 || elapsed < 0 {
		return 0, false
	}
	ratio := elapsed / total
	if ratio > 0.999 {
		// Only progress=end reports completion.
		ratio = 0.999
	}
	if ratio <= t.last {
		return 0, false
	}
	t.last = ratio
	return ratio, true
}

// parseSeconds accepts plain seconds ("2.5") or clock time ("00:00:02.500000").
func parseSeconds(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return 0
	}
	if !strings.Contains(value, ":") {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil || seconds < 0 {
			return 0
		}
		return seconds
	}
	var total float64
	for _, part := range strings.Split(value, ":") {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
