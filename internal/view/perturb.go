package view

import (
	"math"
	"strconv"
	"strings"
)

// Rand is satisfied by *math/rand.Rand.
type Rand interface {
	Float64() float64
}

// PerturbTemperature applies one perturbation step of the runtime script to a
// displayed temperature. Text that does not parse is returned unchanged.
func PerturbTemperature(display string, r Rand) string {
	current, err := strconv.ParseFloat(strings.TrimSpace(display), 64)
	if err != nil {
		return display
	}
	next := current + (r.Float64()-0.5)*0.2
	return strconv.FormatFloat(next, 'f', 1, 64)
}

// PerturbHumidity applies one perturbation step to a displayed humidity,
// clamped to [HUMIDITY_MIN, HUMIDITY_MAX]. Like parseInt it reads the leading
// integer and ignores the rest.
func PerturbHumidity(display string, r Rand) string {
	current, ok := leadingInt(display)
	if !ok {
		return display
	}
	next := current + int(math.Floor((r.Float64()-0.5)*3))
	next = max(HUMIDITY_MIN, min(HUMIDITY_MAX, next))
	return strconv.Itoa(next)
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}
