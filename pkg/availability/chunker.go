package availability

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"
)

// LocalLayout renders a slot as the center's wall-clock time with no offset, the way the
// booking platform itself exchanges timestamps.
const LocalLayout = "2006-01-02T15:04:05"

// SlotFormat selects how slot instants are rendered.
type SlotFormat string

const (
	SlotFormatLocal SlotFormat = "local"
	SlotFormatZoned SlotFormat = "zoned"
)

// ParseSlotFormat parses a format name; the empty string selects SlotFormatLocal.
func ParseSlotFormat(s string) (SlotFormat, error) {
	switch SlotFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", SlotFormatLocal:
		return SlotFormatLocal, nil
	case SlotFormatZoned:
		return SlotFormatZoned, nil
	default:
		return "", fmt.Errorf("unknown slot format %q", s)
	}
}

// Chunk yields r.Start, r.Start+step, ... for every point not after r.End. A zero-length range
// yields exactly one instant. The sequence can be ranged over any number of times.
func Chunk(r TimeRange, stepMinutes int) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if !r.Valid() {
			return
		}
		if stepMinutes <= 0 {
			yield(r.Start)
			return
		}
		step := time.Duration(stepMinutes) * time.Minute
		for t := r.Start; !t.After(r.End); t = t.Add(step) {
			if !yield(t) {
				return
			}
		}
	}
}

// CollectSlots flattens the chunks of every range into an ascending, duplicate-free slice.
func CollectSlots(ranges []TimeRange, stepMinutes int) []time.Time {
	var slots []time.Time
	for _, r := range ranges {
		for t := range Chunk(r, stepMinutes) {
			slots = append(slots, t)
		}
	}
	slices.SortFunc(slots, func(a, b time.Time) int { return a.Compare(b) })
	return slices.CompactFunc(slots, func(a, b time.Time) bool { return a.Equal(b) })
}

// SlotFormatter renders slot instants.
type SlotFormatter struct {
	Layout   SlotFormat
	Location *time.Location
}

// Format renders t in the formatter's location.
func (f SlotFormatter) Format(t time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	if f.Layout == SlotFormatZoned {
		return t.Format(time.RFC3339)
	}
	return t.Format(LocalLayout)
}

// FormatAll renders every slot, preserving order.
func (f SlotFormatter) FormatAll(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, t := range slots {
		out = append(out, f.Format(t))
	}
	return out
}
