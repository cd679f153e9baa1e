package availability

import (
	"fmt"
	"time"
)

// TimeRange is a closed pair of instants. Start never follows End; a zero-length range is
// legal and is used as a single-slot marker by the window filter.
type TimeRange struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// NewTimeRange creates a TimeRange, rejecting start after end.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.After(end) {
		return TimeRange{}, fmt.Errorf("start %s is after end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeRange{Start: start, End: end}, nil
}

// Valid reports whether the range respects Start <= End.
func (r TimeRange) Valid() bool {
	return !r.Start.After(r.End)
}

// Intersect returns the common part of r and other. Ranges that only touch do not intersect.
func (r TimeRange) Intersect(other TimeRange) (TimeRange, bool) {
	if !r.End.After(other.Start) || !other.End.After(r.Start) {
		return TimeRange{}, false
	}
	return TimeRange{Start: later(r.Start, other.Start), End: earlier(r.End, other.End)}, true
}

// Overlaps reports whether Intersect would succeed.
func (r TimeRange) Overlaps(other TimeRange) bool {
	_, ok := r.Intersect(other)
	return ok
}

// Subtract removes other from r and returns what is left, in order: nothing, one fragment or two.
func (r TimeRange) Subtract(other TimeRange) []TimeRange {
	if !r.Overlaps(other) {
		return []TimeRange{r}
	}

	var out []TimeRange
	if r.Start.Before(other.Start) {
		out = append(out, TimeRange{Start: r.Start, End: other.Start})
	}
	if other.End.Before(r.End) {
		out = append(out, TimeRange{Start: other.End, End: r.End})
	}
	return out
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// DurationMinutes returns the length of the range in (possibly fractional) minutes.
func (r TimeRange) DurationMinutes() float64 {
	return r.Duration().Minutes()
}

// Contains reports whether t lies within [Start, End].
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s - %s", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
