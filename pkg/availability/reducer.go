package availability

import "time"

// ReduceSchedule turns one therapist's schedule into the ranges that can actually be booked.
// Each returned range starts at the first legal slot start and ends at the last one.
func ReduceSchedule(hours CenterHours, schedule TherapistSchedule, durationMinutes int, opts Options) []TimeRange {
	interval := hours.AppointmentIntervalMinutes
	minLength := time.Duration(durationMinutes) * time.Minute

	ranges := onDutyRanges(hours, schedule.WorkRanges)
	for i := range ranges {
		ranges[i].Start = ceilToGrid(ranges[i].Start, interval)
	}
	ranges = keepLongEnough(ranges, minLength)

	for _, blocked := range schedule.UnavailableRanges {
		if opts.AlignBlockedEnds {
			blocked.End = ceilToGrid(blocked.End, interval)
		}
		ranges = subtractBlocked(ranges, blocked, minLength)
	}

	return shrinkToLastStart(ranges, minLength, interval, opts.endPolicy())
}

// onDutyRanges clips every work range to the center's operating window.
func onDutyRanges(hours CenterHours, work []TimeRange) []TimeRange {
	open := hours.Range()
	out := make([]TimeRange, 0, len(work))
	for _, w := range work {
		if clipped, ok := w.Intersect(open); ok {
			out = append(out, clipped)
		}
	}
	return out
}

// subtractBlocked is one step of the fold over unavailable ranges. It never mutates ranges:
// the next step sees only what this one returns, so overlapping blocked periods are not
// double-counted.
func subtractBlocked(ranges []TimeRange, blocked TimeRange, minLength time.Duration) []TimeRange {
	out := make([]TimeRange, 0, len(ranges)+1)
	for _, r := range ranges {
		if !r.Overlaps(blocked) {
			out = append(out, r)
			continue
		}
		for _, fragment := range r.Subtract(blocked) {
			if fragment.Duration() >= minLength {
				out = append(out, fragment)
			}
		}
	}
	return out
}

func keepLongEnough(ranges []TimeRange, minLength time.Duration) []TimeRange {
	out := ranges[:0]
	for _, r := range ranges {
		if r.Duration() >= minLength {
			out = append(out, r)
		}
	}
	return out
}

func shrinkToLastStart(ranges []TimeRange, length time.Duration, intervalMinutes int, policy EndBoundaryPolicy) []TimeRange {
	out := make([]TimeRange, 0, len(ranges))
	for _, r := range ranges {
		end := r.End.Add(-length)
		if policy == EndPolicyExtraGridUnit {
			end = end.Add(time.Duration(intervalMinutes) * time.Minute)
		}
		out = append(out, TimeRange{Start: r.Start, End: end})
	}
	return out
}
