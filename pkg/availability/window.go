package availability

// RoundWindow snaps a requested window inwards: start up and end down to the grid.
func RoundWindow(window TimeRange, intervalMinutes int) TimeRange {
	return TimeRange{
		Start: ceilToGrid(window.Start, intervalMinutes),
		End:   floorToGrid(window.End, intervalMinutes),
	}
}

// FilterWindow intersects bookable ranges with an already rounded window. A nil window passes
// the ranges through. A range ending exactly on the window start becomes a zero-length marker
// at that instant unless suppressMarker is set, so its single slot survives.
func FilterWindow(ranges []TimeRange, window *TimeRange, suppressMarker bool) []TimeRange {
	if window == nil {
		return ranges
	}
	// Rounding inwards can invert a window narrower than one grid step.
	if !window.Valid() {
		return []TimeRange{}
	}

	out := make([]TimeRange, 0, len(ranges))
	for _, r := range ranges {
		if r.End.Equal(window.Start) {
			if !suppressMarker {
				out = append(out, TimeRange{Start: window.Start, End: window.Start})
			}
			continue
		}
		if clipped, ok := window.Intersect(r); ok {
			out = append(out, clipped)
		}
	}
	return out
}
