package availability

import "time"

// RoundDirection selects which neighbouring grid point Round snaps to.
type RoundDirection int

const (
	RoundCeil RoundDirection = iota
	RoundFloor
)

// Round snaps t to a multiple of intervalMinutes counted from the Unix epoch. It works on the
// absolute instant, so every therapist and the caller's window share the same grid whatever
// their display location; the result keeps t's location.
func Round(t time.Time, direction RoundDirection, intervalMinutes int) time.Time {
	if intervalMinutes <= 0 {
		return t
	}
	unit := time.Duration(intervalMinutes) * time.Minute
	offset := time.Duration(t.UnixNano())

	q := offset / unit
	rem := offset % unit
	switch direction {
	case RoundCeil:
		if rem > 0 {
			q++
		}
	case RoundFloor:
		if rem < 0 {
			q--
		}
	}
	return time.Unix(0, int64(q*unit)).In(t.Location())
}

func ceilToGrid(t time.Time, intervalMinutes int) time.Time {
	return Round(t, RoundCeil, intervalMinutes)
}

func floorToGrid(t time.Time, intervalMinutes int) time.Time {
	return Round(t, RoundFloor, intervalMinutes)
}
