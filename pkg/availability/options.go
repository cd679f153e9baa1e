package availability

import (
	"fmt"
	"strings"
	"time"
)

// EndBoundaryPolicy decides how a bookable range's End is turned into its last legal start.
type EndBoundaryPolicy string

const (
	// EndPolicyLastStart sets End to End - duration.
	EndPolicyLastStart EndBoundaryPolicy = "last_start"
	// EndPolicyExtraGridUnit sets End to End - duration + one appointment interval.
	EndPolicyExtraGridUnit EndBoundaryPolicy = "extra_grid_unit"
)

// ParseEndBoundaryPolicy parses a policy name; the empty string selects EndPolicyLastStart.
func ParseEndBoundaryPolicy(s string) (EndBoundaryPolicy, error) {
	switch EndBoundaryPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", EndPolicyLastStart:
		return EndPolicyLastStart, nil
	case EndPolicyExtraGridUnit:
		return EndPolicyExtraGridUnit, nil
	default:
		return "", fmt.Errorf("unknown end boundary policy %q", s)
	}
}

// Options tunes the engine. The zero value is usable: last-start policy, boundary markers
// emitted, unavailable ends left as given, local slot format in UTC.
type Options struct {
	EndPolicy EndBoundaryPolicy
	// SuppressBoundaryMarker drops the zero-length range the window filter otherwise emits when
	// a bookable range ends exactly on the rounded window start.
	SuppressBoundaryMarker bool
	// AlignBlockedEnds ceils every unavailable range's End to the grid before subtraction so
	// that fragments following a booking start on the grid.
	AlignBlockedEnds bool
	SlotFormat       SlotFormat
	// DefaultLocation renders slots when a request names no timezone. Nil means UTC.
	DefaultLocation *time.Location
}

func (o Options) endPolicy() EndBoundaryPolicy {
	if o.EndPolicy == "" {
		return EndPolicyLastStart
	}
	return o.EndPolicy
}

func (o Options) defaultLocation() *time.Location {
	if o.DefaultLocation == nil {
		return time.UTC
	}
	return o.DefaultLocation
}
