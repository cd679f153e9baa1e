package zenoti

import (
	"strings"
	"time"

	apperrors "github.com/LiftOffLLC/zenoti-sdk/pkg/errors"
)

const (
	// LocalTimeLayout is how the platform writes center-local timestamps.
	LocalTimeLayout = "2006-01-02T15:04:05"
	// DateLayout is the center day format used in requests.
	DateLayout = "2006-01-02"
)

// ParseTime reads a platform timestamp. Timestamps without an offset are interpreted in loc.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{LocalTimeLayout, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.NewExternalError("unrecognised timestamp "+value, nil)
}

// FormatDate renders t as the platform's center day.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewInvalidArgumentError(field, "is required")
	}
	return nil
}
