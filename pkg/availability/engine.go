// Package availability computes bookable therapist slots from center hours, work schedules and
// unavailable periods. It performs no I/O and holds no state between calls, so an Engine may be
// shared freely between goroutines.
package availability

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/LiftOffLLC/zenoti-sdk/pkg/errors"
)

// Engine runs the availability pipeline with a fixed set of options.
type Engine struct {
	opts Options
}

// NewEngine creates an Engine.
func NewEngine(opts Options) Engine {
	return Engine{opts: opts}
}

// Options returns the engine's configuration.
func (e Engine) Options() Options {
	return e.opts
}

// Compute returns full-day availability for every therapist, unfiltered.
func (e Engine) Compute(hours CenterHours, schedules []TherapistSchedule, durationMinutes int) (*AvailabilityResult, error) {
	return e.ComputeFiltered(hours, schedules, AppointmentRequest{DurationMinutes: durationMinutes})
}

// ComputeFiltered returns availability restricted to req's window, therapist subset and
// timezone. Every input is validated before any output is built; the only error is an
// InvalidArgument AppError naming the offending field.
func (e Engine) ComputeFiltered(hours CenterHours, schedules []TherapistSchedule, req AppointmentRequest) (*AvailabilityResult, error) {
	loc, err := e.validate(hours, schedules, req)
	if err != nil {
		return nil, err
	}

	interval := hours.AppointmentIntervalMinutes
	formatter := SlotFormatter{Layout: e.opts.SlotFormat, Location: loc}

	var window *TimeRange
	if req.RequestedWindow != nil {
		rounded := RoundWindow(*req.RequestedWindow, interval)
		window = &rounded
	}

	var wanted map[string]struct{}
	if len(req.TherapistIDs) > 0 {
		wanted = make(map[string]struct{}, len(req.TherapistIDs))
		for _, id := range req.TherapistIDs {
			wanted[id] = struct{}{}
		}
	}

	therapists := make([]TherapistAvailability, 0, len(schedules))
	for _, schedule := range schedules {
		if wanted != nil {
			if _, ok := wanted[schedule.TherapistID]; !ok {
				continue
			}
		}

		ranges := ReduceSchedule(hours, schedule, req.DurationMinutes, e.opts)
		ranges = FilterWindow(ranges, window, e.opts.SuppressBoundaryMarker)
		slots := CollectSlots(ranges, interval)

		therapists = append(therapists, TherapistAvailability{
			TherapistID:     schedule.TherapistID,
			AvailableRanges: ranges,
			Slots:           slots,
			FormattedSlots:  formatter.FormatAll(slots),
		})
	}

	return &AvailabilityResult{
		CenterHours: hours,
		Therapists:  therapists,
	}, nil
}

func (e Engine) validate(hours CenterHours, schedules []TherapistSchedule, req AppointmentRequest) (*time.Location, error) {
	if req.DurationMinutes <= 0 {
		return nil, apperrors.NewInvalidArgumentError("durationMinutes", "must be greater than zero")
	}
	if hours.AppointmentIntervalMinutes <= 0 {
		return nil, apperrors.NewInvalidArgumentError("appointmentIntervalMinutes", "must be greater than zero")
	}
	if !hours.Range().Valid() {
		return nil, apperrors.NewInvalidArgumentError("centerHours", "start is after end")
	}
	for i, s := range schedules {
		for j, r := range s.WorkRanges {
			if !r.Valid() {
				return nil, apperrors.NewInvalidArgumentError(
					fmt.Sprintf("schedules[%d].workRanges[%d]", i, j), "start is after end")
			}
		}
		for j, r := range s.UnavailableRanges {
			if !r.Valid() {
				return nil, apperrors.NewInvalidArgumentError(
					fmt.Sprintf("schedules[%d].unavailableRanges[%d]", i, j), "start is after end")
			}
		}
	}
	if req.RequestedWindow != nil && !req.RequestedWindow.Valid() {
		return nil, apperrors.NewInvalidArgumentError("requestedWindow", "start is after end")
	}
	return e.resolveLocation(req.Timezone)
}

func (e Engine) resolveLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return e.opts.defaultLocation(), nil
	}
	// "Local" would silently depend on the host's zone.
	if tz == "Local" {
		return nil, apperrors.NewInvalidArgumentError("timezone", "an explicit IANA timezone is required")
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, apperrors.NewInvalidArgumentError("timezone", fmt.Sprintf("unknown timezone %q", tz))
	}
	return loc, nil
}
