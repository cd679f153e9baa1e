package scheduling

import (
	"context"
	"time"

	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/entities"
	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/providers"
	"github.com/LiftOffLLC/zenoti-sdk/internal/infrastructure/observability"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
	apperrors "github.com/LiftOffLLC/zenoti-sdk/pkg/errors"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/zenoti"
)

// ZenotiAdapter implements AvailabilityProvider on top of the Zenoti API
type ZenotiAdapter struct {
	client   *zenoti.Client
	location *time.Location
	metrics  *observability.Metrics
}

// NewZenotiAdapter creates a new Zenoti adapter. Platform timestamps carry no offset and are
// read in location. metrics may be nil.
func NewZenotiAdapter(client *zenoti.Client, location *time.Location, metrics *observability.Metrics) *ZenotiAdapter {
	if location == nil {
		location = time.UTC
	}
	return &ZenotiAdapter{
		client:   client,
		location: location,
		metrics:  metrics,
	}
}

var _ providers.AvailabilityProvider = (*ZenotiAdapter)(nil)

// GetCenterSchedule returns center hours and therapist schedules for the queried day
func (a *ZenotiAdapter) GetCenterSchedule(ctx context.Context, query *entities.AvailabilityQuery) (*entities.CenterSchedule, error) {
	started := time.Now()
	resp, err := a.client.Employees.TherapistAvailability(ctx, zenoti.TherapistAvailabilityRequest{
		CenterID:  query.CenterID,
		GuestID:   query.GuestID,
		ServiceID: query.ServiceID,
		Date:      zenoti.FormatDate(query.Date),
	})
	a.record(ctx, "therapist_availability", err, started)
	if err != nil {
		return nil, err
	}

	hours, err := a.centerHours(resp.CenterHours)
	if err != nil {
		return nil, err
	}

	schedule := &entities.CenterSchedule{
		CenterID:   query.CenterID,
		Hours:      hours,
		Therapists: make([]availability.TherapistSchedule, 0, len(resp.TherapistSlots)),
	}
	// Therapists outside the requested subset are skipped before their timestamps are parsed
	for _, slot := range resp.FilterTherapists(query.TherapistIDs) {
		work, err := a.ranges(slot.Schedule)
		if err != nil {
			return nil, err
		}
		unavailable, err := a.ranges(slot.UnavailableTimes)
		if err != nil {
			return nil, err
		}
		schedule.Therapists = append(schedule.Therapists, availability.TherapistSchedule{
			TherapistID:       slot.ID,
			WorkRanges:        work,
			UnavailableRanges: unavailable,
		})
	}

	return schedule, nil
}

// GetBlockOutTimes returns the block-outs of a center on date
func (a *ZenotiAdapter) GetBlockOutTimes(ctx context.Context, centerID string, date time.Time) ([]entities.BlockOut, error) {
	started := time.Now()
	resp, err := a.client.Employees.BlockOutTimes(ctx, centerID, zenoti.FormatDate(date))
	a.record(ctx, "block_out_times", err, started)
	if err != nil {
		return nil, err
	}

	blockOuts := make([]entities.BlockOut, 0, len(resp.BlockOutTimes))
	for _, item := range resp.BlockOutTimes {
		r, err := a.span(item.StartTime, item.EndTime)
		if err != nil {
			return nil, err
		}
		blockOuts = append(blockOuts, entities.BlockOut{
			ID:          item.ID,
			TherapistID: item.Employee.ID,
			Range:       r,
		})
	}
	return blockOuts, nil
}

func (a *ZenotiAdapter) centerHours(h zenoti.CenterHours) (availability.CenterHours, error) {
	r, err := a.span(h.StartTime, h.EndTime)
	if err != nil {
		return availability.CenterHours{}, err
	}
	return availability.CenterHours{
		Start:                      r.Start,
		End:                        r.End,
		AppointmentIntervalMinutes: h.AppointmentInterval,
	}, nil
}

func (a *ZenotiAdapter) ranges(spans []zenoti.TimeSpan) ([]availability.TimeRange, error) {
	out := make([]availability.TimeRange, 0, len(spans))
	for _, s := range spans {
		r, err := a.span(s.StartTime, s.EndTime)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (a *ZenotiAdapter) span(start, end string) (availability.TimeRange, error) {
	s, err := zenoti.ParseTime(start, a.location)
	if err != nil {
		return availability.TimeRange{}, apperrors.NewExternalError("malformed schedule from booking platform", err)
	}
	e, err := zenoti.ParseTime(end, a.location)
	if err != nil {
		return availability.TimeRange{}, apperrors.NewExternalError("malformed schedule from booking platform", err)
	}
	return availability.TimeRange{Start: s, End: e}, nil
}

func (a *ZenotiAdapter) record(ctx context.Context, operation string, err error, started time.Time) {
	if a.metrics != nil {
		observability.RecordUpstreamMetric(ctx, a.metrics, operation, err, time.Since(started))
	}
}
