package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/entities"
	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/providers"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
)

// MockAdapter provides a deterministic center day for local development.
type MockAdapter struct {
	location *time.Location
	interval int
}

// NewMockAdapter creates a mock availability provider.
func NewMockAdapter(location *time.Location) *MockAdapter {
	if location == nil {
		location = time.UTC
	}
	return &MockAdapter{
		location: location,
		interval: 30,
	}
}

var _ providers.AvailabilityProvider = (*MockAdapter)(nil)

// MockTherapistID returns the stable id of the n-th sample therapist of a center.
func MockTherapistID(centerID string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "mock-therapist/%s/%d", centerID, n)).String()
}

// GetCenterSchedule returns three sample therapists working 09:00-18:00 center hours.
func (m *MockAdapter) GetCenterSchedule(ctx context.Context, query *entities.AvailabilityQuery) (*entities.CenterSchedule, error) {
	at := m.clock(query.Date)

	return &entities.CenterSchedule{
		CenterID: query.CenterID,
		Hours: availability.CenterHours{
			Start:                      at(9, 0),
			End:                        at(18, 0),
			AppointmentIntervalMinutes: m.interval,
		},
		Therapists: []availability.TherapistSchedule{
			{
				TherapistID:       MockTherapistID(query.CenterID, 1),
				WorkRanges:        []availability.TimeRange{{Start: at(9, 0), End: at(17, 0)}},
				UnavailableRanges: []availability.TimeRange{{Start: at(12, 0), End: at(13, 0)}},
			},
			{
				TherapistID:       MockTherapistID(query.CenterID, 2),
				WorkRanges:        []availability.TimeRange{{Start: at(10, 0), End: at(18, 0)}},
				UnavailableRanges: []availability.TimeRange{{Start: at(14, 0), End: at(14, 45)}},
			},
			{
				TherapistID: MockTherapistID(query.CenterID, 3),
				WorkRanges:  []availability.TimeRange{{Start: at(9, 0), End: at(13, 0)}},
			},
		},
	}, nil
}

// GetBlockOutTimes blocks the first sample therapist from 15:00 to 15:30.
func (m *MockAdapter) GetBlockOutTimes(ctx context.Context, centerID string, date time.Time) ([]entities.BlockOut, error) {
	at := m.clock(date)
	return []entities.BlockOut{{
		ID:          uuid.NewSHA1(uuid.NameSpaceURL, []byte("mock-blockout/"+centerID)).String(),
		TherapistID: MockTherapistID(centerID, 1),
		Range:       availability.TimeRange{Start: at(15, 0), End: at(15, 30)},
	}}, nil
}

func (m *MockAdapter) clock(day time.Time) func(hour, minute int) time.Time {
	y, mo, d := day.In(m.location).Date()
	return func(hour, minute int) time.Time {
		return time.Date(y, mo, d, hour, minute, 0, 0, m.location)
	}
}
