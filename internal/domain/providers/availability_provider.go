package providers

import (
	"context"
	"time"

	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/entities"
)

// AvailabilityProvider defines the interface for booking platforms that report therapist schedules
type AvailabilityProvider interface {
	// GetCenterSchedule returns center hours and the schedule of every therapist able to perform the queried service
	GetCenterSchedule(ctx context.Context, query *entities.AvailabilityQuery) (*entities.CenterSchedule, error)

	// GetBlockOutTimes returns the block-outs of a center on the given day
	GetBlockOutTimes(ctx context.Context, centerID string, date time.Time) ([]entities.BlockOut, error)
}
