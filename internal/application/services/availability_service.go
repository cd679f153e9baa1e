package services

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/entities"
	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/providers"
	"github.com/LiftOffLLC/zenoti-sdk/internal/infrastructure/observability"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
	apperrors "github.com/LiftOffLLC/zenoti-sdk/pkg/errors"
)

// AvailabilityService turns platform schedules into bookable slots
type AvailabilityService struct {
	provider providers.AvailabilityProvider
	fallback providers.AvailabilityProvider
	engine   availability.Engine
	metrics  *observability.Metrics
}

// NewAvailabilityService creates a new availability service. metrics may be nil.
func NewAvailabilityService(provider providers.AvailabilityProvider, engine availability.Engine, metrics *observability.Metrics) *AvailabilityService {
	return &AvailabilityService{
		provider: provider,
		engine:   engine,
		metrics:  metrics,
	}
}

// SetFallback serves whole center days from fallback when the primary provider fails
func (s *AvailabilityService) SetFallback(fallback providers.AvailabilityProvider) {
	s.fallback = fallback
}

// GetAvailability fetches the center day and its block-outs, then computes every therapist's slots
func (s *AvailabilityService) GetAvailability(ctx context.Context, query *entities.AvailabilityQuery) (*availability.AvailabilityResult, error) {
	if query == nil {
		return nil, apperrors.NewInvalidArgumentError("query", "is required")
	}

	ctx, span := observability.StartSpan(ctx, "AvailabilityService.GetAvailability")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("center.id", query.CenterID),
		attribute.String("service.id", query.ServiceID),
		attribute.Int("duration_minutes", query.DurationMinutes),
	)

	// Schedule and block-outs always come from the same provider
	schedule, blockOuts, err := fetchDay(ctx, s.provider, query)
	if err != nil && s.fallback != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("center_id", query.CenterID).Msg("falling back to mock center day")
		schedule, blockOuts, err = fetchDay(ctx, s.fallback, query)
	}
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	schedules := MergeBlockOuts(schedule.Therapists, blockOuts)
	result, err := s.engine.ComputeFiltered(schedule.Hours, schedules, availability.AppointmentRequest{
		DurationMinutes: query.DurationMinutes,
		RequestedWindow: query.Window(),
		TherapistIDs:    query.TherapistIDs,
		Timezone:        query.Timezone,
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	slots := 0
	for _, therapist := range result.Therapists {
		slots += len(therapist.Slots)
	}
	if s.metrics != nil {
		observability.RecordAvailabilityMetric(ctx, s.metrics, query.CenterID, len(result.Therapists), slots)
	}
	observability.LoggerFromContext(ctx).Debug().
		Str("center_id", query.CenterID).
		Int("therapists", len(result.Therapists)).
		Int("block_outs", len(blockOuts)).
		Int("slots", slots).
		Msg("availability computed")

	return result, nil
}

// fetchDay loads the schedule and block-outs of the queried day concurrently
func fetchDay(ctx context.Context, provider providers.AvailabilityProvider, query *entities.AvailabilityQuery) (*entities.CenterSchedule, []entities.BlockOut, error) {
	var (
		schedule  *entities.CenterSchedule
		blockOuts []entities.BlockOut
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		schedule, err = provider.GetCenterSchedule(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		blockOuts, err = provider.GetBlockOutTimes(gctx, query.CenterID, query.Date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return schedule, blockOuts, nil
}

// MergeBlockOuts returns copies of schedules with each block-out appended to its therapist's
// unavailable ranges. Block-outs of therapists without a schedule are dropped.
func MergeBlockOuts(schedules []availability.TherapistSchedule, blockOuts []entities.BlockOut) []availability.TherapistSchedule {
	byTherapist := make(map[string][]availability.TimeRange, len(blockOuts))
	for _, b := range blockOuts {
		byTherapist[b.TherapistID] = append(byTherapist[b.TherapistID], b.Range)
	}

	merged := make([]availability.TherapistSchedule, len(schedules))
	for i, schedule := range schedules {
		merged[i] = schedule
		if extra, ok := byTherapist[schedule.TherapistID]; ok {
			merged[i].UnavailableRanges = append(slices.Clip(schedule.UnavailableRanges), extra...)
		}
	}
	return merged
}
