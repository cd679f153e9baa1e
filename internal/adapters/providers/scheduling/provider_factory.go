package scheduling

import (
	"time"

	"github.com/LiftOffLLC/zenoti-sdk/internal/domain/providers"
	"github.com/LiftOffLLC/zenoti-sdk/internal/infrastructure/observability"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/zenoti"
)

// AvailabilityProviderConfig configures availability providers.
type AvailabilityProviderConfig struct {
	Client            *zenoti.Client
	Location          *time.Location
	AllowMockFallback bool
	Metrics           *observability.Metrics
}

// NewAvailabilityProvider returns the Zenoti adapter, or the mock adapter when no client is configured.
func NewAvailabilityProvider(cfg AvailabilityProviderConfig) providers.AvailabilityProvider {
	if cfg.Client == nil {
		// No platform credentials; serve the sample day.
		return NewMockAdapter(cfg.Location)
	}
	return NewZenotiAdapter(cfg.Client, cfg.Location, cfg.Metrics)
}

// NewFallbackProvider returns the provider that replaces a failed center day, or nil when
// fallback is disabled or the primary is already the mock.
func NewFallbackProvider(cfg AvailabilityProviderConfig) providers.AvailabilityProvider {
	if cfg.Client == nil || !cfg.AllowMockFallback {
		return nil
	}
	return NewMockAdapter(cfg.Location)
}
