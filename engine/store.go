package engine

import "context"

// =============================================================================
// STORE - Read interface consumed by the calculator and API layer
// =============================================================================

// Store supplies the materialized collections the engine computes over.
// The engine itself never persists anything; UtilizationPeriods are
// computed fresh per request.
//
// Implementations: store/sqlite (production), engine/store (in-memory).
type Store interface {
	// Resources lists the known resource directory.
	Resources(ctx context.Context) ([]Resource, error)

	// Resource returns one directory entry, or ErrResourceNotFound.
	Resource(ctx context.Context, id ResourceID) (Resource, error)

	// AllocationsInRange returns allocation periods for a resource whose
	// date range overlaps [from, to].
	AllocationsInRange(ctx context.Context, id ResourceID, from, to TimePoint) ([]AllocationPeriod, error)

	// AvailabilityHistory returns a resource's availability records sorted
	// ascending by EffectiveFrom. The resolver takes the last element.
	AvailabilityHistory(ctx context.Context, id ResourceID) ([]AvailabilityRecord, error)

	// UnavailabilityInRange returns unavailability periods for a resource
	// overlapping [from, to].
	UnavailabilityInRange(ctx context.Context, id ResourceID, from, to TimePoint) ([]UnavailabilityPeriod, error)
}
