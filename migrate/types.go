package migrate

import (
	"time"

	"github.com/warp/capacity-engine/engine"
)

// =============================================================================
// MIGRATION RECORD INTERCHANGE - {entities, _metadata} envelope
// =============================================================================

// Metadata carries provenance for a migration output document. It is
// written for humans and downstream tooling; the algorithms themselves
// never read it.
type Metadata struct {
	SourceFile       string    `json:"source_file,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
	SourceCount      int       `json:"source_count"`
	EntityCount      int       `json:"entity_count"`
	ReductionPercent float64   `json:"reduction_percent"`
}

// Envelope is the JSON interchange document for migrated allocations.
type Envelope struct {
	Entities []engine.AllocationPeriod `json:"entities"`
	Metadata Metadata                  `json:"_metadata"`
}
