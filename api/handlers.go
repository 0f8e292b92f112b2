/*
handlers.go - HTTP API handlers for the capacity engine

PURPOSE:
  Exposes the calculation engine and migration pipeline via REST. Handles
  HTTP request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Resources:
    GET  /api/resources                       List resources
    GET  /api/resources/{id}/utilization      Per-period utilization for one resource

  Utilization:
    GET  /api/utilization                     Utilization fan-out across all resources

  Migration:
    POST /api/migrate/preview                 Run the pipeline, return validated output

  Observability:
    GET  /metrics                             Prometheus metrics

REQUEST FLOW:
  1. Parse and validate query/body (this layer owns user-visible 400s;
     the engine itself trusts its inputs)
  2. Fetch materialized collections from the store
  3. Run the pure calculation
  4. Serialize response

CONCURRENCY:
  Per-resource utilization is a pure function over disjoint inputs, so the
  all-resources endpoint fans out one goroutine per resource with no
  synchronization beyond collecting results.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/capacity-engine/engine"
	"github.com/warp/capacity-engine/metrics"
	"github.com/warp/capacity-engine/migrate"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  engine.Store
	Calc   *engine.Calculator
	Logger zerolog.Logger
}

// NewHandler creates a new handler with the given store.
func NewHandler(store engine.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		Store:  store,
		Calc:   engine.NewCalculator(),
		Logger: logger,
	}
}

// =============================================================================
// RESOURCE HANDLERS
// =============================================================================

// ListResources returns the resource directory.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.Store.Resources(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]ResourceDTO, len(resources))
	for i, res := range resources {
		dtos[i] = toResourceDTO(res)
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

// GetResourceUtilization computes per-period utilization for one resource.
// Query: start=YYYY-MM-DD, end=YYYY-MM-DD, granularity=daily|weekly|monthly.
func (h *Handler) GetResourceUtilization(w http.ResponseWriter, r *http.Request) {
	id := engine.ResourceID(chi.URLParam(r, "id"))

	rangeStart, rangeEnd, granularity, ok := h.parseUtilizationQuery(w, r)
	if !ok {
		return
	}

	resource, err := h.Store.Resource(r.Context(), id)
	if err != nil {
		if engine.IsNotFound(err) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	started := time.Now()
	periods, results, err := h.computeUtilization(r.Context(), id, rangeStart, rangeEnd, granularity)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	metrics.UtilizationRequests.WithLabelValues(string(granularity)).Inc()
	metrics.UtilizationComputeSeconds.Observe(time.Since(started).Seconds())

	h.writeJSON(w, http.StatusOK, ResourceUtilizationDTO{
		Resource: toResourceDTO(resource),
		Periods:  toUtilizationDTOs(periods, results),
	})
}

// ListUtilization computes utilization for every resource concurrently.
func (h *Handler) ListUtilization(w http.ResponseWriter, r *http.Request) {
	rangeStart, rangeEnd, granularity, ok := h.parseUtilizationQuery(w, r)
	if !ok {
		return
	}

	resources, err := h.Store.Resources(r.Context())
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}

	started := time.Now()
	out := make([]ResourceUtilizationDTO, len(resources))
	errs := make([]error, len(resources))

	var wg sync.WaitGroup
	for i, res := range resources {
		wg.Add(1)
		go func(i int, res engine.Resource) {
			defer wg.Done()
			periods, results, err := h.computeUtilization(r.Context(), res.ID, rangeStart, rangeEnd, granularity)
			if err != nil {
				errs[i] = err
				return
			}
			out[i] = ResourceUtilizationDTO{
				Resource: toResourceDTO(res),
				Periods:  toUtilizationDTOs(periods, results),
			}
		}(i, res)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	metrics.UtilizationRequests.WithLabelValues(string(granularity)).Inc()
	metrics.UtilizationComputeSeconds.Observe(time.Since(started).Seconds())
	h.writeJSON(w, http.StatusOK, out)
}

// computeUtilization fetches collections and runs the pure fold.
func (h *Handler) computeUtilization(
	ctx context.Context,
	id engine.ResourceID,
	rangeStart, rangeEnd engine.TimePoint,
	granularity engine.Granularity,
) ([]engine.TimePeriod, []engine.UtilizationPeriod, error) {
	// The engine works on half-open [start, end); the store query is
	// inclusive, so fetch up to the day before rangeEnd.
	fetchEnd := rangeEnd.AddDays(-1)

	allocations, err := h.Store.AllocationsInRange(ctx, id, rangeStart, fetchEnd)
	if err != nil {
		return nil, nil, err
	}
	availability, err := h.Store.AvailabilityHistory(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	unavailability, err := h.Store.UnavailabilityInRange(ctx, id, rangeStart, fetchEnd)
	if err != nil {
		return nil, nil, err
	}

	periods := engine.GenerateTimePeriods(rangeStart, rangeEnd, granularity)
	results := h.Calc.CalculateRange(periods, allocations, availability, unavailability, nil)
	return periods, results, nil
}

// =============================================================================
// MIGRATION HANDLERS
// =============================================================================

// PreviewMigration runs the aggregate/merge pipeline over an uploaded
// envelope and returns the result with its quality report. Nothing is
// persisted; an invalid report comes back with the data so the caller can
// inspect every finding.
func (h *Handler) PreviewMigration(w http.ResponseWriter, r *http.Request) {
	var in migrate.Envelope
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	pipeline := migrate.NewPipeline(h.Logger)
	pipeline.SourceFile = in.Metadata.SourceFile
	envelope, report := pipeline.Run(in.Entities)

	h.writeJSON(w, http.StatusOK, MigrationPreviewResponse{
		Entities:   envelope.Entities,
		Metadata:   envelope.Metadata,
		Validation: report,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) parseUtilizationQuery(w http.ResponseWriter, r *http.Request) (engine.TimePoint, engine.TimePoint, engine.Granularity, bool) {
	q := r.URL.Query()

	rangeStart, err := engine.ParseDate(q.Get("start"))
	if err != nil {
		h.writeErrorMsg(w, http.StatusBadRequest, "start: date required (YYYY-MM-DD)")
		return engine.TimePoint{}, engine.TimePoint{}, "", false
	}
	rangeEnd, err := engine.ParseDate(q.Get("end"))
	if err != nil {
		h.writeErrorMsg(w, http.StatusBadRequest, "end: date required (YYYY-MM-DD)")
		return engine.TimePoint{}, engine.TimePoint{}, "", false
	}
	if !rangeStart.Before(rangeEnd) {
		h.writeError(w, http.StatusBadRequest, &engine.RangeError{Start: rangeStart, End: rangeEnd})
		return engine.TimePoint{}, engine.TimePoint{}, "", false
	}

	granularity, ok := engine.ParseGranularity(q.Get("granularity"))
	if !ok {
		h.writeErrorMsg(w, http.StatusBadRequest, "granularity must be daily, weekly, or monthly")
		return engine.TimePoint{}, engine.TimePoint{}, "", false
	}

	return rangeStart, rangeEnd, granularity, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error().Err(err).Msg("encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}
