package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/capacity-engine/api"
	"github.com/warp/capacity-engine/engine"
	"github.com/warp/capacity-engine/engine/store"
	"github.com/warp/capacity-engine/identity"
	"github.com/warp/capacity-engine/migrate"
)

// newTestServer seeds a memory store with one resource working 40h weeks,
// allocated 50% to one project for the first two weeks of January.
func newTestServer(t *testing.T) (*httptest.Server, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	mem.PutResource(engine.Resource{ID: "r1", Name: "Alice", Email: "alice@example.com"})
	mem.PutAvailability(engine.AvailabilityRecord{
		ResourceID:        "r1",
		EffectiveFrom:     engine.MustParseDate("2023-01-01"),
		TotalHoursPerWeek: decimal.NewFromInt(40),
	})
	mem.PutAllocation(engine.AllocationPeriod{
		ID:                "alloc-1",
		ResourceID:        "r1",
		ProjectID:         "proj-a",
		ProjectName:       "Platform Rebuild",
		StartDate:         engine.MustParseDate("2024-01-01"),
		EndDate:           engine.MustParseDate("2024-01-14"),
		PercentAllocation: decimal.NewFromInt(50),
	})

	handler := api.NewHandler(mem, zerolog.Nop())
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, mem
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// =============================================================================
// RESOURCES
// =============================================================================

func TestListResources(t *testing.T) {
	srv, _ := newTestServer(t)

	var resources []api.ResourceDTO
	status := getJSON(t, srv.URL+"/api/resources", &resources)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, resources, 1)
	assert.Equal(t, "r1", resources[0].ID)
	assert.Equal(t, "Alice", resources[0].Name)
}

// =============================================================================
// UTILIZATION
// =============================================================================

func TestGetResourceUtilization_Weekly(t *testing.T) {
	srv, _ := newTestServer(t)

	var out api.ResourceUtilizationDTO
	status := getJSON(t,
		srv.URL+"/api/resources/r1/utilization?start=2024-01-01&end=2024-02-01&granularity=weekly",
		&out)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "r1", out.Resource.ID)
	// January 2024 covers five Monday-started weeks, last one clipped.
	require.Len(t, out.Periods, 5)

	first := out.Periods[0]
	assert.Equal(t, "2024-01-01", first.PeriodStart)
	assert.InDelta(t, 50.0, first.TotalAllocationPercent, 0.001)
	assert.InDelta(t, 20.0, first.AllocatedHours, 0.001)
	assert.InDelta(t, 50.0, first.UtilizationPercent, 0.001)
	assert.Equal(t, string(engine.StatusUnderutilized), first.Status)
	require.Len(t, first.Allocations, 1)
	assert.Equal(t, "proj-a", first.Allocations[0].ProjectID)

	// Allocation ends Jan 14; later weeks are empty.
	last := out.Periods[4]
	assert.Zero(t, last.TotalAllocationPercent)
	assert.Equal(t, string(engine.StatusAvailable), last.Status)
	assert.Empty(t, last.Allocations)
}

func TestGetResourceUtilization_UnknownResource(t *testing.T) {
	srv, _ := newTestServer(t)

	var errResp api.ErrorResponse
	status := getJSON(t,
		srv.URL+"/api/resources/ghost/utilization?start=2024-01-01&end=2024-02-01&granularity=weekly",
		&errResp)

	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, errResp.Error)
}

func TestGetResourceUtilization_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"missing start", "end=2024-02-01&granularity=weekly"},
		{"malformed start", "start=01/15/2024&end=2024-02-01&granularity=weekly"},
		{"missing end", "start=2024-01-01&granularity=weekly"},
		{"start not before end", "start=2024-02-01&end=2024-01-01&granularity=weekly"},
		{"start equals end", "start=2024-01-01&end=2024-01-01&granularity=weekly"},
		{"bad granularity", "start=2024-01-01&end=2024-02-01&granularity=hourly"},
		{"missing granularity", "start=2024-01-01&end=2024-02-01"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var errResp api.ErrorResponse
			status := getJSON(t, srv.URL+"/api/resources/r1/utilization?"+tc.query, &errResp)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestListUtilization_FanOut(t *testing.T) {
	srv, mem := newTestServer(t)

	mem.PutResource(engine.Resource{ID: "r2", Name: "Bob"})
	mem.PutAllocation(engine.AllocationPeriod{
		ResourceID:        "r2",
		ProjectID:         "proj-b",
		StartDate:         engine.MustParseDate("2024-01-01"),
		EndDate:           engine.MustParseDate("2024-01-31"),
		PercentAllocation: decimal.NewFromInt(100),
	})

	var out []api.ResourceUtilizationDTO
	status := getJSON(t,
		srv.URL+"/api/utilization?start=2024-01-01&end=2024-02-01&granularity=monthly",
		&out)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, out, 2)

	byID := map[string]api.ResourceUtilizationDTO{}
	for _, ru := range out {
		byID[ru.Resource.ID] = ru
	}

	require.Len(t, byID["r2"].Periods, 1)
	assert.InDelta(t, 100.0, byID["r2"].Periods[0].UtilizationPercent, 0.001)
	assert.Equal(t, string(engine.StatusOverutilized), byID["r2"].Periods[0].Status)
}

// =============================================================================
// MIGRATION PREVIEW
// =============================================================================

func TestPreviewMigration(t *testing.T) {
	srv, _ := newTestServer(t)

	// Four consecutive weekly records for one resource/project; the preview
	// should merge them and report a valid envelope.
	var entities []engine.AllocationPeriod
	start := engine.MustParseDate("2024-01-01")
	for i := 0; i < 4; i++ {
		entities = append(entities, engine.AllocationPeriod{
			ResourceID:        "r1",
			ProjectID:         "proj-a",
			StartDate:         start.AddDays(7 * i),
			EndDate:           start.AddDays(7*i + 6),
			PercentAllocation: decimal.NewFromInt(50),
			HoursPerWeek:      decimal.NewFromInt(20),
		})
	}

	body, err := json.Marshal(migrate.Envelope{
		Entities: entities,
		Metadata: migrate.Metadata{SourceFile: "upload.tsv"},
	})
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/migrate/preview", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var preview api.MigrationPreviewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&preview))

	assert.True(t, preview.Validation.IsValid, "errors: %v", preview.Validation.Errors)
	require.Len(t, preview.Entities, 1)
	assert.Equal(t, "2024-01-01", preview.Entities[0].StartDate.String())
	assert.True(t, identity.IsUUIDv5(preview.Entities[0].ID))
	assert.Equal(t, "upload.tsv", preview.Metadata.SourceFile)
	assert.Equal(t, 4, preview.Metadata.SourceCount)
	assert.Equal(t, 1, preview.Metadata.EntityCount)
	assert.InDelta(t, 75.0, preview.Metadata.ReductionPercent, 0.001)
}

func TestPreviewMigration_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/migrate/preview", "application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
