/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's decimal-based model from the external API contract: numbers
  go out as floats rounded to 2 decimals, dates as ISO YYYY-MM-DD strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: The internal model these project
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/capacity-engine/engine"
	"github.com/warp/capacity-engine/migrate"
	"github.com/warp/capacity-engine/validate"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ResourceDTO represents a resource directory entry.
type ResourceDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// UtilizationPeriodDTO is one reporting bucket for one resource.
type UtilizationPeriodDTO struct {
	PeriodStart            string                    `json:"period_start"`
	PeriodEnd              string                    `json:"period_end"`
	Label                  string                    `json:"label"`
	TotalAllocationPercent float64                   `json:"total_allocation_percent"`
	NetAvailableHours      float64                   `json:"net_available_hours"`
	AllocatedHours         float64                   `json:"allocated_hours"`
	UnavailableHours       float64                   `json:"unavailable_hours"`
	UtilizationPercent     float64                   `json:"utilization_percent"`
	Status                 string                    `json:"status"`
	Allocations            []AllocationDetailDTO     `json:"allocations"`
	Unavailability         []UnavailabilityDetailDTO `json:"unavailability,omitempty"`
}

type AllocationDetailDTO struct {
	ProjectID   string          `json:"project_id"`
	ProjectName string          `json:"project_name,omitempty"`
	Color       string          `json:"color,omitempty"`
	Percent     float64         `json:"percent"`
	Tasks       []TaskDetailDTO `json:"tasks,omitempty"`
}

type TaskDetailDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UnavailabilityDetailDTO struct {
	Type        string  `json:"type"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Days        float64 `json:"days"`
	HoursLost   float64 `json:"hours_lost"`
	Description string  `json:"description,omitempty"`
}

// ResourceUtilizationDTO groups a resource with its computed periods.
type ResourceUtilizationDTO struct {
	Resource ResourceDTO            `json:"resource"`
	Periods  []UtilizationPeriodDTO `json:"periods"`
}

// MigrationPreviewResponse returns pipeline output plus its quality report
// without persisting anything.
type MigrationPreviewResponse struct {
	Entities   []engine.AllocationPeriod `json:"entities"`
	Metadata   migrate.Metadata          `json:"_metadata"`
	Validation validate.Result           `json:"validation"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func toResourceDTO(r engine.Resource) ResourceDTO {
	return ResourceDTO{ID: string(r.ID), Name: r.Name, Email: r.Email}
}

func toUtilizationDTO(u engine.UtilizationPeriod, label string) UtilizationPeriodDTO {
	dto := UtilizationPeriodDTO{
		PeriodStart:            u.PeriodStart.String(),
		PeriodEnd:              u.PeriodEnd.String(),
		Label:                  label,
		TotalAllocationPercent: round2(u.TotalAllocationPercent),
		NetAvailableHours:      round2(u.NetAvailableHours),
		AllocatedHours:         round2(u.AllocatedHours),
		UnavailableHours:       round2(u.UnavailableHours),
		UtilizationPercent:     round2(u.UtilizationPercent),
		Status:                 string(u.Status),
	}
	dto.Allocations = make([]AllocationDetailDTO, 0, len(u.Allocations))
	for _, a := range u.Allocations {
		detail := AllocationDetailDTO{
			ProjectID:   string(a.ProjectID),
			ProjectName: a.ProjectName,
			Color:       a.Color,
			Percent:     round2(a.Percent),
		}
		for _, task := range a.Tasks {
			detail.Tasks = append(detail.Tasks, TaskDetailDTO{ID: task.ID, Name: task.Name})
		}
		dto.Allocations = append(dto.Allocations, detail)
	}
	for _, uv := range u.Unavailability {
		days, _ := uv.Days.Float64()
		dto.Unavailability = append(dto.Unavailability, UnavailabilityDetailDTO{
			Type:        string(uv.Type),
			StartDate:   uv.StartDate.String(),
			EndDate:     uv.EndDate.String(),
			Days:        days,
			HoursLost:   round2(uv.HoursLost),
			Description: uv.Description,
		})
	}
	return dto
}

func toUtilizationDTOs(periods []engine.TimePeriod, results []engine.UtilizationPeriod) []UtilizationPeriodDTO {
	dtos := make([]UtilizationPeriodDTO, len(results))
	for i, u := range results {
		dtos[i] = toUtilizationDTO(u, periods[i].Label)
	}
	return dtos
}
