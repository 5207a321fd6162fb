package handlers

import (
	"time"

	"medtrack/internal/domain"
	"medtrack/internal/service/assignment"
)

type validatePackageRequest struct {
	PackageCode string `json:"package_code"`
}

type selectRiderRequest struct {
	RiderID string `json:"rider_id"`
}

type confirmAssignmentRequest struct {
	PackageCode      string       `json:"package_code"`
	PatientID        string       `json:"patient_id"`
	RiderID          string       `json:"rider_id"`
	DrugCycle        drugCycleDTO `json:"drug_cycle"`
	EstimatedArrival *time.Time   `json:"estimated_arrival,omitempty"`
	ResponseTimeout  *time.Time   `json:"response_timeout,omitempty"`
	Instructions     string       `json:"special_instructions,omitempty"`
}

type riderLoadDTO struct {
	Rider     riderDTO `json:"rider"`
	Total     int      `json:"total"`
	Pending   int      `json:"pending"`
	Completed int      `json:"completed"`
}

func (r confirmAssignmentRequest) toInput() assignment.ConfirmInput {
	in := assignment.ConfirmInput{
		PackageCode: r.PackageCode,
		PatientID:   r.PatientID,
		RiderID:     r.RiderID,
		Cycle: domain.DrugCycle{
			Length:    r.DrugCycle.Length,
			StartDate: r.DrugCycle.StartDate,
			EndDate:   r.DrugCycle.EndDate,
		},
		ResponseTimeout: r.ResponseTimeout,
		Notes:           r.Instructions,
	}
	if r.EstimatedArrival != nil {
		in.EstimatedArrival = *r.EstimatedArrival
	}
	return in
}

func riderLoadsToResponse(list []assignment.RiderLoad) []riderLoadDTO {
	out := make([]riderLoadDTO, 0, len(list))
	for _, rl := range list {
		out = append(out, riderLoadDTO{
			Rider:     riderToResponse(rl.Rider),
			Total:     rl.Occupancy.Total,
			Pending:   rl.Occupancy.Pending,
			Completed: rl.Occupancy.Completed,
		})
	}
	return out
}
