package handlers

import (
	"time"

	"medtrack/internal/domain"
	"medtrack/internal/service/delivery"
)

func (r createPackageRequest) toInput() delivery.CreatePackageInput {
	return delivery.CreatePackageInput{
		RiderID: r.RiderID,
		Items:   r.Items,
		Notes:   r.Notes,
	}
}

func (r createDeliveryRequest) toInput() delivery.CreateDeliveryInput {
	in := delivery.CreateDeliveryInput{
		PatientID:       r.PatientID,
		RiderID:         r.RiderID,
		Items:           r.Items,
		Location:        r.Location,
		Notes:           r.Notes,
		ResponseTimeout: r.ResponseTimeout,
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	if r.EstimatedArrival != nil {
		in.EstimatedArrival = *r.EstimatedArrival
	}
	return in
}

func (r updateDeliveryRequest) toModel() domain.PartialDeliveryUpdate {
	return domain.PartialDeliveryUpdate{
		ID:       r.ID,
		RiderID:  r.RiderID,
		Items:    r.Items,
		Location: r.Location,
		Date:     r.Date,
		Notes:    r.Notes,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func deliveryToResponse(d domain.Delivery) deliveryDTO {
	dto := deliveryDTO{
		ID:            d.ID,
		PackageCode:   d.PackageCode,
		PatientID:     d.PatientID,
		PatientName:   d.PatientName,
		RiderID:       d.RiderID,
		Items:         d.Items,
		Location:      d.Location,
		Date:          timePtr(d.Date),
		Status:        string(d.Status),
		PaymentStatus: string(d.PaymentStatus),
		Notes:         d.Notes,
		Tracking: trackingDTO{
			EstimatedArrival: timePtr(d.Tracking.EstimatedArrival),
			Status:           d.Tracking.Status,
			Location:         d.Tracking.Location,
			LastUpdated:      timePtr(d.Tracking.LastUpdated),
			ResponseTimeout:  d.Tracking.ResponseTimeout,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Items == nil {
		dto.Items = []string{}
	}
	if d.Cycle.Length > 0 {
		dto.DrugCycle = &drugCycleDTO{
			Length:    d.Cycle.Length,
			StartDate: d.Cycle.StartDate,
			EndDate:   d.Cycle.EndDate,
		}
	}
	return dto
}

func deliveriesToResponse(list []domain.Delivery) []deliveryDTO {
	out := make([]deliveryDTO, 0, len(list))
	for _, d := range list {
		out = append(out, deliveryToResponse(d))
	}
	return out
}

func overviewToResponse(o delivery.Overview) overviewResponse {
	var resp overviewResponse
	resp.StatusCounts.Unassigned.Paid = o.Counts.Unassigned.Paid
	resp.StatusCounts.Unassigned.Unpaid = o.Counts.Unassigned.Unpaid
	resp.StatusCounts.Assigned.Pending = o.Counts.Assigned.Pending
	resp.StatusCounts.Assigned.InProgress = o.Counts.Assigned.InProgress
	resp.StatusCounts.Assigned.Delivered = o.Counts.Assigned.Delivered
	resp.StatusCounts.Assigned.Failed = o.Counts.Assigned.Failed
	resp.SuccessRate = o.SuccessRate
	resp.TopRiders = make([]riderStandingDTO, 0, len(o.TopRiders))
	for _, s := range o.TopRiders {
		resp.TopRiders = append(resp.TopRiders, riderStandingDTO{
			RiderID:     s.RiderID,
			Total:       s.Total,
			Delivered:   s.Delivered,
			SuccessRate: s.SuccessRate,
		})
	}
	resp.RecentDeliveries = deliveriesToResponse(o.Recent)
	resp.MonthlyGrowth = o.MonthlyGrowth
	return resp
}
