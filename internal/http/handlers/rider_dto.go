package handlers

import "medtrack/internal/domain"

type riderDTO struct {
	ID              string             `json:"id"`
	FirstName       string             `json:"first_name"`
	LastName        string             `json:"last_name"`
	Phone           string             `json:"phone"`
	Status          domain.RiderStatus `json:"status"`
	VehicleType     domain.VehicleType `json:"vehicle_type"`
	Rating          float64            `json:"rating"`
	TotalRatings    int                `json:"total_ratings"`
	TotalDeliveries int                `json:"total_deliveries"`
	SuccessRate     float64            `json:"success_rate"`
}

type createRiderRequest struct {
	FirstName   string             `json:"first_name"`
	LastName    string             `json:"last_name"`
	Phone       string             `json:"phone"`
	Status      domain.RiderStatus `json:"status"`
	VehicleType domain.VehicleType `json:"vehicle_type"`
}

type updateRiderRequest struct {
	ID          string              `json:"id"`
	FirstName   *string             `json:"first_name,omitempty"`
	LastName    *string             `json:"last_name,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	Status      *domain.RiderStatus `json:"status,omitempty"`
	VehicleType *domain.VehicleType `json:"vehicle_type,omitempty"`
}

type rateRiderRequest struct {
	Value float64 `json:"value"`
}

type occupancyResponse struct {
	Total     int  `json:"total"`
	Pending   int  `json:"pending"`
	Completed int  `json:"completed"`
	Assigned  bool `json:"assigned"`
}

func (r createRiderRequest) toModel() *domain.Rider {
	return &domain.Rider{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		Status:      r.Status,
		VehicleType: r.VehicleType,
	}
}

func (r updateRiderRequest) toModel() domain.PartialRiderUpdate {
	return domain.PartialRiderUpdate{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		Status:      r.Status,
		VehicleType: r.VehicleType,
	}
}

func riderToResponse(rd domain.Rider) riderDTO {
	return riderDTO{
		ID:              rd.ID,
		FirstName:       rd.FirstName,
		LastName:        rd.LastName,
		Phone:           rd.Phone,
		Status:          rd.Status,
		VehicleType:     rd.VehicleType,
		Rating:          rd.Rating,
		TotalRatings:    rd.TotalRatings,
		TotalDeliveries: rd.TotalDeliveries,
		SuccessRate:     rd.SuccessRate,
	}
}

func ridersToResponse(list []domain.Rider) []riderDTO {
	out := make([]riderDTO, 0, len(list))
	for _, rd := range list {
		out = append(out, riderToResponse(rd))
	}
	return out
}

func occupancyToResponse(o domain.RiderOccupancy) occupancyResponse {
	return occupancyResponse{
		Total:     o.Total,
		Pending:   o.Pending,
		Completed: o.Completed,
		Assigned:  o.Assigned(),
	}
}
