package handlers

import (
	"time"

	"medtrack/internal/domain"
)

type trackingDTO struct {
	EstimatedArrival *time.Time `json:"estimated_arrival,omitempty"`
	Status           string     `json:"status,omitempty"`
	Location         string     `json:"location,omitempty"`
	LastUpdated      *time.Time `json:"last_updated,omitempty"`
	ResponseTimeout  *time.Time `json:"response_timeout,omitempty"`
}

type drugCycleDTO struct {
	Length    int       `json:"length"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type deliveryDTO struct {
	ID            string        `json:"id"`
	PackageCode   string        `json:"package_code"`
	PatientID     *string       `json:"patient_id,omitempty"`
	PatientName   string        `json:"patient_name,omitempty"`
	RiderID       string        `json:"rider_id,omitempty"`
	Items         []string      `json:"items"`
	Location      string        `json:"location,omitempty"`
	Date          *time.Time    `json:"date,omitempty"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"payment_status"`
	Notes         string        `json:"notes,omitempty"`
	DrugCycle     *drugCycleDTO `json:"drug_cycle,omitempty"`
	Tracking      trackingDTO   `json:"tracking"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type createPackageRequest struct {
	RiderID string   `json:"rider_id"`
	Items   []string `json:"items"`
	Notes   string   `json:"notes"`
}

type createDeliveryRequest struct {
	PatientID        string     `json:"patient_id"`
	RiderID          string     `json:"rider_id"`
	Items            []string   `json:"items"`
	Location         string     `json:"location"`
	Date             *time.Time `json:"date,omitempty"`
	Notes            string     `json:"notes"`
	EstimatedArrival *time.Time `json:"estimated_arrival,omitempty"`
	ResponseTimeout  *time.Time `json:"response_timeout,omitempty"`
}

type updateDeliveryRequest struct {
	ID       string     `json:"id"`
	RiderID  *string    `json:"rider_id,omitempty"`
	Items    []string   `json:"items,omitempty"`
	Location *string    `json:"location,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

type paymentRequest struct {
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

type overviewResponse struct {
	StatusCounts     statusCountsDTO    `json:"status_counts"`
	SuccessRate      float64            `json:"success_rate"`
	TopRiders        []riderStandingDTO `json:"top_riders"`
	RecentDeliveries []deliveryDTO      `json:"recent_deliveries"`
	MonthlyGrowth    [12]int            `json:"monthly_growth"`
}

type riderStandingDTO struct {
	RiderID     string  `json:"rider_id"`
	Total       int     `json:"total"`
	Delivered   int     `json:"delivered"`
	SuccessRate float64 `json:"success_rate"`
}

type statusCountsDTO struct {
	Unassigned struct {
		Paid   int `json:"paid"`
		Unpaid int `json:"unpaid"`
	} `json:"unassigned"`
	Assigned struct {
		Pending    int `json:"pending"`
		InProgress int `json:"in_progress"`
		Delivered  int `json:"delivered"`
		Failed     int `json:"failed"`
	} `json:"assigned"`
}
