package handlers

import (
	"context"

	"medtrack/internal/domain"
	"medtrack/internal/service/assignment"
	"medtrack/internal/service/delivery"
	"medtrack/internal/service/patient"
	"medtrack/internal/service/rider"
)

type deliveryUsecase interface {
	CreatePackage(ctx context.Context, in delivery.CreatePackageInput) (*domain.Delivery, error)
	CreateDelivery(ctx context.Context, in delivery.CreateDeliveryInput) (*domain.Delivery, error)
	Get(ctx context.Context, id string) (*domain.Delivery, error)
	GetByCode(ctx context.Context, code string) (*domain.Delivery, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Delivery, error)
	ByPatient(ctx context.Context, patientID string) ([]domain.Delivery, error)
	ByRider(ctx context.Context, riderID string) ([]domain.Delivery, error)
	Start(ctx context.Context, actor domain.Actor, id string) error
	Delivered(ctx context.Context, actor domain.Actor, id string) error
	Fail(ctx context.Context, actor domain.Actor, id string) error
	SetPayment(ctx context.Context, actor domain.Actor, id string, to domain.PaymentStatus) error
	UpdatePartial(ctx context.Context, u domain.PartialDeliveryUpdate) error
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Overview(ctx context.Context) (delivery.Overview, error)
}

// NewDeliveryUsecase wires a delivery Service into a deliveryUsecase.
func NewDeliveryUsecase(svc *delivery.Service) deliveryUsecase {
	return svc
}

type assignmentUsecase interface {
	Begin(ctx context.Context, patientID string) (*domain.Patient, error)
	RiderPool(ctx context.Context, tab assignment.Tab) ([]assignment.RiderLoad, error)
	SelectRider(ctx context.Context, riderID string) (*domain.Rider, error)
	ValidatePackage(ctx context.Context, code string) (*domain.Delivery, error)
	Confirm(ctx context.Context, in assignment.ConfirmInput) (*domain.Delivery, error)
}

// NewAssignmentUsecase wires an assignment Service into an assignmentUsecase.
func NewAssignmentUsecase(svc *assignment.Service) assignmentUsecase {
	return svc
}

type riderUsecase interface {
	Create(ctx context.Context, r *domain.Rider) (string, error)
	Get(ctx context.Context, id string) (*domain.Rider, error)
	List(ctx context.Context) ([]domain.Rider, error)
	UpdatePartial(ctx context.Context, u domain.PartialRiderUpdate) error
	Rate(ctx context.Context, id string, value float64) (*domain.Rider, error)
	Occupancy(ctx context.Context, id string) (domain.RiderOccupancy, error)
	Delete(ctx context.Context, id string) error
}

// NewRiderUsecase wires a rider Service into a riderUsecase.
func NewRiderUsecase(svc *rider.Service) riderUsecase {
	return svc
}

type patientUsecase interface {
	Create(ctx context.Context, p *domain.Patient) (string, error)
	Get(ctx context.Context, id string) (*domain.Patient, error)
	List(ctx context.Context) ([]domain.Patient, error)
	UpdatePartial(ctx context.Context, u domain.PartialPatientUpdate) error
	AddPrescription(ctx context.Context, patientID string, p domain.Prescription) (*domain.Patient, error)
	RecordEvent(ctx context.Context, patientID, description string) error
	Delete(ctx context.Context, id string) error
}

// NewPatientUsecase wires a patient Service into a patientUsecase.
func NewPatientUsecase(svc *patient.Service) patientUsecase {
	return svc
}
