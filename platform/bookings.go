package platform

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pawbook/go-admin-client/apiclient"
)

// BookingStatus is the canonical booking state enumeration.
type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingCompleted  BookingStatus = "COMPLETED"
	BookingCancelled  BookingStatus = "CANCELLED"
)

// BookingPetService is one pet/service line item of a booking.
type BookingPetService struct {
	PetID       string  `json:"petId"`
	PetName     string  `json:"petName"`
	PetImageURL string  `json:"petImageUrl"`
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
}

type Booking struct {
	ID                 string              `json:"id"`
	User               User                `json:"user"`
	Status             BookingStatus       `json:"status"`
	TotalPrice         float64             `json:"totalPrice"`
	PaymentStatus      string              `json:"paymentStatus"`
	BookingTime        string              `json:"bookingTime"`
	ScheduledStartTime string              `json:"scheduledStartTime"`
	ScheduledEndTime   string              `json:"scheduledEndTime"`
	ActualEndTime      *string             `json:"actualEndTime"`
	CancellationReason *string             `json:"cancellationReason"`
	Note               *string             `json:"note"`
	PetList            []BookingPetService `json:"petList"`
	CreatedAt          string              `json:"createdAt"`
	UpdatedAt          string              `json:"updatedAt"`
	DeletedAt          *string             `json:"deletedAt"`
}

// BookingCriteria filters booking listings.
type BookingCriteria struct {
	Query         string
	Status        BookingStatus
	PaymentStatus string
	UserID        string
	ProviderID    string
}

type BookingsService struct {
	api *apiclient.Client
}

func NewBookingsService(api *apiclient.Client) *BookingsService {
	return &BookingsService{api: api}
}

func (s *BookingsService) List(ctx context.Context, params ListParams, criteria BookingCriteria) (*Page[Booking], error) {
	values := params.Values()
	if criteria.Query != "" {
		values.Set("query", criteria.Query)
	}
	if criteria.Status != "" {
		values.Set("status", string(criteria.Status))
	}
	if criteria.PaymentStatus != "" {
		values.Set("paymentStatus", criteria.PaymentStatus)
	}
	if criteria.UserID != "" {
		values.Set("userId", criteria.UserID)
	}
	if criteria.ProviderID != "" {
		values.Set("providerId", criteria.ProviderID)
	}

	var resp pagedResponse[Booking]
	if err := s.api.Get(ctx, "/admin/bookings", &resp, apiclient.WithQuery(values)); err != nil {
		return nil, errors.Wrap(err, "[BookingsService.List] get")
	}
	page := resp.toPage()
	return &page, nil
}

func (s *BookingsService) Get(ctx context.Context, id string) (*Booking, error) {
	var envelope apiclient.Envelope[Booking]
	if err := s.api.Get(ctx, "/admin/bookings/"+id, &envelope); err != nil {
		return nil, errors.Wrap(err, "[BookingsService.Get] get")
	}
	booking, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[BookingsService.Get] unwrap")
	}
	return &booking, nil
}

// Cancel cancels a booking on the customer's behalf.
func (s *BookingsService) Cancel(ctx context.Context, id, reason string) (*Booking, error) {
	body := map[string]string{"cancellationReason": reason}
	var envelope apiclient.Envelope[Booking]
	if err := s.api.Post(ctx, "/admin/bookings/"+id+"/cancel", body, &envelope); err != nil {
		return nil, errors.Wrap(err, "[BookingsService.Cancel] post")
	}
	booking, err := envelope.Unwrap()
	if err != nil {
		return nil, errors.Wrap(err, "[BookingsService.Cancel] unwrap")
	}
	return &booking, nil
}
