package reservation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalakriti-store/commerce-api/internal/audit"
	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/gateway"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/logger"
	"github.com/kalakriti-store/commerce-api/internal/models"
	"github.com/kalakriti-store/commerce-api/internal/timezone"
)

const currency = "INR"

// ======================================================
// INPUT
// ======================================================

type LineItemInput struct {
	ProductID uint
	Quantity  int
}

type CreateInput struct {
	Kind string

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	// Order
	Items           []LineItemInput
	ShippingAddress string

	// Booking
	ServiceID uint
	Slot      domain.Slot

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	repo    domain.Repository
	gateway gateway.PaymentGateway
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewCreateReservation(
	repo domain.Repository,
	gw gateway.PaymentGateway,
	audit *audit.Dispatcher,
) *CreateReservation {
	return &CreateReservation{
		repo:    repo,
		gateway: gw,
		audit:   audit,
		now:     timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReservation) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Reservation, error) {

	kind := domain.Kind(in.Kind)
	if !kind.Valid() {
		return nil, httperr.ErrBusiness(domain.CodeInvalidArgument)
	}

	if strings.TrimSpace(in.CustomerName) == "" || strings.TrimSpace(in.CustomerPhone) == "" {
		return nil, httperr.ErrBusiness(domain.CodeInvalidArgument)
	}

	res := &models.Reservation{
		ID:       uuid.NewString(),
		Kind:     string(kind),
		Status:   string(domain.InitialStatus()),
		Currency: currency,
		Notes:    in.Notes,
	}

	// The amount is fixed here and never recomputed: the customer keeps
	// the price they were quoted.
	switch kind {
	case domain.KindBooking:
		if err := uc.fillBooking(ctx, in, res); err != nil {
			return nil, err
		}
	case domain.KindOrder:
		if err := uc.fillOrder(ctx, in, res); err != nil {
			return nil, err
		}
	}

	customer, err := uc.repo.GetOrCreateCustomer(
		ctx,
		in.CustomerName,
		in.CustomerPhone,
		in.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}
	res.CustomerID = customer.ID
	res.Customer = *customer

	// For bookings the insert is the slot claim; a losing racer gets
	// slot_unavailable and surfaces it to the user, never retries.
	if err := uc.repo.Insert(ctx, res); err != nil {
		if httperr.IsBusiness(err, domain.CodeSlotUnavailable) {
			uc.audit.Dispatch(audit.Event{
				Actor:  "customer",
				Action: "reservation_slot_conflict",
				Entity: "reservation",
				Metadata: map[string]any{
					"service_id": in.ServiceID,
					"slot":       in.Slot,
				},
			})
		}
		return nil, err
	}

	intent, err := uc.gateway.CreateIntent(ctx, res.AmountPaise, res.Currency, res.ID)
	if err != nil {
		// Compensate: drop the pending row so the slot claim dies with it.
		if delErr := uc.repo.Delete(ctx, res.ID); delErr != nil {
			logger.ErrorLogger.Errorf("compensation delete failed for reservation %s: %v", res.ID, delErr)
		}
		logger.ErrorLogger.Errorf("payment intent creation failed for reservation %s: %v", res.ID, err)
		return nil, httperr.ErrBusiness(domain.CodeGatewayUnavailable)
	}

	res.PaymentIntentID = &intent.IntentID
	if _, err := uc.repo.ConditionalUpdate(
		ctx,
		res.ID,
		domain.StatusPending,
		map[string]any{"payment_intent_id": intent.IntentID},
	); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Actor:    "customer",
		Action:   "reservation_created",
		Entity:   "reservation",
		EntityID: &res.ID,
		Metadata: map[string]any{"kind": res.Kind, "amount_paise": res.AmountPaise},
	})

	return res, nil
}

// ======================================================
// PRICING
// ======================================================

func (uc *CreateReservation) fillBooking(
	ctx context.Context,
	in CreateInput,
	res *models.Reservation,
) error {

	if in.ServiceID == 0 {
		return httperr.ErrBusiness(domain.CodeInvalidArgument)
	}
	if err := in.Slot.Validate(); err != nil {
		return err
	}

	start, err := in.Slot.StartAt(timezone.Location(timezone.DefaultTimezone))
	if err != nil {
		return err
	}
	if !start.After(uc.now()) {
		return httperr.ErrBusiness(domain.CodeInvalidSlot)
	}

	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return err
	}

	serviceID := svc.ID
	res.ServiceID = &serviceID
	res.SlotDate = in.Slot.Date
	res.SlotStart = in.Slot.StartTime
	res.SlotEnd = in.Slot.EndTime
	res.AmountPaise = svc.PricePaise

	return nil
}

func (uc *CreateReservation) fillOrder(
	ctx context.Context,
	in CreateInput,
	res *models.Reservation,
) error {

	if len(in.Items) == 0 {
		return httperr.ErrBusiness(domain.CodeInvalidArgument)
	}

	var total int64
	items := make([]models.LineItem, 0, len(in.Items))

	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return httperr.ErrBusiness(domain.CodeInvalidArgument)
		}

		product, err := uc.repo.GetProduct(ctx, it.ProductID)
		if err != nil {
			return err
		}

		items = append(items, models.LineItem{
			ReservationID:  res.ID,
			ProductID:      product.ID,
			Quantity:       it.Quantity,
			UnitPricePaise: product.PricePaise,
		})
		total += int64(it.Quantity) * product.PricePaise
	}

	res.LineItems = items
	res.ShippingAddress = in.ShippingAddress
	res.AmountPaise = total

	return nil
}
