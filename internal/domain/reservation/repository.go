package reservation

import (
	"context"
	"time"

	"github.com/kalakriti-store/commerce-api/internal/models"
)

type Repository interface {
	// -------- Catalog --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	GetProduct(
		ctx context.Context,
		id uint,
	) (*models.Product, error)

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	// -------- Reservation (create / claim) --------

	// Insert persists a new reservation. For bookings the insert itself is
	// the slot claim: a conflicting live booking for the same
	// (service, date, start) makes it fail with slot_unavailable.
	Insert(
		ctx context.Context,
		r *models.Reservation,
	) error

	// Delete is the compensation for a failed intent creation; removing the
	// pending row releases the slot claim with it. Never used elsewhere.
	Delete(
		ctx context.Context,
		id string,
	) error

	// -------- Reservation (state change) --------
	GetByID(
		ctx context.Context,
		id string,
	) (*models.Reservation, error)

	// ConditionalUpdate applies fields only while the row still holds
	// expected; returns false when another actor got there first.
	ConditionalUpdate(
		ctx context.Context,
		id string,
		expected Status,
		fields map[string]any,
	) (bool, error)

	// -------- Sweeper / availability --------
	FindStale(
		ctx context.Context,
		status Status,
		before time.Time,
	) ([]models.Reservation, error)

	FindBySlot(
		ctx context.Context,
		serviceID uint,
		slot Slot,
		statuses []Status,
	) ([]models.Reservation, error)

	ListBookedStarts(
		ctx context.Context,
		serviceID uint,
		date string,
		statuses []Status,
	) ([]string, error)
}
