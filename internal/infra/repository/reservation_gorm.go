package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *ReservationGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = true", id).
		First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.CodeNotFound)
		}
		return nil, err
	}
	return &svc, nil
}

func (r *ReservationGormRepository) GetProduct(
	ctx context.Context,
	id uint,
) (*models.Product, error) {

	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = true", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.CodeNotFound)
		}
		return nil, err
	}
	return &product, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *ReservationGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}

	customer = models.Customer{
		Name:  name,
		Phone: phone,
		Email: email,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

// --------------------------------------------------
// Reservation (create / claim / compensate)
// --------------------------------------------------

func (r *ReservationGormRepository) Insert(
	ctx context.Context,
	res *models.Reservation,
) error {

	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		// The partial unique index turns a concurrent claim for the same
		// (service, date, start) into a duplicate-key failure.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.ErrBusiness(domain.CodeSlotUnavailable)
		}
		return err
	}
	return nil
}

func (r *ReservationGormRepository) Delete(
	ctx context.Context,
	id string,
) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Reservation{}).Error
}

// --------------------------------------------------
// Reservation (state change)
// --------------------------------------------------

func (r *ReservationGormRepository) GetByID(
	ctx context.Context,
	id string,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("LineItems").
		Where("id = ?", id).
		First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.CodeNotFound)
		}
		return nil, err
	}

	return &res, nil
}

func (r *ReservationGormRepository) ConditionalUpdate(
	ctx context.Context,
	id string,
	expected domain.Status,
	fields map[string]any,
) (bool, error) {

	tx := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(fields)

	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

// --------------------------------------------------
// Sweeper / availability
// --------------------------------------------------

func (r *ReservationGormRepository) FindStale(
	ctx context.Context,
	status domain.Status,
	before time.Time,
) ([]models.Reservation, error) {

	var stale []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(status), before).
		Order("created_at ASC").
		Find(&stale).Error; err != nil {
		return nil, err
	}

	return stale, nil
}

func (r *ReservationGormRepository) FindBySlot(
	ctx context.Context,
	serviceID uint,
	slot domain.Slot,
	statuses []domain.Status,
) ([]models.Reservation, error) {

	var matches []models.Reservation
	if err := r.db.WithContext(ctx).
		Where(
			"kind = 'booking' AND service_id = ? AND slot_date = ? AND slot_start = ? AND status IN ?",
			serviceID, slot.Date, slot.StartTime, statusStrings(statuses),
		).
		Find(&matches).Error; err != nil {
		return nil, err
	}

	return matches, nil
}

func (r *ReservationGormRepository) ListBookedStarts(
	ctx context.Context,
	serviceID uint,
	date string,
	statuses []domain.Status,
) ([]string, error) {

	var starts []string
	if err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where(
			"kind = 'booking' AND service_id = ? AND slot_date = ? AND status IN ?",
			serviceID, date, statusStrings(statuses),
		).
		Order("slot_start ASC").
		Pluck("slot_start", &starts).Error; err != nil {
		return nil, err
	}

	return starts, nil
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
