package reservation

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kalakriti-store/commerce-api/internal/audit"
	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/gateway"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/models"
	"github.com/kalakriti-store/commerce-api/internal/timezone"
)

// fixedNow is every test's clock; slots are booked well after it.
var fixedNow = time.Date(2030, 1, 1, 12, 0, 0, 0, timezone.Location(timezone.DefaultTimezone))

type noopSink struct{}

func (noopSink) Log(actor, action, entity string, entityID *string, metadata any) error {
	return nil
}

func newTestAudit() *audit.Dispatcher {
	return audit.NewDispatcher(noopSink{})
}

// ===============================
// In-memory repository
// ===============================

// memRepo mirrors the store's two contractual behaviours: the partial unique
// index on live booking slots and the compare-and-set semantics of
// ConditionalUpdate. onFindStale lets a test mutate rows between the sweep's
// read and its conditional writes.
type memRepo struct {
	mu           sync.Mutex
	services     map[uint]models.Service
	products     map[uint]models.Product
	customers    map[string]models.Customer
	reservations map[string]models.Reservation
	nextCustomer uint
	onFindStale  func()
}

func newMemRepo() *memRepo {
	return &memRepo{
		services:     make(map[uint]models.Service),
		products:     make(map[uint]models.Product),
		customers:    make(map[string]models.Customer),
		reservations: make(map[string]models.Reservation),
	}
}

func (m *memRepo) addService(s models.Service) { m.services[s.ID] = s }
func (m *memRepo) addProduct(p models.Product) { m.products[p.ID] = p }

func (m *memRepo) seed(r models.Reservation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[r.ID] = r
}

func (m *memRepo) row(id string) (models.Reservation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	return r, ok
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reservations)
}

func (m *memRepo) GetService(ctx context.Context, id uint) (*models.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[id]
	if !ok {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}
	return &s, nil
}

func (m *memRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}
	return &p, nil
}

func (m *memRepo) GetOrCreateCustomer(ctx context.Context, name, phone, email string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.customers[phone]; ok {
		return &c, nil
	}
	m.nextCustomer++
	c := models.Customer{ID: m.nextCustomer, Name: name, Phone: phone, Email: email}
	m.customers[phone] = c
	return &c, nil
}

func (m *memRepo) Insert(ctx context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.Kind == string(domain.KindBooking) {
		for _, ex := range m.reservations {
			if ex.Kind != string(domain.KindBooking) {
				continue
			}
			if ex.Status != string(domain.StatusPending) && ex.Status != string(domain.StatusPaid) {
				continue
			}
			if ex.ServiceID != nil && r.ServiceID != nil && *ex.ServiceID == *r.ServiceID &&
				ex.SlotDate == r.SlotDate && ex.SlotStart == r.SlotStart {
				return httperr.ErrBusiness(domain.CodeSlotUnavailable)
			}
		}
	}

	if r.CreatedAt.IsZero() {
		r.CreatedAt = fixedNow
	}
	m.reservations[r.ID] = *r
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reservations, id)
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, httperr.ErrBusiness(domain.CodeNotFound)
	}
	return &r, nil
}

func (m *memRepo) ConditionalUpdate(
	ctx context.Context,
	id string,
	expected domain.Status,
	fields map[string]any,
) (bool, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.reservations[id]
	if !ok || cur.Status != string(expected) {
		return false, nil
	}

	for k, v := range fields {
		switch k {
		case "status":
			cur.Status = v.(string)
		case "payment_intent_id":
			if v == nil {
				cur.PaymentIntentID = nil
			} else {
				s := v.(string)
				cur.PaymentIntentID = &s
			}
		case "cancelled_at":
			t := v.(time.Time)
			cur.CancelledAt = &t
		case "notes":
			cur.Notes = v.(string)
		}
	}
	cur.UpdatedAt = fixedNow

	m.reservations[id] = cur
	return true, nil
}

func (m *memRepo) FindStale(
	ctx context.Context,
	status domain.Status,
	before time.Time,
) ([]models.Reservation, error) {

	m.mu.Lock()
	var out []models.Reservation
	for _, r := range m.reservations {
		if r.Status == string(status) && r.CreatedAt.Before(before) {
			out = append(out, r)
		}
	}
	m.mu.Unlock()

	if m.onFindStale != nil {
		hook := m.onFindStale
		m.onFindStale = nil
		hook()
	}
	return out, nil
}

func (m *memRepo) FindBySlot(
	ctx context.Context,
	serviceID uint,
	slot domain.Slot,
	statuses []domain.Status,
) ([]models.Reservation, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Reservation
	for _, r := range m.reservations {
		if r.ServiceID == nil || *r.ServiceID != serviceID {
			continue
		}
		if r.SlotDate != slot.Date || r.SlotStart != slot.StartTime {
			continue
		}
		for _, s := range statuses {
			if r.Status == string(s) {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (m *memRepo) ListBookedStarts(
	ctx context.Context,
	serviceID uint,
	date string,
	statuses []domain.Status,
) ([]string, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, r := range m.reservations {
		if r.Kind != string(domain.KindBooking) || r.ServiceID == nil || *r.ServiceID != serviceID {
			continue
		}
		if r.SlotDate != date {
			continue
		}
		for _, s := range statuses {
			if r.Status == string(s) {
				out = append(out, r.SlotStart)
				break
			}
		}
	}
	return out, nil
}

var _ domain.Repository = (*memRepo)(nil)

// ===============================
// Mock gateway
// ===============================

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateIntent(
	ctx context.Context,
	amountPaise int64,
	currency string,
	receipt string,
) (*gateway.PaymentIntent, error) {

	args := m.Called(ctx, amountPaise, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentIntent), args.Error(1)
}

func (m *mockGateway) VerifyPaymentSignature(intentID, paymentID, signature string) bool {
	args := m.Called(intentID, paymentID, signature)
	return args.Bool(0)
}

var _ gateway.PaymentGateway = (*mockGateway)(nil)
