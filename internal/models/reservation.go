package models

import "time"

// Reservation is the unit the lifecycle engine manages. A single table holds
// both kinds; Kind discriminates which variant-specific columns are in use.
type Reservation struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Kind   string `gorm:"size:10;not null;index" json:"kind"`
	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	AmountPaise int64  `gorm:"not null" json:"amount_paise"`
	Currency    string `gorm:"size:3;not null;default:'INR'" json:"currency"`

	PaymentIntentID *string `gorm:"size:64" json:"payment_intent_id"`

	CustomerID uint     `json:"customer_id"`
	Customer   Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	// Booking only
	ServiceID *uint    `json:"service_id,omitempty"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`
	SlotDate  string   `gorm:"size:10" json:"slot_date,omitempty"`  // YYYY-MM-DD
	SlotStart string   `gorm:"size:5" json:"slot_start,omitempty"`  // HH:mm
	SlotEnd   string   `gorm:"size:5" json:"slot_end,omitempty"`    // HH:mm

	// Order only
	LineItems       []LineItem `gorm:"constraint:OnDelete:CASCADE;" json:"line_items,omitempty"`
	ShippingAddress string     `gorm:"size:255" json:"shipping_address,omitempty"`

	Notes       string     `gorm:"type:text" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LineItem struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ReservationID string `gorm:"size:36;index;not null" json:"reservation_id"`

	ProductID uint    `json:"product_id"`
	Product   Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"product"`

	Quantity       int   `gorm:"not null" json:"quantity"`
	UnitPricePaise int64 `gorm:"not null" json:"unit_price_paise"`
}
