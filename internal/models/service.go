package models

import "time"

// Service is a bookable offering sold by 2-hour slot.
type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	PricePaise  int64  `gorm:"not null" json:"price_paise"`
	Active      bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
