package dto

import "time"

type ReservationListDTO struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	AmountPaise  int64     `json:"amount_paise"`
	CustomerName string    `json:"customer_name"`
	SlotDate     string    `json:"slot_date,omitempty"`
	SlotStart    string    `json:"slot_start,omitempty"`
	SlotEnd      string    `json:"slot_end,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
