package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	ucReservation "github.com/kalakriti-store/commerce-api/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	createUC        *ucReservation.CreateReservation
	confirmUC       *ucReservation.ConfirmReservation
	cancelUC        *ucReservation.CancelReservation
	requestRefundUC *ucReservation.RequestRefund
	availabilityUC  *ucReservation.GetAvailability
	getUC           *ucReservation.GetReservation
}

func NewReservationHandler(
	createUC *ucReservation.CreateReservation,
	confirmUC *ucReservation.ConfirmReservation,
	cancelUC *ucReservation.CancelReservation,
	requestRefundUC *ucReservation.RequestRefund,
	availabilityUC *ucReservation.GetAvailability,
	getUC *ucReservation.GetReservation,
) *ReservationHandler {
	return &ReservationHandler{
		createUC:        createUC,
		confirmUC:       confirmUC,
		cancelUC:        cancelUC,
		requestRefundUC: requestRefundUC,
		availabilityUC:  availabilityUC,
		getUC:           getUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type lineItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type CreateReservationRequest struct {
	Kind string `json:"kind" binding:"required"`

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`

	// Order
	Items           []lineItemRequest `json:"items"`
	ShippingAddress string            `json:"shipping_address"`

	// Booking
	ServiceID uint   `json:"service_id"`
	SlotDate  string `json:"slot_date"`  // YYYY-MM-DD
	SlotStart string `json:"slot_start"` // HH:mm
	SlotEnd   string `json:"slot_end"`   // HH:mm

	Notes string `json:"notes"`
}

type ConfirmReservationRequest struct {
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in := ucReservation.CreateInput{
		Kind:            req.Kind,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		ServiceID:       req.ServiceID,
		Slot: domain.Slot{
			Date:      req.SlotDate,
			StartTime: req.SlotStart,
			EndTime:   req.SlotEnd,
		},
		Notes: req.Notes,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, ucReservation.LineItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}

	res, err := h.createUC.Execute(c.Request.Context(), in)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// ======================================================
// GET
// ======================================================

func (h *ReservationHandler) Get(c *gin.Context) {
	res, err := h.getUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ======================================================
// CONFIRM (client-reported payment outcome)
// ======================================================

func (h *ReservationHandler) Confirm(c *gin.Context) {
	var req ConfirmReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	res, err := h.confirmUC.Execute(c.Request.Context(), ucReservation.ConfirmInput{
		ID:        c.Param("id"),
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ======================================================
// CANCEL
// ======================================================

func (h *ReservationHandler) Cancel(c *gin.Context) {
	var req CancelReservationRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	reason := req.Reason
	if reason == "" {
		reason = "cancelled by customer"
	}

	res, err := h.cancelUC.Execute(c.Request.Context(), c.Param("id"), reason, "customer")
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ======================================================
// REQUEST REFUND
// ======================================================

func (h *ReservationHandler) RequestRefund(c *gin.Context) {
	res, err := h.requestRefundUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *ReservationHandler) Availability(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil || serviceID == 0 {
		httperr.BadRequest(c, "invalid_service_id", "service_id is required.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	slots, err := h.availabilityUC.Execute(c.Request.Context(), domain.AvailabilityInput{
		ServiceID: uint(serviceID),
		Date:      dateStr,
	})
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}
