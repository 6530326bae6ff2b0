package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/dto"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/models"
	"github.com/kalakriti-store/commerce-api/internal/timezone"
	ucReservation "github.com/kalakriti-store/commerce-api/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	db              *gorm.DB
	updateStatusUC  *ucReservation.UpdateStatus
	approveRefundUC *ucReservation.ApproveRefund
	sweepUC         *ucReservation.SweepStale
	defaultSweep    time.Duration
}

func NewAdminHandler(
	db *gorm.DB,
	updateStatusUC *ucReservation.UpdateStatus,
	approveRefundUC *ucReservation.ApproveRefund,
	sweepUC *ucReservation.SweepStale,
	defaultSweep time.Duration,
) *AdminHandler {
	return &AdminHandler{
		db:              db,
		updateStatusUC:  updateStatusUC,
		approveRefundUC: approveRefundUC,
		sweepUC:         sweepUC,
		defaultSweep:    defaultSweep,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SweepRequest struct {
	ThresholdMinutes *int `json:"threshold_minutes"`
}

// ======================================================
// STATUS OVERRIDE
// ======================================================

func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	res, err := h.updateStatusUC.Execute(
		c.Request.Context(),
		c.Param("id"),
		domain.Status(req.Status),
		"admin",
	)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ======================================================
// REFUND APPROVAL
// ======================================================

func (h *AdminHandler) ApproveRefund(c *gin.Context) {
	res, err := h.approveRefundUC.Execute(c.Request.Context(), c.Param("id"), "admin")
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ======================================================
// SWEEP (scheduled invocation, not end-user traffic)
// ======================================================

func (h *AdminHandler) Sweep(c *gin.Context) {
	var req SweepRequest
	_ = c.ShouldBindJSON(&req)

	threshold := h.defaultSweep
	if req.ThresholdMinutes != nil {
		if *req.ThresholdMinutes <= 0 {
			httperr.BadRequest(c, domain.CodeInvalidArgument, "threshold_minutes must be positive.")
			return
		}
		threshold = time.Duration(*req.ThresholdMinutes) * time.Minute
	}

	result, err := h.sweepUC.Execute(c.Request.Context(), threshold)
	if err != nil {
		writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ======================================================
// LIST BY DATE
// ======================================================

func (h *AdminHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "date is required.")
		return
	}

	loc := timezone.Location(timezone.DefaultTimezone)
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)

	q := h.db.
		Preload("Customer").
		Where("created_at >= ? AND created_at < ?", start, end)

	if kind := c.Query("kind"); kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var reservations []models.Reservation
	if err := q.Order("created_at ASC").Find(&reservations).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reservations", "Failed to list reservations.")
		return
	}

	out := make([]dto.ReservationListDTO, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, dto.ReservationListDTO{
			ID:           r.ID,
			Kind:         r.Kind,
			Status:       r.Status,
			AmountPaise:  r.AmountPaise,
			CustomerName: r.Customer.Name,
			SlotDate:     r.SlotDate,
			SlotStart:    r.SlotStart,
			SlotEnd:      r.SlotEnd,
			CreatedAt:    r.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         dateStr,
		"reservations": out,
	})
}
