package reservation

import (
	"time"

	"github.com/kalakriti-store/commerce-api/internal/httperr"
)

// ===============================
// Slot grid
// ===============================

// Bookings run on a fixed grid: six non-overlapping 2-hour windows between
// 09:00 and 21:00. The (service, date, start) triple is the exclusivity key.
const (
	SlotOpenHour  = 9
	SlotCloseHour = 21
	SlotHours     = 2
)

type Slot struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:mm
	EndTime   string `json:"end_time"`   // HH:mm
}

// SlotStarts lists the valid window start hours: 09, 11, 13, 15, 17, 19.
func SlotStarts() []int {
	var starts []int
	for h := SlotOpenHour; h+SlotHours <= SlotCloseHour; h += SlotHours {
		starts = append(starts, h)
	}
	return starts
}

// Validate checks that the slot sits exactly on the grid.
func (s Slot) Validate() error {
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return httperr.ErrBusiness(CodeInvalidSlot)
	}

	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return httperr.ErrBusiness(CodeInvalidSlot)
	}
	end, err := time.Parse("15:04", s.EndTime)
	if err != nil {
		return httperr.ErrBusiness(CodeInvalidSlot)
	}

	if start.Minute() != 0 || end.Minute() != 0 {
		return httperr.ErrBusiness(CodeInvalidSlot)
	}

	onGrid := false
	for _, h := range SlotStarts() {
		if start.Hour() == h {
			onGrid = true
			break
		}
	}
	if !onGrid {
		return httperr.ErrBusiness(CodeInvalidSlot)
	}

	if end.Hour() != start.Hour()+SlotHours {
		return httperr.ErrBusiness(CodeInvalidSlot)
	}

	return nil
}

// StartAt resolves the window start as wall-clock time in loc.
func (s Slot) StartAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", s.Date+" "+s.StartTime, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness(CodeInvalidSlot)
	}
	return t, nil
}

type TimeSlot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

type AvailabilityInput struct {
	ServiceID uint
	Date      string
}
