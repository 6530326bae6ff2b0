package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/kalakriti-store/commerce-api/internal/domain/reservation"
	"github.com/kalakriti-store/commerce-api/internal/httperr"
	"github.com/kalakriti-store/commerce-api/internal/logger"
)

var businessMessages = map[string]string{
	domain.CodeInvalidArgument:    "Invalid request.",
	domain.CodeInvalidSlot:        "Slot must be one of the fixed 2-hour windows between 09:00 and 21:00.",
	domain.CodeSlotUnavailable:    "This slot was just taken, please pick another time.",
	domain.CodeInvalidTransition:  "The reservation is not in a state that allows this action.",
	domain.CodeImmutable:          "A confirmed reservation cannot be changed this way; request a refund instead.",
	domain.CodeGatewayUnavailable: "Payment provider is unavailable, please try again.",
	domain.CodeInvalidSignature:   "Payment verification failed.",
	domain.CodeNotFound:           "Reservation not found.",
}

// writeLifecycleError maps engine business errors onto HTTP. Anything that
// is not a business error is a storage failure: logged, reported generically.
func writeLifecycleError(c *gin.Context, err error) {
	code := httperr.BusinessCode(err)
	msg := businessMessages[code]

	switch code {
	case domain.CodeInvalidArgument, domain.CodeInvalidSlot, domain.CodeInvalidSignature:
		httperr.BadRequest(c, code, msg)
	case domain.CodeNotFound:
		httperr.NotFound(c, code, msg)
	case domain.CodeSlotUnavailable, domain.CodeInvalidTransition, domain.CodeImmutable:
		// Expected contention outcomes, not server errors.
		httperr.Conflict(c, code, msg)
	case domain.CodeGatewayUnavailable:
		httperr.BadGateway(c, code, msg)
	default:
		logger.ErrorLogger.Errorf("storage error: %v", err)
		httperr.Internal(c, "internal_error", "Something went wrong.")
	}
}
