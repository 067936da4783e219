package cancel_package

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/packages"
)

const (
	msgInvalidPurchaseID = "некорректный ID покупки"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgPurchaseNotFound  = "покупка пакета не найдена"
	msgForbidden         = "доступ запрещен"
	msgAlreadyCanceled   = "покупка пакета уже отменена"
)

type Handler struct {
	service PackageService
	logger  Logger
}

func NewHandler(service PackageService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/package-purchases/{purchaseId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	purchaseID, err := strconv.ParseInt(vars["purchaseId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /package-purchases/{id}/cancel - Invalid purchase ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPurchaseID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /package-purchases/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Cancel(r.Context(), purchaseID, customerID)
	if err != nil {
		switch {
		case errors.Is(err, packages.ErrPackageCustomerNotFound):
			h.logger.Warn("PATCH /package-purchases/{id}/cancel - Purchase not found: purchase_id=%d", purchaseID)
			handlers.RespondNotFound(w, msgPurchaseNotFound)

		case errors.Is(err, packages.ErrAccessDenied):
			h.logger.Warn("PATCH /package-purchases/{id}/cancel - Access denied: purchase_id=%d, customer_id=%d",
				purchaseID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, packages.ErrAlreadyCanceled):
			h.logger.Warn("PATCH /package-purchases/{id}/cancel - Already canceled: purchase_id=%d", purchaseID)
			handlers.RespondConflict(w, msgAlreadyCanceled)

		default:
			h.logger.Error("PATCH /package-purchases/{id}/cancel - Failed to cancel purchase: purchase_id=%d, error=%v",
				purchaseID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /package-purchases/{id}/cancel - Purchase canceled: purchase_id=%d, customer_id=%d, refundable=%d",
		purchaseID, customerID, len(result.RefundablePayments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
