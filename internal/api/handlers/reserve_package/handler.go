package reserve_package

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	reservePackage "github.com/m04kA/SMC-SchedulingService/internal/usecase/reserve_package"
)

const (
	msgInvalidPackageID      = "некорректный ID пакета"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidAppointment    = "некорректный формат времени записи, ожидается RFC3339"
	msgPackageNotFound       = "пакет не найден"
	msgPackageUnavailable    = "бронирование пакета недоступно: превышена квота кредитов или услуга не входит в пакет"
	msgBookingUnavailable    = "выбранный временной слот недоступен"
	msgBookingsLimitReached  = "достигнут лимит покупок этого пакета"
	msgCouponUnknown         = "купон не найден"
	msgCouponInvalid         = "купон не применим к этой покупке"
	msgCouponExpired         = "срок действия купона истёк"
	msgInvalidRequestContent = "некорректные данные запроса"
)

type Handler struct {
	useCase ReservePackageUseCase
	logger  Logger
}

func NewHandler(useCase ReservePackageUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/packages/{packageId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	packageID, err := strconv.ParseInt(vars["packageId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /packages/{id}/reservations - Invalid package ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPackageID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /packages/{id}/reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ReservePackageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /packages/{id}/reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID, packageID)
	if err != nil {
		h.logger.Warn("POST /packages/{id}/reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointment)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reservePackage.ErrPackageNotFound):
			h.logger.Warn("POST /packages/{id}/reservations - Package not found: package_id=%d", packageID)
			handlers.RespondNotFound(w, msgPackageNotFound)

		case errors.Is(err, reservePackage.ErrPackageBookingUnavailable):
			h.logger.Warn("POST /packages/{id}/reservations - Package booking unavailable: package_id=%d, customer_id=%d",
				packageID, customerID)
			handlers.RespondConflict(w, msgPackageUnavailable)

		case errors.Is(err, reservePackage.ErrBookingUnavailable):
			h.logger.Warn("POST /packages/{id}/reservations - Booking unavailable: package_id=%d, customer_id=%d",
				packageID, customerID)
			handlers.RespondConflict(w, msgBookingUnavailable)

		case errors.Is(err, reservePackage.ErrBookingsLimitReached):
			h.logger.Warn("POST /packages/{id}/reservations - Purchase limit reached: package_id=%d, customer_id=%d",
				packageID, customerID)
			handlers.RespondConflict(w, msgBookingsLimitReached)

		case errors.Is(err, reservePackage.ErrCouponUnknown):
			h.logger.Warn("POST /packages/{id}/reservations - Coupon unknown: customer_id=%d", customerID)
			handlers.RespondNotFound(w, msgCouponUnknown)

		case errors.Is(err, reservePackage.ErrCouponInvalid):
			h.logger.Warn("POST /packages/{id}/reservations - Coupon invalid: customer_id=%d", customerID)
			handlers.RespondBadRequest(w, msgCouponInvalid)

		case errors.Is(err, reservePackage.ErrCouponExpired):
			h.logger.Warn("POST /packages/{id}/reservations - Coupon expired: customer_id=%d", customerID)
			handlers.RespondBadRequest(w, msgCouponExpired)

		case errors.Is(err, reservePackage.ErrInvalidInput):
			h.logger.Warn("POST /packages/{id}/reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestContent)

		default:
			h.logger.Error("POST /packages/{id}/reservations - Failed to reserve package: package_id=%d, customer_id=%d, error=%v",
				packageID, customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /packages/{id}/reservations - Package reserved: purchase_id=%d, package_id=%d, customer_id=%d, appointments=%d",
		result.PackageCustomerID, packageID, customerID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
