package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_package_availability"
)

const (
	msgInvalidServiceID      = "некорректный ID услуги"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgInvalidDateRange      = "некорректный диапазон дат, ожидается YYYY-MM-DD"
	msgInvalidLocationID     = "некорректный ID локации"
	msgInvalidPersons        = "некорректное число участников"
	msgInvalidParams         = "некорректные параметры запроса"
	msgScheduleUnavailable   = "сервис расписаний временно недоступен"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/package-availability
// Query params: startDate, endDate (YYYY-MM-DD), locationId, persons (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/package-availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /services/{id}/package-availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()

	startDate, err := time.Parse(domain.DateFormat, query.Get("startDate"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/package-availability - Invalid start date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}
	endDate, err := time.Parse(domain.DateFormat, query.Get("endDate"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/package-availability - Invalid end date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}
	// Конец диапазона включительно: раздвигаем до конца дня
	endDate = endDate.Add(24*time.Hour - time.Second)

	var locationID *int64
	if raw := query.Get("locationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /services/{id}/package-availability - Invalid location ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLocationID)
			return
		}
		locationID = &id
	}

	persons := 1
	if raw := query.Get("persons"); raw != "" {
		persons, err = strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /services/{id}/package-availability - Invalid persons: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPersons)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		CustomerID: customerID,
		ServiceID:  serviceID,
		LocationID: locationID,
		StartDate:  startDate,
		EndDate:    endDate,
		Persons:    persons,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/package-availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getAvailability.ErrScheduleUnavailable):
			h.logger.Warn("GET /services/{id}/package-availability - Schedule service unavailable: service_id=%d", serviceID)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgScheduleUnavailable)

		default:
			h.logger.Error("GET /services/{id}/package-availability - Failed to get availability: service_id=%d, customer_id=%d, error=%v",
				serviceID, customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/package-availability - Availability retrieved: service_id=%d, customer_id=%d, credits=%d",
		serviceID, customerID, len(result.Credits))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
